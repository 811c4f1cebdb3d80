/*
Copyright (C) 2023  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package bind

import "testing"

func TestParseDimension(t *testing.T) {
	// A non-trivial, non-square viewport so a test bug that treats vh/vw
	// like px/dp (skipping the viewport scaling entirely) or that swaps
	// height and width cannot pass by accident.
	metrics := ViewportMetrics{WidthPixels: 400, HeightPixels: 800}

	cases := []struct {
		in             string
		preferRelative bool
		want           Dimension
	}{
		{"auto", false, AutoDimension()},
		{"10px", false, AbsoluteDimension(10)},
		{"10dp", false, AbsoluteDimension(10)},
		{"50vh", false, AbsoluteDimension(400)},
		{"50vw", false, AbsoluteDimension(200)},
		{"25%", false, RelativeDimension(25)},
		{"10", false, AbsoluteDimension(10)},
		{"0.5", true, RelativeDimension(50)},
		{"garbage", false, AbsoluteDimension(0)},
	}
	for _, c := range cases {
		got := ParseDimension(c.in, c.preferRelative, metrics)
		if got != c.want {
			t.Errorf("ParseDimension(%q, %v) = %+v, want %+v", c.in, c.preferRelative, got, c.want)
		}
	}
}

func TestParseDimensionViewportUnitsScaleIndependently(t *testing.T) {
	metrics := ViewportMetrics{WidthPixels: 1000, HeightPixels: 2000}
	if got := ParseDimension("10vw", false, metrics); got != AbsoluteDimension(100) {
		t.Errorf("10vw against width 1000 = %+v, want 100dp", got)
	}
	if got := ParseDimension("10vh", false, metrics); got != AbsoluteDimension(200) {
		t.Errorf("10vh against height 2000 = %+v, want 200dp", got)
	}
}

func TestParseDimensionFromContextUsesRootViewport(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{WidthPixels: 300, HeightPixels: 600})
	code := compileBody(t, ctx, "50vh")
	if got := code.Eval(); !got.IsAbsoluteDimension() || got.Dimension().Value != 300 {
		t.Errorf("50vh under root context = %s, want 300dp", got.DebugString())
	}
}

func TestDimensionArithmeticMixesAbsoluteAndNumber(t *testing.T) {
	a := NewDimension(AbsoluteDimension(10))
	b := NewNumber(5)
	sum := CalculateAdd(a, b)
	if !sum.IsAbsoluteDimension() || sum.Dimension().Value != 15 {
		t.Fatalf("10dp + 5 = %s, want 15dp", sum.DebugString())
	}
}

func TestDimensionMismatchedKindsDoNotArithmetic(t *testing.T) {
	a := NewDimension(AbsoluteDimension(10))
	b := NewDimension(RelativeDimension(10))
	got := CalculateAdd(a, b)
	if !got.IsString() || got.AsString() != "10dp10%" {
		t.Errorf("Absolute + Relative = %s, want String<\"10dp10%%\"> (string concatenation)", got.DebugString())
	}
}

func TestDimensionString(t *testing.T) {
	if got := AbsoluteDimension(10).String(); got != "10dp" {
		t.Errorf("String() = %q, want %q", got, "10dp")
	}
	if got := RelativeDimension(25).String(); got != "25%" {
		t.Errorf("String() = %q, want %q", got, "25%")
	}
	if got := AutoDimension().String(); got != "auto" {
		t.Errorf("String() = %q, want %q", got, "auto")
	}
}
