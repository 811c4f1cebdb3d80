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

import (
	"strconv"
	"strings"
)

// DimensionKind distinguishes the three flavors of Dimension value.
type DimensionKind uint8

const (
	DimensionAbsolute DimensionKind = iota
	DimensionRelative
	DimensionAuto
)

// Dimension is a length value: either an absolute pixel-equivalent
// quantity, a relative (percentage-like) quantity, or "auto".
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

func AbsoluteDimension(v float64) Dimension { return Dimension{DimensionAbsolute, v} }
func RelativeDimension(v float64) Dimension { return Dimension{DimensionRelative, v} }
func AutoDimension() Dimension              { return Dimension{Kind: DimensionAuto} }

func (d Dimension) String() string {
	switch d.Kind {
	case DimensionAuto:
		return "auto"
	case DimensionRelative:
		return strconv.FormatFloat(d.Value, 'g', -1, 64) + "%"
	default:
		return strconv.FormatFloat(d.Value, 'g', -1, 64) + "dp"
	}
}

// ParseDimension parses a dimension literal of the form accepted by the
// "${...}" grammar's dimension sub-production: "auto", a bare number, or
// a number followed by one of the unit suffixes px/dp/vh/vw/%.
//
// "vh" and "vw" are resolved against metrics at parse time: a value of N
// vh/vw is N percent of the viewport's height/width in pixels, ported
// from Context::vhToDp/vwToDp. "px" and "dp" carry no such
// viewport-relative scaling and pass the literal number straight
// through as Absolute.
//
// A bare number (no suffix) is Absolute unless preferRelative is set, in
// which case it is interpreted as a percentage and scaled by 100 before
// being tagged Relative — this mirrors the original grammar's handling
// of dimension-valued style properties that default to percentages.
// Unparseable input yields an Absolute zero dimension, matching the
// original's parse-failure fallback.
func ParseDimension(s string, preferRelative bool, metrics ViewportMetrics) Dimension {
	s = strings.TrimSpace(s)
	if s == "auto" {
		return AutoDimension()
	}

	for _, suffix := range []string{"px", "dp", "vh", "vw"} {
		if strings.HasSuffix(s, suffix) {
			num, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-len(suffix)]), 64)
			if err != nil {
				return AbsoluteDimension(0)
			}
			switch suffix {
			case "vh":
				return AbsoluteDimension(num / 100 * metrics.HeightPixels)
			case "vw":
				return AbsoluteDimension(num / 100 * metrics.WidthPixels)
			default:
				return AbsoluteDimension(num)
			}
		}
	}

	if strings.HasSuffix(s, "%") {
		num, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
		if err != nil {
			return AbsoluteDimension(0)
		}
		return RelativeDimension(num)
	}

	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return AbsoluteDimension(0)
	}
	if preferRelative {
		return RelativeDimension(num * 100)
	}
	return AbsoluteDimension(num)
}
