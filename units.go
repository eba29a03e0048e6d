/*
Copyright © 2026 the nexusprep authors.
This file is part of nexusprep.

nexusprep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nexusprep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nexusprep.  If not, see <http://www.gnu.org/licenses/>.*/

package nexusprep

import (
	"fmt"

	"github.com/ctessum/unit"
)

var yearDim unit.Dimension

// volumeUnits expresses the water-volume units used in parameter tables
// in SI base units (m³, and m³ per year for flows).
var volumeUnits map[string]*unit.Unit

func init() {
	yearDim = unit.NewDimension("yr")
	volume := unit.Dimensions{unit.LengthDim: 3}
	volumePerYear := unit.Dimensions{unit.LengthDim: 3, yearDim: -1}
	volumeUnits = map[string]*unit.Unit{
		"km3":      unit.New(1e9, volume),
		"mcm":      unit.New(1e6, volume),
		"km3/year": unit.New(1e9, volumePerYear),
		"mcm/year": unit.New(1e6, volumePerYear),
	}
}

// conversionPairs is the closed set of supported unit conversions.
var conversionPairs = map[[2]string]bool{
	{"km3/year", "mcm/year"}: true,
	{"mcm/year", "km3/year"}: true,
	{"km3", "mcm"}:           true,
	{"mcm", "km3"}:           true,
}

// ConversionError is returned when a unit conversion outside the supported
// set of unit pairs is requested.
type ConversionError struct {
	From, To string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("nexusprep: unsupported unit conversion %q to %q", e.From, e.To)
}

// ConversionFactor returns the multiplier that converts a value in unit
// `from` to unit `to`. Only the pairs km3/year↔mcm/year and km3↔mcm are
// supported; any other pair returns a ConversionError.
func ConversionFactor(from, to string) (float64, error) {
	if !conversionPairs[[2]string{from, to}] {
		return 0, &ConversionError{From: from, To: to}
	}
	return unit.Div(volumeUnits[from], volumeUnits[to]).Value(), nil
}

// Convert converts v from unit `from` to unit `to`.
func Convert(v float64, from, to string) (float64, error) {
	f, err := ConversionFactor(from, to)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}
