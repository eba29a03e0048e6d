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

import "testing"

func TestConvert(t *testing.T) {
	tests := []struct {
		from, to string
		in, out  float64
	}{
		{from: "km3/year", to: "mcm/year", in: 1, out: 1000},
		{from: "mcm/year", to: "km3/year", in: 1000, out: 1},
		{from: "km3", to: "mcm", in: 2.5, out: 2500},
		{from: "mcm", to: "km3", in: 500, out: 0.5},
	}
	for _, tt := range tests {
		got, err := Convert(tt.in, tt.from, tt.to)
		if err != nil {
			t.Errorf("%s to %s: %v", tt.from, tt.to, err)
			continue
		}
		if got != tt.out {
			t.Errorf("%s to %s: got %g, want %g", tt.from, tt.to, got, tt.out)
		}
	}
}

func TestConvertUnsupported(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{from: "km3", to: "mcm/year"},
		{from: "km3/year", to: "km3/year"},
		{from: "kg", to: "t"},
	}
	for _, tt := range tests {
		_, err := Convert(1, tt.from, tt.to)
		if _, ok := err.(*ConversionError); !ok {
			t.Errorf("%s to %s: got %v, want ConversionError", tt.from, tt.to, err)
		}
	}
}

func TestParseRateOp(t *testing.T) {
	tests := []struct {
		in   string
		want RateOp
	}{
		{in: "", want: RateOpNone},
		{in: "none", want: RateOpNone},
		{in: "identity", want: RateOpIdentity},
		{in: "invert", want: RateOpInvert},
	}
	for _, tt := range tests {
		got, err := ParseRateOp(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseRateOp("sqrt"); err == nil {
		t.Error("sqrt: got nil error, want UnknownRateOperatorError")
	}
}
