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

import "fmt"

// Row is one observation in a component table.
type Row struct {
	Node     string
	Year     int
	Time     string
	Value    float64
	Variable string // optional; dropped when a table is used as a rate
}

// Table is a component table: a flat series of observations keyed by
// node, year, and sub-annual time slice.
type Table []Row

// ParamRow is one row of an output parameter table, matching the column
// schema of the optimization platform's demand-parameter loader.
type ParamRow struct {
	Node      string
	Commodity string
	Level     string
	Year      int
	Time      string
	Value     float64
	Unit      string
}

// LevelFinal is the commodity level assigned to demand parameters.
const LevelFinal = "final"

// DefaultRegionPrefix is prepended to node names in output tables when no
// other prefix is configured.
const DefaultRegionPrefix = "B"

// ApplyOptions adjusts how a compiled rule is applied.
type ApplyOptions struct {
	// RegionPrefix is prepended to every node name in the output table.
	// If empty, DefaultRegionPrefix is used.
	RegionPrefix string
	// ConvertToMCM converts output values from km3/year to mcm/year.
	ConvertToMCM bool
}

// nodeYear is the join key between withdrawal and rate series.
type nodeYear struct {
	node string
	year int
}

// ApplyRule evaluates a compiled rule against a set of named component
// tables, producing a demand-parameter table. The rule's withdrawal key
// must name a component; the rate key, when present, must too. Rate series
// are joined to withdrawal series on node and year (the rate's time and
// variable columns are dropped), so a rate series must hold exactly one
// observation per node and year; duplicates are an error rather than
// silently collapsed. Withdrawal rows with no matching rate row are
// omitted, as in an inner join.
//
// ApplyRule is a pure function of its arguments: it does no I/O and does
// not modify the supplied tables.
func ApplyRule(rule *CompiledRule, components map[string]Table, opts ApplyOptions) ([]ParamRow, error) {
	withdrawal, ok := components[rule.Withdrawal]
	if !ok {
		return nil, fmt.Errorf("nexusprep: no component %q for rule %q", rule.Withdrawal, rule.Commodity)
	}

	var rateIndex map[nodeYear]float64
	if rule.Rate != "" {
		rate, ok := components[rule.Rate]
		if !ok {
			return nil, fmt.Errorf("nexusprep: no component %q for rule %q", rule.Rate, rule.Commodity)
		}
		rateIndex = make(map[nodeYear]float64, len(rate))
		for _, r := range rate {
			k := nodeYear{r.Node, r.Year}
			if _, ok := rateIndex[k]; ok {
				return nil, fmt.Errorf("nexusprep: component %q has more than one rate observation for node %q year %d",
					rule.Rate, r.Node, r.Year)
			}
			rateIndex[k] = r.Value
		}
	}

	prefix := opts.RegionPrefix
	if prefix == "" {
		prefix = DefaultRegionPrefix
	}
	outUnit := "km3/year"
	unitScale := 1.0
	if opts.ConvertToMCM {
		var err error
		unitScale, err = ConversionFactor("km3/year", "mcm/year")
		if err != nil {
			return nil, err
		}
		outUnit = "mcm/year"
	}

	out := make([]ParamRow, 0, len(withdrawal))
	for _, w := range withdrawal {
		v, ok, err := computeValue(rule, rateIndex, w)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, ParamRow{
			Node:      prefix + w.Node,
			Commodity: rule.Commodity,
			Level:     LevelFinal,
			Year:      w.Year,
			Time:      w.Time,
			Value:     v * unitScale,
			Unit:      outUnit,
		})
	}
	return out, nil
}

// computeValue computes a single output value for withdrawal row w. The
// boolean result is false when the rule has a rate series but no rate row
// matches w's node and year.
func computeValue(rule *CompiledRule, rateIndex map[nodeYear]float64, w Row) (float64, bool, error) {
	var v float64
	if rateIndex == nil {
		v = rule.Conversion * w.Value
	} else {
		r, ok := rateIndex[nodeYear{w.Node, w.Year}]
		if !ok {
			return 0, false, nil
		}
		switch rule.RateOp {
		case RateOpIdentity:
			v = rule.Conversion * w.Value * r
		case RateOpInvert:
			v = rule.Conversion * w.Value * (1 - r)
		case RateOpNone:
			v = rule.Conversion * w.Value
		default:
			return 0, false, &UnknownRateOperatorError{Op: rule.RateOp.String()}
		}
	}
	if rule.Sign < 0 {
		v = -v
	}
	return v, true, nil
}
