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
	"math"
	"reflect"
	"testing"
)

func testComponents() map[string]Table {
	return map[string]Table{
		"urban_withdrawal": {
			{Node: "AFR", Year: 2020, Time: "year", Value: 2},
			{Node: "AFR", Year: 2030, Time: "year", Value: 4},
			{Node: "SAS", Year: 2020, Time: "year", Value: 10},
		},
		"urban_connection_rate": {
			{Node: "AFR", Year: 2020, Time: "year", Value: 0.5},
			{Node: "AFR", Year: 2030, Time: "year", Value: 0.75},
			{Node: "SAS", Year: 2020, Time: "year", Value: 0.2},
		},
	}
}

func TestApplyRuleIdentity(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "urban_withdrawal",
		Rate:       "urban_connection_rate",
		Conversion: 3,
		RateOp:     RateOpIdentity,
		Sign:       1,
	}
	got, err := ApplyRule(rule, testComponents(), ApplyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []ParamRow{
		{Node: "BAFR", Commodity: "urban_mw", Level: "final", Year: 2020, Time: "year", Value: 3 * 2 * 0.5, Unit: "km3/year"},
		{Node: "BAFR", Commodity: "urban_mw", Level: "final", Year: 2030, Time: "year", Value: 3 * 4 * 0.75, Unit: "km3/year"},
		{Node: "BSAS", Commodity: "urban_mw", Level: "final", Year: 2020, Time: "year", Value: 3 * 10 * 0.2, Unit: "km3/year"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApplyRuleInvert(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "urban_dis",
		Withdrawal: "urban_withdrawal",
		Rate:       "urban_connection_rate",
		Conversion: 1,
		RateOp:     RateOpInvert,
		Sign:       1,
	}
	got, err := ApplyRule(rule, testComponents(), ApplyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	wantValues := []float64{2 * 0.5, 4 * 0.25, 10 * 0.8}
	if len(got) != len(wantValues) {
		t.Fatalf("got %d rows, want %d", len(got), len(wantValues))
	}
	for i, w := range wantValues {
		if math.Abs(got[i].Value-w) > 1e-12 {
			t.Errorf("row %d: got %g, want %g", i, got[i].Value, w)
		}
	}
}

func TestApplyRuleSign(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "urban_collected_wst",
		Withdrawal: "urban_withdrawal",
		Rate:       "urban_connection_rate",
		Conversion: 3,
		RateOp:     RateOpIdentity,
		Sign:       -1,
	}
	got, err := ApplyRule(rule, testComponents(), ApplyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Value != -3*2*0.5 {
		t.Errorf("got %g, want %g", got[0].Value, -3*2*0.5)
	}
}

func TestApplyRuleNoRate(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "industry_mw",
		Withdrawal: "urban_withdrawal",
		Conversion: 2,
		RateOp:     RateOpNone,
		Sign:       1,
	}
	got, err := ApplyRule(rule, testComponents(), ApplyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Value != 4 {
		t.Errorf("got %g, want 4", got[0].Value)
	}
}

func TestApplyRuleInnerJoin(t *testing.T) {
	// Withdrawal rows with no matching rate row are dropped.
	components := testComponents()
	components["urban_connection_rate"] = components["urban_connection_rate"][:1]
	rule := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "urban_withdrawal",
		Rate:       "urban_connection_rate",
		Conversion: 1,
		RateOp:     RateOpIdentity,
		Sign:       1,
	}
	got, err := ApplyRule(rule, components, ApplyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Node != "BAFR" || got[0].Year != 2020 {
		t.Errorf("got %s %d, want BAFR 2020", got[0].Node, got[0].Year)
	}
}

func TestApplyRuleDuplicateRate(t *testing.T) {
	// Two rate observations for the same node and year mean the table was
	// not harmonized to one row per node and year; joining would silently
	// keep an arbitrary one, so it is an error instead.
	components := testComponents()
	components["urban_connection_rate"] = append(components["urban_connection_rate"],
		Row{Node: "AFR", Year: 2020, Time: "summer", Value: 0.6})
	rule := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "urban_withdrawal",
		Rate:       "urban_connection_rate",
		Conversion: 1,
		RateOp:     RateOpIdentity,
		Sign:       1,
	}
	if _, err := ApplyRule(rule, components, ApplyOptions{}); err == nil {
		t.Error("duplicate rate observations: got nil error")
	}
}

func TestApplyRuleUnitConversion(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "urban_withdrawal",
		Conversion: 1,
		Sign:       1,
	}
	got, err := ApplyRule(rule, testComponents(), ApplyOptions{ConvertToMCM: true})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Value != 2000 {
		t.Errorf("got %g, want 2000", got[0].Value)
	}
	if got[0].Unit != "mcm/year" {
		t.Errorf("got unit %q, want mcm/year", got[0].Unit)
	}
}

func TestApplyRuleRegionPrefix(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "urban_withdrawal",
		Conversion: 1,
		Sign:       1,
	}
	got, err := ApplyRule(rule, testComponents(), ApplyOptions{RegionPrefix: "R11_"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Node != "R11_AFR" {
		t.Errorf("got %q, want R11_AFR", got[0].Node)
	}
}

func TestApplyRuleUnknownRateOp(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "urban_withdrawal",
		Rate:       "urban_connection_rate",
		Conversion: 1,
		RateOp:     RateOp(99),
		Sign:       1,
	}
	_, err := ApplyRule(rule, testComponents(), ApplyOptions{})
	if _, ok := err.(*UnknownRateOperatorError); !ok {
		t.Errorf("got %v, want UnknownRateOperatorError", err)
	}
}

func TestApplyRuleMissingComponent(t *testing.T) {
	rule := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "nonexistent",
		Conversion: 1,
		Sign:       1,
	}
	if _, err := ApplyRule(rule, testComponents(), ApplyOptions{}); err == nil {
		t.Error("missing withdrawal component: got nil error")
	}
}
