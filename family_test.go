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
	"reflect"
	"testing"
)

func TestMergeRules(t *testing.T) {
	base := RuleTemplate{
		"type": "input",
		"pipe": map[string]interface{}{"flag_broadcast": true},
	}
	got := MergeRules(base, RuleTemplate{
		"condition": "x",
		"pipe":      map[string]interface{}{"flag_node_loc": false},
	})
	want := RuleTemplate{
		"type":      "input",
		"pipe":      map[string]interface{}{"flag_broadcast": true, "flag_node_loc": false},
		"condition": "x",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMergeRulesOverwrite(t *testing.T) {
	// Non-mapping values, and mappings patched over non-mappings,
	// overwrite wholesale.
	base := RuleTemplate{"type": "input", "value": 1.0, "pipe": "none"}
	got := MergeRules(base, RuleTemplate{
		"value": 2.0,
		"pipe":  map[string]interface{}{"flag_broadcast": true},
	})
	want := RuleTemplate{
		"type":  "input",
		"value": 2.0,
		"pipe":  map[string]interface{}{"flag_broadcast": true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGenerateRulesNoAliasing(t *testing.T) {
	base := RuleTemplate{
		"type": "input",
		"pipe": map[string]interface{}{"flag_broadcast": true},
	}
	family := GenerateRules(base, []RuleTemplate{
		{"condition": "a"},
		{"condition": "b"},
	})
	if len(family) != 2 {
		t.Fatalf("got %d rules, want 2", len(family))
	}

	// Mutating one member's nested pipe mapping must not leak into the
	// base template or the other member.
	family[0]["pipe"].(map[string]interface{})["flag_broadcast"] = false
	if base["pipe"].(map[string]interface{})["flag_broadcast"] != true {
		t.Error("mutation leaked into the base template")
	}
	if family[1]["pipe"].(map[string]interface{})["flag_broadcast"] != true {
		t.Error("mutation leaked into a sibling rule")
	}
}

func TestGenerateRulesOrder(t *testing.T) {
	base := RuleTemplate{"type": "input"}
	family := GenerateRules(base, []RuleTemplate{
		{"condition": "a"},
		{"condition": "b"},
		{"condition": "c"},
	})
	for i, want := range []string{"a", "b", "c"} {
		if family[i]["condition"] != want {
			t.Errorf("rule %d: got condition %v, want %s", i, family[i]["condition"], want)
		}
	}
}

func TestSelectRules(t *testing.T) {
	family := []RuleTemplate{
		{"condition": "treated", "type": "input"},
		{"condition": "untreated", "type": "input"},
		{"type": "output"}, // unconditional
	}
	got := SelectRules(family, "treated")
	if len(got) != 2 {
		t.Fatalf("got %d rules, want 2", len(got))
	}
	if got[0]["condition"] != "treated" || got[1]["type"] != "output" {
		t.Errorf("got %+v", got)
	}
}

func TestFilterRules(t *testing.T) {
	family := []RuleTemplate{
		{"condition": "treated", "type": "input", "cost": 10.0},
		{"condition": "treated", "type": "output", "cost": 5.0},
		{"condition": "untreated", "type": "input", "cost": 1.0},
	}
	got, err := FilterRules(family, "condition == 'treated' && type == 'input'")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0]["cost"] != 10.0 {
		t.Errorf("got %+v, want the treated input rule", got)
	}

	if _, err := FilterRules(family, "cost + 1"); err == nil {
		t.Error("non-boolean filter: got nil error")
	}
	if _, err := FilterRules(family, "cost =="); err == nil {
		t.Error("malformed filter: got nil error")
	}
}
