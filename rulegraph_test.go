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

// waterGraph builds the canonical connected-demand rule graph used by
// several tests: withdrawal and rate sources feeding a compute node, a
// sign node, and a sink.
func waterGraph(t *testing.T) *RuleGraph {
	t.Helper()
	g := NewRuleGraph()
	nodes := []Node{
		&SourceNode{Name: "w", Role: RoleWithdrawal, Key: "urban_withdrawal"},
		&SourceNode{Name: "r", Role: RoleRate, Key: "urban_connection_rate"},
		&ComputeNode{Name: "c", Conversion: 0.001, RateOp: RateOpIdentity},
		&SignNode{Name: "s", Sign: 1},
		&SinkNode{Name: "out", Commodity: "urban_mw"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, d := range [][2]string{{"c", "w"}, {"c", "r"}, {"s", "c"}, {"out", "s"}} {
		if err := g.AddDependency(d[0], d[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestAddNodeDuplicate(t *testing.T) {
	g := NewRuleGraph()
	if err := g.AddNode(&SinkNode{Name: "out", Commodity: "x"}); err != nil {
		t.Fatal(err)
	}
	err := g.AddNode(&ComputeNode{Name: "out"})
	if _, ok := err.(*DuplicateNodeError); !ok {
		t.Errorf("got %v, want DuplicateNodeError", err)
	}
}

func TestAddDependencyUnknown(t *testing.T) {
	g := NewRuleGraph()
	if err := g.AddNode(&SinkNode{Name: "out", Commodity: "x"}); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		id, dep string
	}{
		{id: "nope", dep: "out"},
		{id: "out", dep: "nope"},
	}
	for _, tt := range tests {
		err := g.AddDependency(tt.id, tt.dep)
		if _, ok := err.(*UnknownNodeError); !ok {
			t.Errorf("%s->%s: got %v, want UnknownNodeError", tt.id, tt.dep, err)
		}
	}
}

func TestHasCycle(t *testing.T) {
	g := waterGraph(t)
	if g.HasCycle() {
		t.Error("acyclic graph reported as cyclic")
	}
	// Close a loop back from the withdrawal source to the sink.
	if err := g.AddDependency("w", "out"); err != nil {
		t.Fatal(err)
	}
	if !g.HasCycle() {
		t.Error("cyclic graph reported as acyclic")
	}
}

func TestHasCycleSelfLoop(t *testing.T) {
	g := NewRuleGraph()
	if err := g.AddNode(&ComputeNode{Name: "c"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddDependency("c", "c"); err != nil {
		t.Fatal(err)
	}
	if !g.HasCycle() {
		t.Error("self-loop reported as acyclic")
	}
}

func TestValidate(t *testing.T) {
	if err := waterGraph(t).Validate(); err != nil {
		t.Errorf("valid graph: %v", err)
	}

	tests := []struct {
		name  string
		nodes []Node
	}{
		{
			name: "no withdrawal source",
			nodes: []Node{
				&SourceNode{Name: "r", Role: RoleRate, Key: "k"},
				&ComputeNode{Name: "c", Conversion: 1},
				&SinkNode{Name: "out", Commodity: "x"},
			},
		},
		{
			name: "no sink",
			nodes: []Node{
				&SourceNode{Name: "w", Role: RoleWithdrawal, Key: "k"},
				&ComputeNode{Name: "c", Conversion: 1},
			},
		},
		{
			name: "two sinks",
			nodes: []Node{
				&SourceNode{Name: "w", Role: RoleWithdrawal, Key: "k"},
				&ComputeNode{Name: "c", Conversion: 1},
				&SinkNode{Name: "out", Commodity: "x"},
				&SinkNode{Name: "out2", Commodity: "y"},
			},
		},
	}
	for _, tt := range tests {
		g := NewRuleGraph()
		for _, n := range tt.nodes {
			if err := g.AddNode(n); err != nil {
				t.Fatal(err)
			}
		}
		err := g.Validate()
		if _, ok := err.(*GraphStructureError); !ok {
			t.Errorf("%s: got %v, want GraphStructureError", tt.name, err)
		}
		if _, err := g.Compile(); err == nil {
			t.Errorf("%s: Compile succeeded on an invalid graph", tt.name)
		}
	}
}

func TestValidateCycle(t *testing.T) {
	g := waterGraph(t)
	if err := g.AddDependency("w", "out"); err != nil {
		t.Fatal(err)
	}
	err := g.Validate()
	if _, ok := err.(*GraphStructureError); !ok {
		t.Errorf("got %v, want GraphStructureError", err)
	}
}

func TestCompile(t *testing.T) {
	rule, err := waterGraph(t).Compile()
	if err != nil {
		t.Fatal(err)
	}
	want := &CompiledRule{
		Commodity:  "urban_mw",
		Withdrawal: "urban_withdrawal",
		Conversion: 0.001,
		RateOp:     RateOpIdentity,
		Sign:       1,
		Rate:       "urban_connection_rate",
	}
	if !reflect.DeepEqual(rule, want) {
		t.Errorf("got %+v, want %+v", rule, want)
	}
}

func TestCompileDefaults(t *testing.T) {
	// No sign and no rate node: sign defaults to +1 and the rate key to
	// empty.
	g := NewRuleGraph()
	nodes := []Node{
		&SourceNode{Name: "w", Role: RoleWithdrawal, Key: "manufacturing_withdrawal"},
		&ComputeNode{Name: "c", Conversion: 1},
		&SinkNode{Name: "out", Commodity: "industry_mw"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	rule, err := g.Compile()
	if err != nil {
		t.Fatal(err)
	}
	want := &CompiledRule{
		Commodity:  "industry_mw",
		Withdrawal: "manufacturing_withdrawal",
		Conversion: 1,
		RateOp:     RateOpNone,
		Sign:       1,
	}
	if !reflect.DeepEqual(rule, want) {
		t.Errorf("got %+v, want %+v", rule, want)
	}
}

func TestCompileNoCompute(t *testing.T) {
	g := NewRuleGraph()
	nodes := []Node{
		&SourceNode{Name: "w", Role: RoleWithdrawal, Key: "k"},
		&SinkNode{Name: "out", Commodity: "x"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_, err := g.Compile()
	if _, ok := err.(*CompileError); !ok {
		t.Errorf("got %v, want CompileError", err)
	}
}

func TestCompileFirstMatch(t *testing.T) {
	// When several compute nodes exist, the first added wins regardless
	// of dependency structure.
	g := waterGraph(t)
	if err := g.AddNode(&ComputeNode{Name: "c2", Conversion: 42}); err != nil {
		t.Fatal(err)
	}
	rule, err := g.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if rule.Conversion != 0.001 {
		t.Errorf("got conversion %g, want 0.001 from the first compute node", rule.Conversion)
	}
}
