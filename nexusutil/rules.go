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

package nexusutil

import "github.com/spatialmodel/nexusprep"

// demandRule is a shorthand description of one water-demand rule graph.
type demandRule struct {
	commodity  string
	withdrawal string
	rate       string
	op         nexusprep.RateOp
	conversion float64
	sign       int
	// condition restricts the rule to runs with a matching policy-scenario
	// identifier; an empty condition applies unconditionally.
	condition string
}

// demandRules describes how water-sector demand commodities derive from
// withdrawal and rate components. Urban and rural municipal withdrawals
// split into connected (identity) and unconnected (invert) shares by the
// piped-connection rate; return flows are collected wastewater scaled by
// the treatment rate and carry a negative sign because the platform
// models them as inflows. Rules carrying a condition apply only to the
// matching policy scenario: under "sdg", treated urban wastewater is
// additionally made available for reuse.
var demandRules = []demandRule{
	{commodity: "urban_mw", withdrawal: "urban_withdrawal", rate: "urban_connection_rate",
		op: nexusprep.RateOpIdentity, conversion: 1, sign: 1},
	{commodity: "urban_dis", withdrawal: "urban_withdrawal", rate: "urban_connection_rate",
		op: nexusprep.RateOpInvert, conversion: 1, sign: 1},
	{commodity: "rural_mw", withdrawal: "rural_withdrawal", rate: "rural_connection_rate",
		op: nexusprep.RateOpIdentity, conversion: 1, sign: 1},
	{commodity: "rural_dis", withdrawal: "rural_withdrawal", rate: "rural_connection_rate",
		op: nexusprep.RateOpInvert, conversion: 1, sign: 1},
	{commodity: "industry_mw", withdrawal: "manufacturing_withdrawal",
		op: nexusprep.RateOpNone, conversion: 1, sign: 1},
	{commodity: "urban_collected_wst", withdrawal: "urban_return", rate: "urban_treatment_rate",
		op: nexusprep.RateOpIdentity, conversion: 1, sign: -1},
	{commodity: "rural_collected_wst", withdrawal: "rural_return", rate: "rural_treatment_rate",
		op: nexusprep.RateOpIdentity, conversion: 1, sign: -1},
	{commodity: "urban_reuse", withdrawal: "urban_return", rate: "urban_treatment_rate",
		op: nexusprep.RateOpIdentity, conversion: 1, sign: 1, condition: "sdg"},
}

// DemandRules builds the rule graphs for the water-sector demand
// commodities applicable to the given policy scenario. Unconditional
// rules are always included; conditional rules are included when their
// condition equals scenario, matching the semantics of
// nexusprep.SelectRules.
func DemandRules(scenario string) ([]*nexusprep.RuleGraph, error) {
	var out []*nexusprep.RuleGraph
	for _, r := range demandRules {
		if r.condition != "" && r.condition != scenario {
			continue
		}
		g, err := demandGraph(r)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// demandGraph assembles the graph for one demand rule: sources feed a
// compute node, an optional sign node follows, and the sink names the
// output commodity.
func demandGraph(r demandRule) (*nexusprep.RuleGraph, error) {
	g := nexusprep.NewRuleGraph()
	nodes := []nexusprep.Node{
		&nexusprep.SourceNode{Name: "withdrawal", Role: nexusprep.RoleWithdrawal, Key: r.withdrawal},
		&nexusprep.ComputeNode{Name: "compute", Conversion: r.conversion, RateOp: r.op},
		&nexusprep.SinkNode{Name: "sink", Commodity: r.commodity},
	}
	if r.rate != "" {
		nodes = append(nodes, &nexusprep.SourceNode{Name: "rate", Role: nexusprep.RoleRate, Key: r.rate})
	}
	if r.sign < 0 {
		nodes = append(nodes, &nexusprep.SignNode{Name: "sign", Sign: r.sign})
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	deps := [][2]string{{"compute", "withdrawal"}}
	if r.rate != "" {
		deps = append(deps, [2]string{"compute", "rate"})
	}
	last := "compute"
	if r.sign < 0 {
		deps = append(deps, [2]string{"sign", "compute"})
		last = "sign"
	}
	deps = append(deps, [2]string{"sink", last})
	for _, d := range deps {
		if err := g.AddDependency(d[0], d[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}
