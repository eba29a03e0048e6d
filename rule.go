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

// RateOp is the operator applied to the rate series when a compiled rule
// is evaluated.
type RateOp int

// The closed set of rate operators.
const (
	// RateOpNone applies no rate: value = conversion * withdrawal.
	RateOpNone RateOp = iota
	// RateOpIdentity multiplies by the rate: value = conversion * withdrawal * rate.
	RateOpIdentity
	// RateOpInvert multiplies by the complement of the rate:
	// value = conversion * withdrawal * (1 - rate).
	RateOpInvert
)

func (op RateOp) String() string {
	switch op {
	case RateOpNone:
		return "none"
	case RateOpIdentity:
		return "identity"
	case RateOpInvert:
		return "invert"
	}
	return fmt.Sprintf("RateOp(%d)", int(op))
}

// UnknownRateOperatorError is returned when a rate operator outside the
// supported set is encountered, either while parsing rule definitions or
// while evaluating a compiled rule.
type UnknownRateOperatorError struct {
	Op string
}

func (e *UnknownRateOperatorError) Error() string {
	return fmt.Sprintf("nexusprep: unknown rate operator %q", e.Op)
}

// ParseRateOp converts the textual operator names used in rule definitions
// into a RateOp. The empty string means no rate operation.
func ParseRateOp(s string) (RateOp, error) {
	switch s {
	case "", "none":
		return RateOpNone, nil
	case "identity":
		return RateOpIdentity, nil
	case "invert":
		return RateOpInvert, nil
	}
	return 0, &UnknownRateOperatorError{Op: s}
}

// CompileError is returned when a rule graph cannot be compiled because a
// required node is missing or the sink node is not unique.
type CompileError struct {
	Reason string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("nexusprep: compiling rule graph: %s", e.Reason)
}

// CompiledRule is the flat record produced by compiling a rule graph.
// It is produced once per graph and may be applied many times against
// different component tables.
type CompiledRule struct {
	// Commodity is the output commodity named by the sink node.
	Commodity string
	// Withdrawal is the component lookup key for the base demand series.
	Withdrawal string
	// Conversion is a constant multiplier applied to every value.
	Conversion float64
	// RateOp selects how the rate series is applied.
	RateOp RateOp
	// Sign is +1 or -1; negative signs negate the computed series.
	Sign int
	// Rate is the component lookup key for the rate series, or empty if
	// the rule has no rate.
	Rate string
}

// Compile validates the graph and extracts its CompiledRule.
//
// The sink node must be unique (checked here independently of Validate).
// The first source node with the withdrawal role supplies the withdrawal
// key, and the first compute node supplies the conversion factor and rate
// operator; both are required. The first sign node, if any, supplies the
// sign (default +1), and the first rate-role source node, if any, supplies
// the rate key. "First" means first in insertion order, not topological
// order: when multiple compute, sign, or rate nodes exist the earliest
// added wins. This matches the behavior of the rule definitions this
// engine was built for and is a known limitation rather than a designed
// policy; rule authors should avoid duplicate candidates.
func (g *RuleGraph) Compile() (*CompiledRule, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var sink *SinkNode
	var sinks int
	var withdrawal, rate *SourceNode
	var compute *ComputeNode
	var sign *SignNode
	for _, id := range g.order {
		switch n := g.nodes[id].(type) {
		case *SinkNode:
			sinks++
			if sink == nil {
				sink = n
			}
		case *SourceNode:
			switch n.Role {
			case RoleWithdrawal:
				if withdrawal == nil {
					withdrawal = n
				}
			case RoleRate:
				if rate == nil {
					rate = n
				}
			}
		case *ComputeNode:
			if compute == nil {
				compute = n
			}
		case *SignNode:
			if sign == nil {
				sign = n
			}
		}
	}
	if sinks != 1 {
		return nil, &CompileError{Reason: fmt.Sprintf("want exactly 1 sink node but have %d", sinks)}
	}
	if withdrawal == nil {
		return nil, &CompileError{Reason: "no source node with role \"withdrawal\""}
	}
	if compute == nil {
		return nil, &CompileError{Reason: "no compute node"}
	}

	r := &CompiledRule{
		Commodity:  sink.Commodity,
		Withdrawal: withdrawal.Key,
		Conversion: compute.Conversion,
		RateOp:     compute.RateOp,
		Sign:       1,
	}
	if sign != nil {
		r.Sign = sign.Sign
	}
	if rate != nil {
		r.Rate = rate.Key
	}
	return r, nil
}
