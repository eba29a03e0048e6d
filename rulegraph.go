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

// NodeKind identifies the variant of a rule-graph node.
type NodeKind int

// The closed set of rule-graph node kinds.
const (
	SourceKind NodeKind = iota
	ComputeKind
	SignKind
	SinkKind
)

func (k NodeKind) String() string {
	switch k {
	case SourceKind:
		return "source"
	case ComputeKind:
		return "compute"
	case SignKind:
		return "sign"
	case SinkKind:
		return "sink"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Source node roles.
const (
	RoleWithdrawal = "withdrawal"
	RoleRate       = "rate"
)

// Node is one vertex in a RuleGraph. Implementations form a closed set of
// variants, each carrying only the fields relevant to its kind.
type Node interface {
	// ID returns the node's unique identifier within its graph.
	ID() string
	// Kind reports which variant this node is.
	Kind() NodeKind
}

// SourceNode references a named component table that feeds a rule,
// tagged with the role the component plays (withdrawal or rate).
type SourceNode struct {
	Name string
	Role string
	// Key is the component lookup key used when the compiled rule is
	// applied against a set of component tables.
	Key string
}

// ID returns the node identifier.
func (n *SourceNode) ID() string { return n.Name }

// Kind returns SourceKind.
func (n *SourceNode) Kind() NodeKind { return SourceKind }

// ComputeNode holds the arithmetic applied to the withdrawal series:
// a constant conversion multiplier and the rate operator.
type ComputeNode struct {
	Name       string
	Conversion float64
	RateOp     RateOp
}

// ID returns the node identifier.
func (n *ComputeNode) ID() string { return n.Name }

// Kind returns ComputeKind.
func (n *ComputeNode) Kind() NodeKind { return ComputeKind }

// SignNode flips the sign of the computed series when Sign is negative.
type SignNode struct {
	Name string
	Sign int
}

// ID returns the node identifier.
func (n *SignNode) ID() string { return n.Name }

// Kind returns SignKind.
func (n *SignNode) Kind() NodeKind { return SignKind }

// SinkNode is the terminal node of a rule graph. It names the output
// commodity of the rule.
type SinkNode struct {
	Name      string
	Commodity string
}

// ID returns the node identifier.
func (n *SinkNode) ID() string { return n.Name }

// Kind returns SinkKind.
func (n *SinkNode) Kind() NodeKind { return SinkKind }

// DuplicateNodeError is returned when a node is added to a graph that
// already contains a node with the same identifier.
type DuplicateNodeError struct {
	ID string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("nexusprep: duplicate node %q", e.ID)
}

// UnknownNodeError is returned when a dependency declaration references a
// node identifier that is not registered in the graph.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("nexusprep: unknown node %q", e.ID)
}

// GraphStructureError is returned by Validate when a graph does not have
// the shape required for compilation.
type GraphStructureError struct {
	Reason string
}

func (e *GraphStructureError) Error() string {
	return fmt.Sprintf("nexusprep: invalid rule graph: %s", e.Reason)
}

// RuleGraph is a directed graph of transformation-rule nodes. Rules are
// authored by adding nodes and dependency edges and are then validated and
// compiled into a flat CompiledRule. A graph is transient: it is built,
// compiled once, and discarded within a single preparation pass.
//
// The graph owns its node registry; dependency lists hold identifiers,
// not nodes.
type RuleGraph struct {
	nodes map[string]Node
	order []string // insertion order of node identifiers
	deps  map[string][]string
}

// NewRuleGraph returns an empty rule graph.
func NewRuleGraph() *RuleGraph {
	return &RuleGraph{
		nodes: make(map[string]Node),
		deps:  make(map[string][]string),
	}
}

// AddNode inserts n into the graph, returning a DuplicateNodeError if a
// node with the same identifier is already registered.
func (g *RuleGraph) AddNode(n Node) error {
	id := n.ID()
	if _, ok := g.nodes[id]; ok {
		return &DuplicateNodeError{ID: id}
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return nil
}

// AddDependency records that the node with identifier id depends on the
// node with identifier dep. Both nodes must already be registered.
func (g *RuleGraph) AddDependency(id, dep string) error {
	if _, ok := g.nodes[id]; !ok {
		return &UnknownNodeError{ID: id}
	}
	if _, ok := g.nodes[dep]; !ok {
		return &UnknownNodeError{ID: dep}
	}
	g.deps[id] = append(g.deps[id], dep)
	return nil
}

// HasCycle reports whether the dependency relation contains a cycle
// reachable from any node. It runs a depth-first search with a
// recursion-stack set; each node is visited once overall.
func (g *RuleGraph) HasCycle() bool {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var visit func(id string) bool
	visit = func(id string) bool {
		visited[id] = true
		onStack[id] = true
		for _, dep := range g.deps[id] {
			if !visited[dep] {
				if visit(dep) {
					return true
				}
			} else if onStack[dep] {
				return true
			}
		}
		onStack[id] = false
		return false
	}
	for _, id := range g.order {
		if !visited[id] && visit(id) {
			return true
		}
	}
	return false
}

// Validate checks that the graph has the structure required for
// compilation: at least one source node with the withdrawal role, exactly
// one sink node, and an acyclic dependency relation. It returns a
// GraphStructureError describing the first violation found, or nil.
func (g *RuleGraph) Validate() error {
	var withdrawals, sinks int
	for _, id := range g.order {
		switch n := g.nodes[id].(type) {
		case *SourceNode:
			if n.Role == RoleWithdrawal {
				withdrawals++
			}
		case *SinkNode:
			sinks++
		}
	}
	if withdrawals == 0 {
		return &GraphStructureError{Reason: "no source node with role \"withdrawal\""}
	}
	if sinks != 1 {
		return &GraphStructureError{Reason: fmt.Sprintf("want exactly 1 sink node but have %d", sinks)}
	}
	if g.HasCycle() {
		return &GraphStructureError{Reason: "dependency cycle detected"}
	}
	return nil
}
