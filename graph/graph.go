package graph

import (
	"encoding/json"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// NodeID identifies a node within a single graph. Ids are allocated by the
// builder from one counter, so they are pairwise distinct across tables and
// columns but carry no meaning beyond identity and allocation order.
type NodeID int

type NodeKind int

const (
	KindUndefined NodeKind = iota
	KindTable
	KindColumn
)

func (k NodeKind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindColumn:
		return "column"
	default:
		return "undefined"
	}
}

func (k NodeKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *NodeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "table":
		*k = KindTable
	case "column":
		*k = KindColumn
	default:
		return fmt.Errorf("unknown node kind %q", s)
	}
	return nil
}

type EdgeKind int

const (
	EdgeUndefined EdgeKind = iota
	// EdgeContains connects a table to one of its own columns.
	EdgeContains
	// EdgeReferences connects a referencing column to the referenced one.
	EdgeReferences
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeContains:
		return "contains"
	case EdgeReferences:
		return "references"
	default:
		return "undefined"
	}
}

func (k EdgeKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *EdgeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "contains":
		*k = EdgeContains
	case "references":
		*k = EdgeReferences
	default:
		return fmt.Errorf("unknown edge kind %q", s)
	}
	return nil
}

// Node is one vertex of the schema graph: either a table or a column.
type Node struct {
	ID   NodeID   `json:"id"`
	Kind NodeKind `json:"kind"`

	TableName  string `json:"table_name,omitempty"`
	ColumnName string `json:"column_name,omitempty"`
	ColumnType string `json:"column_type,omitempty"`
	IsOptional bool   `json:"is_optional,omitempty"`
}

// Label returns the name the node is drawn with.
func (n Node) Label() string {
	if n.Kind == KindTable {
		return n.TableName
	}
	return n.ColumnName
}

// Edge is an undirected connection between two nodes. A is the containing
// table or the referencing column, B the contained or referenced one.
type Edge struct {
	A    NodeID   `json:"a"`
	B    NodeID   `json:"b"`
	Kind EdgeKind `json:"kind"`
}

// Graph is the built schema graph. Nodes and edges keep allocation order,
// which makes dumps and renders reproducible.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	index map[NodeID]int
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if g.index != nil {
		i, ok := g.index[id]
		if !ok {
			return Node{}, false
		}
		return g.Nodes[i], true
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func (g *Graph) addNode(n Node) {
	if g.index == nil {
		g.index = make(map[NodeID]int)
	}
	g.index[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// Stats aggregates the counts reported after a build.
type Stats struct {
	Tables     int `json:"tables"`
	Columns    int `json:"columns"`
	Contains   int `json:"contains"`
	References int `json:"references"`
	// Tables that are the target of at least one reference.
	ReferencedTables int `json:"referenced_tables"`
}

func (g *Graph) Stats() Stats {
	var s Stats
	for _, n := range g.Nodes {
		switch n.Kind {
		case KindTable:
			s.Tables++
		case KindColumn:
			s.Columns++
		}
	}

	owner := make(map[NodeID]NodeID, s.Columns)
	for _, e := range g.Edges {
		if e.Kind == EdgeContains {
			owner[e.B] = e.A
		}
	}

	referenced := mapset.NewThreadUnsafeSet[NodeID]()
	for _, e := range g.Edges {
		switch e.Kind {
		case EdgeContains:
			s.Contains++
		case EdgeReferences:
			s.References++
			if table, ok := owner[e.B]; ok {
				referenced.Add(table)
			}
		}
	}
	s.ReferencedTables = referenced.Cardinality()
	return s
}

// Validate checks the structural invariants of a built graph: pairwise
// distinct ids, edge endpoints that exist, containment running a table to
// one of its own columns and references running column to column.
func (g *Graph) Validate() error {
	ids := mapset.NewThreadUnsafeSetWithSize[NodeID](len(g.Nodes))
	for _, n := range g.Nodes {
		if !ids.Add(n.ID) {
			return fmt.Errorf("duplicate node id %d", n.ID)
		}
	}

	for _, e := range g.Edges {
		a, ok := g.Node(e.A)
		if !ok {
			return fmt.Errorf("edge %s: node %d not found", e.Kind, e.A)
		}
		b, ok := g.Node(e.B)
		if !ok {
			return fmt.Errorf("edge %s: node %d not found", e.Kind, e.B)
		}
		switch e.Kind {
		case EdgeContains:
			if a.Kind != KindTable || b.Kind != KindColumn {
				return fmt.Errorf("contains edge %d -- %d must connect a table to a column", e.A, e.B)
			}
			if b.TableName != a.TableName {
				return fmt.Errorf("contains edge %d -- %d: column %q belongs to table %q, not %q",
					e.A, e.B, b.ColumnName, b.TableName, a.TableName)
			}
		case EdgeReferences:
			if a.Kind != KindColumn || b.Kind != KindColumn {
				return fmt.Errorf("references edge %d -- %d must connect two columns", e.A, e.B)
			}
		default:
			return fmt.Errorf("edge %d -- %d has undefined kind", e.A, e.B)
		}
	}
	return nil
}
