package graph

import (
	"fmt"

	"github.com/zeebo/xxh3"
	"golang.org/x/exp/slices"
)

// Fingerprint hashes the graph up to node identity: two graphs built from
// the same document always hash alike, whatever ids their nodes carry.
// Node lines and edge lines are written label-wise and sorted before
// hashing, so allocation order does not leak in either.
func (g *Graph) Fingerprint() uint64 {
	lines := make([]string, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		lines = append(lines, fmt.Sprintf("n|%s|%s|%s|%s|%t",
			n.Kind, n.TableName, n.ColumnName, n.ColumnType, n.IsOptional))
	}
	for _, e := range g.Edges {
		a, _ := g.Node(e.A)
		b, _ := g.Node(e.B)
		lines = append(lines, fmt.Sprintf("e|%s|%s.%s|%s.%s",
			e.Kind, a.TableName, a.ColumnName, b.TableName, b.ColumnName))
	}
	slices.Sort(lines)

	h := xxh3.New()
	for _, line := range lines {
		_, _ = h.WriteString(line)
		_, _ = h.WriteString("\n")
	}
	return h.Sum64()
}
