package graph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/datascribe/schemaviz/schema"
)

// Builder turns parsed documents into graphs.
type Builder struct {
	log *zap.Logger
}

func NewBuilder(log *zap.Logger) *Builder {
	return &Builder{log: log.Named("graph")}
}

// Build constructs the graph in two passes over the document. The first
// pass allocates every node, emits containment edges and registers each
// column in a registry scoped to this build; the second resolves foreign
// key references against the registry and emits reference edges. Any
// duplicate registration or unresolvable reference aborts the build, so a
// graph is either complete or absent.
//
// Node ids come from a single counter in document order: each table first,
// then its columns. A reference may point at a column of a later table;
// the registry is complete before the second pass starts, so order between
// tables does not matter.
func (b *Builder) Build(doc schema.Document) (*Graph, error) {
	reg := NewRegistry()
	g := &Graph{}

	var next NodeID
	alloc := func() NodeID {
		next++
		return next
	}

	for _, table := range doc {
		tableID := alloc()
		g.addNode(Node{ID: tableID, Kind: KindTable, TableName: table.Name})

		for _, col := range table.Columns {
			colID := alloc()
			g.addNode(Node{
				ID:         colID,
				Kind:       KindColumn,
				TableName:  table.Name,
				ColumnName: col.Name,
				ColumnType: col.Type,
				IsOptional: col.IsOptional,
			})
			g.Edges = append(g.Edges, Edge{A: tableID, B: colID, Kind: EdgeContains})

			if err := reg.Register(table.Name, col.Name, colID); err != nil {
				return nil, fmt.Errorf("register column %q of table %q: %w", col.Name, table.Name, err)
			}
		}
	}
	b.log.Debug("nodes allocated",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("registered", reg.Len()),
	)

	for _, table := range doc {
		for _, col := range table.Columns {
			ref := col.ForeignKey
			if ref == nil {
				continue
			}
			from, err := reg.Resolve(table.Name, col.Name)
			if err != nil {
				return nil, fmt.Errorf("resolve column %q of table %q: %w", col.Name, table.Name, err)
			}
			to, err := reg.Resolve(ref.Table, ref.Column)
			if err != nil {
				return nil, fmt.Errorf("resolve reference %q of column %q of table %q: %w",
					ref, col.Name, table.Name, err)
			}
			g.Edges = append(g.Edges, Edge{A: from, B: to, Kind: EdgeReferences})
		}
	}

	st := g.Stats()
	b.log.Info("graph built",
		zap.Int("tables", st.Tables),
		zap.Int("columns", st.Columns),
		zap.Int("contains", st.Contains),
		zap.Int("references", st.References),
	)
	return g, nil
}
