package graph

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	g, err := NewBuilder(testLogger(t)).Build(usersOrders())
	require.NoError(t, err)

	tests := []struct {
		name     string
		tpl      TemplateName
		contains []string
	}{
		{
			name: "dot",
			tpl:  DumpDotTemplate,
			contains: []string{
				"graph schema {",
				`label="users"`,
				`label="user_id"`,
				"fillcolor=red",
				"fillcolor=green",
				"[style=dashed]",
			},
		},
		{
			name: "plantuml",
			tpl:  DumpPumlTemplate,
			contains: []string{
				"@startuml",
				"@enduml",
				`rectangle "orders"`,
				`card "email"`,
				"#red",
				"#green",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, g.Dump(&buf, tt.tpl))

			out := buf.String()
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

// The dot dump is an exchange format: the layout engine is picked by
// whatever renders it, so the dump must not pin one.
func TestDumpDotLeavesEngineUnpinned(t *testing.T) {
	g, err := NewBuilder(testLogger(t)).Build(usersOrders())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.Dump(&buf, DumpDotTemplate))
	assert.NotContains(t, buf.String(), "layout=")
}

func TestDumpUndefinedTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, (&Graph{}).Dump(&buf, "nope.tpl"))
}

func TestGraphJSON(t *testing.T) {
	g, err := NewBuilder(testLogger(t)).Build(usersOrders())
	require.NoError(t, err)

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"table"`)
	assert.Contains(t, string(data), `"kind":"contains"`)
	assert.Contains(t, string(data), `"kind":"references"`)

	var back Graph
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, g.Nodes, back.Nodes)
	assert.Equal(t, g.Edges, back.Edges)
}
