package graph

import (
	"embed"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tpl
var dumptpl embed.FS

type TemplateName string

const (
	DumpDotTemplate  TemplateName = "graph.dot.tpl"
	DumpPumlTemplate TemplateName = "graph.puml.tpl"
)

// Dump writes a textual rendition of the graph. The dot template is the
// exchange format for graphviz tooling, the puml one feeds plantuml.
func (g *Graph) Dump(w io.Writer, tplName TemplateName) error {
	switch tplName {
	case DumpDotTemplate, DumpPumlTemplate:
	default:
		return fmt.Errorf("undefined template name: %s", tplName)
	}

	data := struct {
		Graph       *Graph
		Stats       Stats
		Fingerprint string
	}{
		Graph:       g,
		Stats:       g.Stats(),
		Fingerprint: fmt.Sprintf("%016x", g.Fingerprint()),
	}
	return dump(w, tplName, data)
}

func dump(w io.Writer, tplName TemplateName, data any) error {
	t := template.New("").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{
			"isTable": func(n Node) bool { return n.Kind == KindTable },
			"isRef":   func(e Edge) bool { return e.Kind == EdgeReferences },
		})
	tpl, err := t.ParseFS(dumptpl, "templates/*.tpl")
	if err != nil {
		return err
	}

	err = tpl.ExecuteTemplate(w, string(tplName), data)
	if err != nil {
		return err
	}

	return err
}
