package render

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datascribe/schemaviz/graph"
)

const (
	DefaultEngine      = "neato"
	DefaultFormat      = "png"
	DefaultTableColor  = "red"
	DefaultColumnColor = "green"
)

var layouts = map[string]graphviz.Layout{
	"neato": graphviz.NEATO,
	"dot":   graphviz.DOT,
	"fdp":   graphviz.FDP,
	"sfdp":  graphviz.SFDP,
	"circo": graphviz.CIRCO,
	"twopi": graphviz.TWOPI,
}

var formats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// Config controls layout and artifact encoding. The zero value renders
// red tables and green columns with neato into png.
type Config struct {
	// Layout engine, neato by default.
	Engine string `yaml:"engine"`
	// Artifact format, png by default.
	Format string `yaml:"format"`

	TableColor  string  `yaml:"table_color"`
	ColumnColor string  `yaml:"column_color"`
	FontSize    float64 `yaml:"font_size"`
	// Graphviz size attribute, e.g. "20,20".
	Size string `yaml:"size"`
	// Seed pins down randomized layouts. Zero keeps them randomized.
	Seed int64 `yaml:"seed"`
	// Path to a lua script with a node_style hook.
	Style string `yaml:"style"`
}

func (c Config) engine() string {
	if c.Engine == "" {
		return DefaultEngine
	}
	return c.Engine
}

func (c Config) format() string {
	if c.Format == "" {
		return DefaultFormat
	}
	return c.Format
}

func (c Config) tableColor() string {
	if c.TableColor == "" {
		return DefaultTableColor
	}
	return c.TableColor
}

func (c Config) columnColor() string {
	if c.ColumnColor == "" {
		return DefaultColumnColor
	}
	return c.ColumnColor
}

// Ext returns the file extension matching the artifact format.
func (c Config) Ext() string { return c.format() }

// Validate rejects engines and formats graphviz does not know.
func (c Config) Validate() error {
	if _, ok := layouts[c.engine()]; !ok {
		return Error{Message: fmt.Sprintf("unsupported layout engine %q", c.Engine)}
	}
	if _, ok := formats[c.format()]; !ok {
		return Error{Message: fmt.Sprintf("unsupported artifact format %q", c.Format)}
	}
	return nil
}

// Renderer lays out graphs and encodes them into image artifacts.
type Renderer struct {
	log    *zap.Logger
	cnf    Config
	styler *Styler
}

func New(log *zap.Logger, cnf Config) (*Renderer, error) {
	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{log: log.Named("render"), cnf: cnf}
	if cnf.Style != "" {
		styler, err := NewStylerFile(cnf.Style)
		if err != nil {
			return nil, err
		}
		r.styler = styler
	}
	return r, nil
}

// Close releases the lua state of the style hook, if any.
func (r *Renderer) Close() {
	if r.styler != nil {
		r.styler.Close()
	}
}

// Render lays the graph out and writes the encoded artifact to w. An empty
// graph is rejected: there is nothing to draw, and graphviz would happily
// produce a blank image instead of failing.
func (r *Renderer) Render(g *graph.Graph, w io.Writer) (err error) {
	if len(g.Nodes) == 0 {
		return Error{Message: "render graph", Err: errors.New("graph has no nodes")}
	}

	gv := graphviz.New()
	gv.SetLayout(layouts[r.cnf.engine()])
	defer func() {
		err = errors.Join(err, gv.Close())
	}()

	vg, err := gv.Graph(graphviz.UnDirected)
	if err != nil {
		return Error{Message: "create graphviz graph", Err: err}
	}
	defer func() {
		err = errors.Join(err, vg.Close())
	}()

	if r.cnf.Size != "" {
		_ = vg.SafeSet("size", r.cnf.Size, "")
	}
	if r.cnf.Seed != 0 {
		// neato and fdp take their initial placement from the start attribute
		_ = vg.SafeSet("start", fmt.Sprintf("random%d", r.cnf.Seed), "")
	}

	nodes := make(map[graph.NodeID]*cgraph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		gn, err := vg.CreateNode(fmt.Sprintf("n%d", n.ID))
		if err != nil {
			return Error{Message: fmt.Sprintf("create node %q", n.Label()), Err: err}
		}
		gn.SetLabel(n.Label())
		gn.SetStyle(cgraph.FilledNodeStyle)
		gn.SetFillColor(r.nodeColor(n))
		if r.cnf.FontSize > 0 {
			gn.SetFontSize(r.cnf.FontSize)
		}
		if r.styler != nil {
			if err := r.styler.Apply(n, gn); err != nil {
				return err
			}
		}
		nodes[n.ID] = gn
	}

	for i, e := range g.Edges {
		ge, err := vg.CreateEdge(fmt.Sprintf("e%d", i), nodes[e.A], nodes[e.B])
		if err != nil {
			return Error{Message: fmt.Sprintf("create edge %d", i), Err: err}
		}
		if e.Kind == graph.EdgeReferences {
			ge.SetStyle(cgraph.DashedEdgeStyle)
		}
	}

	if err := gv.Render(vg, formats[r.cnf.format()], w); err != nil {
		return Error{Message: "render graph", Err: err}
	}
	return nil
}

// RenderFile renders into a temporary file next to path and moves it into
// place, so an aborted render never leaves a truncated artifact behind.
func (r *Renderer) RenderFile(g *graph.Graph, path string) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	file, err := os.Create(tmp)
	if err != nil {
		return Error{Message: "create artifact file", Err: err}
	}

	if err := r.Render(g, file); err != nil {
		return errors.Join(err, file.Close(), os.Remove(tmp))
	}
	if err := file.Close(); err != nil {
		return errors.Join(Error{Message: "close artifact file", Err: err}, os.Remove(tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Join(Error{Message: "move artifact into place", Err: err}, os.Remove(tmp))
	}

	r.log.Info("artifact written",
		zap.String("path", path),
		zap.String("format", r.cnf.format()),
		zap.String("engine", r.cnf.engine()),
	)
	return nil
}

func (r *Renderer) nodeColor(n graph.Node) string {
	if n.Kind == graph.KindTable {
		return r.cnf.tableColor()
	}
	return r.cnf.columnColor()
}
