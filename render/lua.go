package render

import (
	"github.com/goccy/go-graphviz/cgraph"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/xerrors"

	"github.com/datascribe/schemaviz/graph"
)

const luaStyleFuncName = "node_style"

// Styler runs a user supplied lua hook over every node about to be drawn.
// The script must define node_style(node) returning a table of attribute
// overrides, or nil to keep the defaults.
type Styler struct {
	l *lua.LState

	nodeStyle *lua.LFunction
}

// NewStylerFile loads the script at path and looks up the hook.
func NewStylerFile(path string) (*Styler, error) {
	l := lua.NewState()
	if err := l.DoFile(path); err != nil {
		l.Close()
		return nil, xerrors.Errorf("load lua style script %q: %w", path, err)
	}
	return newStyler(l)
}

// NewStylerString loads the script from source, mostly for tests.
func NewStylerString(src string) (*Styler, error) {
	l := lua.NewState()
	if err := l.DoString(src); err != nil {
		l.Close()
		return nil, xerrors.Errorf("load lua style script: %w", err)
	}
	return newStyler(l)
}

func newStyler(l *lua.LState) (*Styler, error) {
	fn := l.GetGlobal(luaStyleFuncName)
	if fn.Type() != lua.LTFunction {
		l.Close()
		return nil, xerrors.Errorf(
			"lua global %q must be a function, but it is %s",
			luaStyleFuncName, fn.Type())
	}
	return &Styler{l: l, nodeStyle: fn.(*lua.LFunction)}, nil
}

func (s *Styler) Close() { s.l.Close() }

// Apply calls node_style and applies the returned overrides to the
// graphviz node. Recognized keys: color, font_color, shape, label.
func (s *Styler) Apply(n graph.Node, gn *cgraph.Node) error {
	err := s.l.CallByParam(lua.P{
		Fn:      s.nodeStyle,
		NRet:    1,
		Protect: true,
	}, n.ToLua(s.l))
	if err != nil {
		return xerrors.Errorf("lua node style for %q: %w", n.Label(), err)
	}

	res := s.l.ToTable(-1)
	s.l.Pop(1)
	if res == nil {
		// empty is ok
		return nil
	}

	s.l.ForEach(res, func(key, value lua.LValue) {
		v, ok := value.(lua.LString)
		if !ok {
			return
		}
		switch key.String() {
		case "color":
			gn.SetFillColor(string(v))
		case "font_color":
			gn.SetFontColor(string(v))
		case "shape":
			gn.SetShape(cgraph.Shape(v))
		case "label":
			gn.SetLabel(string(v))
		}
	})
	return nil
}
