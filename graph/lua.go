package graph

import (
	lua "github.com/yuin/gopher-lua"
)

// ToLua converts the node into a lua table for style hooks.
func (n Node) ToLua(l *lua.LState) *lua.LTable {
	node := l.NewTable()
	node.RawSetString("id", lua.LNumber(n.ID))
	node.RawSetString("kind", lua.LString(n.Kind.String()))
	node.RawSetString("label", lua.LString(n.Label()))
	node.RawSetString("table_name", lua.LString(n.TableName))

	if n.Kind == KindColumn {
		node.RawSetString("column_name", lua.LString(n.ColumnName))
		node.RawSetString("column_type", lua.LString(n.ColumnType))
		node.RawSetString("is_optional", lua.LBool(n.IsOptional))
	}
	return node
}
