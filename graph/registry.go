package graph

import "fmt"

// Key is the canonical lookup key of a column. Table and column names are
// kept apart; gluing them into one string would make ("ab", "c") and
// ("a", "bc") collide.
type Key struct {
	Table  string
	Column string
}

func (k Key) String() string { return k.Table + "." + k.Column }

// DuplicateKeyError reports a second registration of the same key.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("column %q is already registered", e.Key)
}

// UnresolvedReferenceError reports a reference to a column no table
// declares.
type UnresolvedReferenceError struct {
	Key Key
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("no column registered for %q", e.Key)
}

// Registry maps canonical keys to column node ids for the duration of one
// build. Registrations are write-once.
type Registry struct {
	ids map[Key]NodeID
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[Key]NodeID)}
}

// Register stores the node id of a column. Registering the same
// (table, column) pair twice fails and leaves the first entry in place.
func (r *Registry) Register(table, column string, id NodeID) error {
	key := Key{Table: table, Column: column}
	if _, ok := r.ids[key]; ok {
		return &DuplicateKeyError{Key: key}
	}
	r.ids[key] = id
	return nil
}

// Resolve returns the node id registered for (table, column).
func (r *Registry) Resolve(table, column string) (NodeID, error) {
	key := Key{Table: table, Column: column}
	id, ok := r.ids[key]
	if !ok {
		return 0, &UnresolvedReferenceError{Key: key}
	}
	return id, nil
}

// Len returns the number of registered columns.
func (r *Registry) Len() int { return len(r.ids) }
