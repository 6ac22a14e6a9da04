package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Document is the ordered list of table descriptors decoded from one
// schema-description payload. Order is significant: it drives node id
// allocation downstream.
type Document []TableDescriptor

// TableDescriptor is one table of the described schema.
type TableDescriptor struct {
	Name    string             `json:"tableName"`
	Columns []ColumnDescriptor `json:"columns"`
}

// ColumnDescriptor is one column of a table.
type ColumnDescriptor struct {
	Name       string `json:"columnName"`
	Type       string `json:"columnType"`
	IsOptional bool   `json:"isOptional"`
	// nil means the column references nothing. The wire format still
	// requires the key itself, so an absent key is a parse error.
	ForeignKey *ForeignKeyRef `json:"foreignKeyReference"`
}

// ForeignKeyRef names the column another column references.
type ForeignKeyRef struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

func (r ForeignKeyRef) String() string { return r.Table + "." + r.Column }

// ParseError reports a malformed schema-description payload.
type ParseError struct {
	// Offending table/column names, when known.
	Table  string
	Column string
	// Required field that is missing or malformed.
	Field string
	Err   error
	// Raw record the error was detected in.
	Record []byte
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Table != "" {
		fmt.Fprintf(&b, "table %q: ", e.Table)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, "column %q: ", e.Column)
	}
	switch {
	case e.Field != "" && e.Err != nil:
		fmt.Fprintf(&b, "field %q: %v", e.Field, e.Err)
	case e.Field != "":
		fmt.Fprintf(&b, "missing required field %q", e.Field)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("malformed schema description")
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Pretty dumps the offending record along with the message.
func (e *ParseError) Pretty() string {
	if len(e.Record) == 0 {
		return e.Error()
	}
	var record any
	if err := json.Unmarshal(e.Record, &record); err != nil {
		return fmt.Sprintf("%s:\nrecord:\n%s", e.Error(), e.Record)
	}
	return fmt.Sprintf("%s:\nrecord:\n%s", e.Error(), spew.Sdump(record))
}

// Parse decodes a payload into a Document, preserving input order. The
// payload must be a JSON array of table descriptors; every required field
// must be present, including an explicitly null foreignKeyReference.
func Parse(payload []byte) (Document, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &ParseError{Err: errors.New("payload must be an array of table descriptors")}
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		var pErr *ParseError
		if errors.As(err, &pErr) {
			return nil, pErr
		}
		return nil, &ParseError{Err: err, Record: trimmed}
	}
	return doc, nil
}

var (
	tableRequiredFields  = []string{"tableName", "columns"}
	columnRequiredFields = []string{"columnName", "columnType", "isOptional", "foreignKeyReference"}
)

func (t *TableDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Err: err, Record: data}
	}
	if raw == nil {
		return &ParseError{Err: errors.New("table descriptor must be an object"), Record: data}
	}
	for _, field := range tableRequiredFields {
		if _, ok := raw[field]; !ok {
			return &ParseError{Table: rawName(raw, "tableName"), Field: field, Record: data}
		}
	}

	if err := json.Unmarshal(raw["tableName"], &t.Name); err != nil {
		return &ParseError{Field: "tableName", Err: err, Record: data}
	}
	if string(bytes.TrimSpace(raw["columns"])) == "null" {
		return &ParseError{Table: t.Name, Field: "columns", Err: errors.New("columns must be an array"), Record: data}
	}
	if err := json.Unmarshal(raw["columns"], &t.Columns); err != nil {
		var pErr *ParseError
		if errors.As(err, &pErr) {
			if pErr.Table == "" {
				pErr.Table = t.Name
			}
			return pErr
		}
		return &ParseError{Table: t.Name, Err: err, Record: data}
	}
	return nil
}

func (c *ColumnDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Err: err, Record: data}
	}
	if raw == nil {
		return &ParseError{Err: errors.New("column descriptor must be an object"), Record: data}
	}
	for _, field := range columnRequiredFields {
		if _, ok := raw[field]; !ok {
			return &ParseError{Column: rawName(raw, "columnName"), Field: field, Record: data}
		}
	}

	if err := json.Unmarshal(raw["columnName"], &c.Name); err != nil {
		return &ParseError{Field: "columnName", Err: err, Record: data}
	}
	if err := json.Unmarshal(raw["columnType"], &c.Type); err != nil {
		return &ParseError{Column: c.Name, Field: "columnType", Err: err, Record: data}
	}
	if err := json.Unmarshal(raw["isOptional"], &c.IsOptional); err != nil {
		return &ParseError{Column: c.Name, Field: "isOptional", Err: err, Record: data}
	}
	if err := json.Unmarshal(raw["foreignKeyReference"], &c.ForeignKey); err != nil {
		return &ParseError{Column: c.Name, Field: "foreignKeyReference", Err: err, Record: data}
	}
	if ref := c.ForeignKey; ref != nil && (ref.Table == "" || ref.Column == "") {
		return &ParseError{
			Column: c.Name,
			Field:  "foreignKeyReference",
			Err:    errors.New("reference must name both table and column"),
			Record: data,
		}
	}
	return nil
}

func rawName(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal(v, &s)
	return s
}
