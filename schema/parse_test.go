package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersOrders = `[
  {
    "tableName": "users",
    "columns": [
      {"columnName": "id", "columnType": "int", "isOptional": false, "foreignKeyReference": null},
      {"columnName": "email", "columnType": "varchar", "isOptional": false, "foreignKeyReference": null}
    ]
  },
  {
    "tableName": "orders",
    "columns": [
      {"columnName": "id", "columnType": "int", "isOptional": false, "foreignKeyReference": null},
      {"columnName": "user_id", "columnType": "int", "isOptional": false,
       "foreignKeyReference": {"table": "users", "column": "id"}}
    ]
  }
]`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(usersOrders))
	require.NoError(t, err)
	require.Len(t, doc, 2)

	users := doc[0]
	assert.Equal(t, "users", users.Name)
	require.Len(t, users.Columns, 2)
	assert.Nil(t, users.Columns[0].ForeignKey)

	orders := doc[1]
	assert.Equal(t, "orders", orders.Name)
	require.Len(t, orders.Columns, 2)

	userID := orders.Columns[1]
	assert.Equal(t, "user_id", userID.Name)
	assert.Equal(t, "int", userID.Type)
	assert.False(t, userID.IsOptional)
	require.NotNil(t, userID.ForeignKey)
	assert.Equal(t, "users", userID.ForeignKey.Table)
	assert.Equal(t, "id", userID.ForeignKey.Column)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse([]byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{
			name:    "empty payload",
			payload: "",
		},
		{
			name:    "null payload",
			payload: "null",
		},
		{
			name:    "not an array",
			payload: `{"tableName": "users"}`,
		},
		{
			name:    "truncated payload",
			payload: `[{"tableName": "users", "columns": [`,
		},
		{
			name:    "missing table name",
			payload: `[{"columns": []}]`,
			field:   "tableName",
		},
		{
			name:    "missing columns",
			payload: `[{"tableName": "users"}]`,
			field:   "columns",
		},
		{
			name:    "null columns",
			payload: `[{"tableName": "users", "columns": null}]`,
			field:   "columns",
		},
		{
			name: "missing column name",
			payload: `[{"tableName": "users", "columns": [
				{"columnType": "int", "isOptional": false, "foreignKeyReference": null}
			]}]`,
			field: "columnName",
		},
		{
			name: "missing column type",
			payload: `[{"tableName": "users", "columns": [
				{"columnName": "id", "isOptional": false, "foreignKeyReference": null}
			]}]`,
			field: "columnType",
		},
		{
			name: "missing isOptional",
			payload: `[{"tableName": "users", "columns": [
				{"columnName": "id", "columnType": "int", "foreignKeyReference": null}
			]}]`,
			field: "isOptional",
		},
		{
			name: "absent foreignKeyReference",
			payload: `[{"tableName": "users", "columns": [
				{"columnName": "id", "columnType": "int", "isOptional": false}
			]}]`,
			field: "foreignKeyReference",
		},
		{
			name: "reference without column",
			payload: `[{"tableName": "orders", "columns": [
				{"columnName": "user_id", "columnType": "int", "isOptional": false,
				 "foreignKeyReference": {"table": "users"}}
			]}]`,
			field: "foreignKeyReference",
		},
		{
			name: "isOptional is not a bool",
			payload: `[{"tableName": "users", "columns": [
				{"columnName": "id", "columnType": "int", "isOptional": "no", "foreignKeyReference": null}
			]}]`,
			field: "isOptional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.payload))
			require.Nil(t, doc)

			var pErr *ParseError
			require.ErrorAs(t, err, &pErr)
			assert.Equal(t, tt.field, pErr.Field)
		})
	}
}

func TestParseErrorContext(t *testing.T) {
	payload := `[{"tableName": "orders", "columns": [
		{"columnName": "user_id", "columnType": "int", "isOptional": false}
	]}]`

	_, err := Parse([]byte(payload))
	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "orders", pErr.Table)
	assert.Equal(t, "user_id", pErr.Column)
	assert.Equal(t, "foreignKeyReference", pErr.Field)
}

func TestParseErrorPretty(t *testing.T) {
	_, err := Parse([]byte(`[{"columns": []}]`))
	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)

	pretty := pErr.Pretty()
	assert.Contains(t, pretty, "tableName")
	assert.Contains(t, pretty, "record:")
}
