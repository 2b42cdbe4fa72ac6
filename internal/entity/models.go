package entity

// ColumnInfo describes a single table column as loaded into a session engine.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SchemaInfo is the immutable snapshot of a session's loaded table, taken at
// load time. It is what the NL-to-SQL prompt is grounded on.
type SchemaInfo struct {
	TableName  string           `json:"table_name"`
	Columns    []ColumnInfo     `json:"columns"`
	SampleRows []map[string]any `json:"sample_rows"`
	RowCount   int              `json:"row_count"`
}

// Table holds decoded tabular upload data before it is loaded into an engine.
// All values are raw strings; column affinities are inferred at load time.
type Table struct {
	Columns []string
	Rows    [][]string
}

// DocumentContext holds the extracted text of an uploaded document for the
// lifetime of its session. Text is a sequence of page-tagged blocks.
type DocumentContext struct {
	Text      string
	Filename  string
	PageCount int
}

// Query result status values.
const (
	QueryStatusSuccess = "success"
	QueryStatusError   = "error"
)

// QueryResult is the tagged outcome of executing a generated SQL statement.
// Execution failures are data, not errors: Status is "error" and Error holds
// the engine's message while SQLQuery keeps the attempted statement.
type QueryResult struct {
	Status   string           `json:"status"`
	SQLQuery string           `json:"sql_query"`
	Columns  []string         `json:"columns,omitempty"`
	Rows     []map[string]any `json:"results,omitempty"`
	RowCount int              `json:"row_count"`
	Error    string           `json:"error,omitempty"`
}

// QueryType labels the intent of a question for routing.
type QueryType string

const (
	QueryTypeTabular  QueryType = "sql"
	QueryTypeDocument QueryType = "pdf"
	QueryTypeBoth     QueryType = "both"
)
