package entity

// QueryRequest is the JSON body shared by the /sql/query, /pdf/query and
// /unified/query endpoints.
type QueryRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// TabularUploadResponse is returned by POST /sql/upload.
type TabularUploadResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Schema  SchemaInfo `json:"schema"`
}

// TabularQueryResponse is returned by POST /sql/query.
type TabularQueryResponse struct {
	Status    string           `json:"status"`
	SQLQuery  string           `json:"sql_query"`
	Results   []map[string]any `json:"results"`
	Columns   []string         `json:"columns"`
	RowCount  int              `json:"row_count"`
	AISummary string           `json:"ai_summary"`
	Error     string           `json:"error,omitempty"`
}

// DocumentUploadResponse is returned by POST /pdf/upload.
type DocumentUploadResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PageCount  int    `json:"page_count"`
	TextLength int    `json:"text_length"`
}

// DocumentQueryResponse is returned by POST /pdf/query.
type DocumentQueryResponse struct {
	Status     string `json:"status"`
	Answer     string `json:"answer"`
	SourceFile string `json:"source_file"`
}

// DocumentSummaryResponse is returned by POST /pdf/summarize.
type DocumentSummaryResponse struct {
	Status     string `json:"status"`
	Summary    string `json:"summary"`
	SourceFile string `json:"source_file"`
}

// UnifiedSQLResult is the tabular portion of a unified query response.
type UnifiedSQLResult struct {
	SQLQuery string           `json:"sql_query"`
	Results  []map[string]any `json:"results"`
	Columns  []string         `json:"columns"`
	RowCount int              `json:"row_count"`
	Summary  string           `json:"summary"`
	Error    string           `json:"error,omitempty"`
}

// UnifiedPDFResult is the document portion of a unified query response.
type UnifiedPDFResult struct {
	Answer     string `json:"answer"`
	SourceFile string `json:"source_file"`
}

// UnifiedQueryResponse is returned by POST /unified/query. The portions are
// present only when the router selected them and the matching context exists.
type UnifiedQueryResponse struct {
	QueryType QueryType         `json:"query_type"`
	SQL       *UnifiedSQLResult `json:"sql,omitempty"`
	PDF       *UnifiedPDFResult `json:"pdf,omitempty"`
}
