package tabular

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// summaryRowLimit caps how many result rows are serialized into the summary
// prompt.
const summaryRowLimit = 20

const sqlPromptTemplate = `You are an expert SQL analyst. Given the following SQLite database table information,
generate a SQL query to answer the user's question.

TABLE NAME: %s
COLUMNS:
%s

SAMPLE DATA (first 3 rows):
%s

TOTAL ROW COUNT: %d

USER QUESTION: %s

IMPORTANT RULES:
1. Return ONLY the SQL query, nothing else.
2. Use SQLite syntax.
3. Always use the exact table name: %s
4. Use exact column names as listed above.
5. For aggregations, always use meaningful aliases with AS.
6. Limit results to 100 rows max unless user asks for specific count.
7. Do NOT include any markdown formatting, code blocks, or backticks.
8. Return just the raw SQL statement.

SQL QUERY:`

const summaryPromptTemplate = `You are a helpful data analyst. The user asked a question and we ran a SQL query.
Provide a clear, concise, and insightful answer based on the results.

USER QUESTION: %s
SQL QUERY EXECUTED: %s
TOTAL ROWS RETURNED: %d

RESULTS (first %d rows):
%s

Provide a helpful, well-formatted summary in markdown. Include:
1. A direct answer to the question
2. Key insights or patterns if applicable
3. Any notable findings

Keep it concise but informative.`

// buildSQLPrompt renders the deterministic schema-grounded prompt for SQL
// generation.
func buildSQLPrompt(question string, schema entity.SchemaInfo) string {
	var cols strings.Builder
	for _, c := range schema.Columns {
		fmt.Fprintf(&cols, "  - %s (%s)\n", c.Name, c.Type)
	}

	sample, err := json.MarshalIndent(schema.SampleRows, "", "  ")
	if err != nil {
		sample = []byte("[]")
	}

	return fmt.Sprintf(sqlPromptTemplate,
		schema.TableName,
		strings.TrimRight(cols.String(), "\n"),
		sample,
		schema.RowCount,
		question,
		schema.TableName,
	)
}

func buildSummaryPrompt(question string, result *entity.QueryResult) string {
	rows := result.Rows
	if len(rows) > summaryRowLimit {
		rows = rows[:summaryRowLimit]
	}

	preview, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		preview = []byte("[]")
	}

	return fmt.Sprintf(summaryPromptTemplate,
		question,
		result.SQLQuery,
		result.RowCount,
		summaryRowLimit,
		preview,
	)
}

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:sql)?[ \t]*\n?")
	fenceCloseRe = regexp.MustCompile("\n?[ \t]*```$")
)

// stripFences removes leading/trailing markdown code-fence markers the model
// may emit despite instructions. Normalization only: a statement without
// fences passes through unchanged.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = fenceCloseRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
