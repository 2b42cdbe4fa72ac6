package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// DefaultTableName is the fallback used when sanitizing a table name leaves
// nothing usable.
const DefaultTableName = "data_table"

const sampleRowLimit = 3

var nonWordRe = regexp.MustCompile(`\W`)

// SanitizeTableName maps an arbitrary name to a valid SQLite identifier:
// every character outside [A-Za-z0-9_] becomes an underscore, and an empty
// result falls back to DefaultTableName.
func SanitizeTableName(name string) string {
	name = nonWordRe.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		return DefaultTableName
	}
	return name
}

func sanitizeColumnName(name string, index int) string {
	name = nonWordRe.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		return fmt.Sprintf("column_%d", index+1)
	}
	return name
}

// LoadTable loads decoded tabular data into the session's engine, replacing
// any prior table of the same name, and returns the schema snapshot used to
// ground SQL generation. The load is transactional: on failure the prior
// table is left untouched.
func (s *Store) LoadTable(ctx context.Context, sessionID, tableName string, table entity.Table) (entity.SchemaInfo, error) {
	if len(table.Columns) == 0 {
		return entity.SchemaInfo{}, fmt.Errorf("%w: no columns", entity.ErrProcessing)
	}

	db, err := s.Engine(sessionID)
	if err != nil {
		return entity.SchemaInfo{}, err
	}

	name := SanitizeTableName(tableName)
	columns := make([]entity.ColumnInfo, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = entity.ColumnInfo{
			Name: sanitizeColumnName(col, i),
			Type: inferColumnType(table.Rows, i),
		}
	}

	if err := s.replaceTable(ctx, db, name, columns, table.Rows); err != nil {
		return entity.SchemaInfo{}, fmt.Errorf("%w: %v", entity.ErrProcessing, err)
	}

	schema, err := s.snapshotSchema(ctx, db, name, columns)
	if err != nil {
		return entity.SchemaInfo{}, fmt.Errorf("%w: %v", entity.ErrProcessing, err)
	}

	s.schemas.SetDefault(sessionID, schema)

	s.logger.Info("table loaded",
		zap.String("session_id", sessionID),
		zap.String("table", name),
		zap.Int("columns", len(schema.Columns)),
		zap.Int("rows", schema.RowCount),
	)
	return schema, nil
}

func (s *Store) replaceTable(ctx context.Context, db *sql.DB, name string, columns []entity.ColumnInfo, rows [][]string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, name)); err != nil {
		return fmt.Errorf("drop prior table: %w", err)
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%q %s", col.Name, col.Type)
	}
	createStmt := fmt.Sprintf(`CREATE TABLE %q (%s)`, name, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q VALUES (%s)`, name, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, row := range rows {
		args := make([]any, len(columns))
		for i, col := range columns {
			var raw string
			if i < len(row) {
				raw = row[i]
			}
			args[i] = convertValue(raw, col.Type)
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) snapshotSchema(ctx context.Context, db *sql.DB, name string, columns []entity.ColumnInfo) (entity.SchemaInfo, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q LIMIT %d`, name, sampleRowLimit))
	if err != nil {
		return entity.SchemaInfo{}, fmt.Errorf("read sample rows: %w", err)
	}
	_, sample, err := ScanRows(rows)
	if err != nil {
		return entity.SchemaInfo{}, fmt.Errorf("scan sample rows: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, name)).Scan(&count); err != nil {
		return entity.SchemaInfo{}, fmt.Errorf("count rows: %w", err)
	}

	return entity.SchemaInfo{
		TableName:  name,
		Columns:    columns,
		SampleRows: sample,
		RowCount:   count,
	}, nil
}

// inferColumnType picks a SQLite affinity by scanning the column's values:
// INTEGER if every non-empty value parses as an integer, REAL if every
// non-empty value parses as a number, TEXT otherwise.
func inferColumnType(rows [][]string, col int) string {
	sawValue := false
	allInt := true
	allReal := true

	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allReal = false
			break
		}
	}

	switch {
	case !sawValue:
		return "TEXT"
	case allInt:
		return "INTEGER"
	case allReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func convertValue(raw, colType string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	switch colType {
	case "INTEGER":
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	case "REAL":
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

// ScanRows materializes a result set into ordered column names and one map
// per row. Byte slices are converted to strings so results serialize as
// text rather than base64.
func ScanRows(rows *sql.Rows) ([]string, []map[string]any, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		m := make(map[string]any, len(cols))
		for i, c := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			m[c] = v
		}
		out = append(out, m)
	}

	return cols, out, rows.Err()
}
