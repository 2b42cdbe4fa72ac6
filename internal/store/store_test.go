package store

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(0, zap.NewNop())
	t.Cleanup(s.Close)
	return s
}

func TestSanitizeTableName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Data!!", "My_Data__"},
		{"sales_2024", "sales_2024"},
		{"", DefaultTableName},
		{"!!!", "___"},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		if got := SanitizeTableName(tc.in); got != tc.want {
			t.Errorf("SanitizeTableName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadTable_Schema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	schema, err := s.LoadTable(ctx, "sess", "orders", entity.Table{
		Columns: []string{"id", "item name", "amount"},
		Rows: [][]string{
			{"1", "widget", "9.50"},
			{"2", "gadget", "3.25"},
			{"3", "doohickey", "7.00"},
			{"4", "gizmo", "1.10"},
		},
	})
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	if schema.TableName != "orders" {
		t.Errorf("table name = %q", schema.TableName)
	}
	wantCols := []entity.ColumnInfo{
		{Name: "id", Type: "INTEGER"},
		{Name: "item_name", Type: "TEXT"},
		{Name: "amount", Type: "REAL"},
	}
	for i, want := range wantCols {
		if schema.Columns[i] != want {
			t.Errorf("column %d = %+v, want %+v", i, schema.Columns[i], want)
		}
	}
	if schema.RowCount != 4 {
		t.Errorf("row count = %d, want 4", schema.RowCount)
	}
	if len(schema.SampleRows) != 3 {
		t.Errorf("sample rows = %d, want 3", len(schema.SampleRows))
	}
}

func TestLoadTable_ReplacesPriorTable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LoadTable(ctx, "sess", "t", entity.Table{
		Columns: []string{"a"},
		Rows:    [][]string{{"1"}, {"2"}},
	}); err != nil {
		t.Fatalf("first load: %v", err)
	}

	schema, err := s.LoadTable(ctx, "sess", "t", entity.Table{
		Columns: []string{"b", "c"},
		Rows:    [][]string{{"x", "y"}},
	})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if schema.RowCount != 1 || len(schema.Columns) != 2 {
		t.Fatalf("replacement semantics violated: %+v", schema)
	}
}

func TestSessionIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	load := func(session, value string) {
		t.Helper()
		if _, err := s.LoadTable(ctx, session, "t", entity.Table{
			Columns: []string{"v"},
			Rows:    [][]string{{value}},
		}); err != nil {
			t.Fatalf("load %s: %v", session, err)
		}
	}
	load("a", "alpha")
	load("b", "beta")

	read := func(session string) string {
		t.Helper()
		db, err := s.Engine(session)
		if err != nil {
			t.Fatalf("engine %s: %v", session, err)
		}
		var v string
		if err := db.QueryRowContext(ctx, `SELECT v FROM t`).Scan(&v); err != nil {
			t.Fatalf("query %s: %v", session, err)
		}
		return v
	}

	if got := read("a"); got != "alpha" {
		t.Errorf("session a sees %q", got)
	}
	if got := read("b"); got != "beta" {
		t.Errorf("session b sees %q", got)
	}
}

func TestCloseSession_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LoadTable(ctx, "sess", "t", entity.Table{
		Columns: []string{"a"},
		Rows:    [][]string{{"1"}},
	}); err != nil {
		t.Fatalf("load: %v", err)
	}
	s.PutDocument("sess", entity.DocumentContext{Text: "[Page 1]\nhello", Filename: "doc.pdf", PageCount: 1})

	s.CloseSession("sess")
	s.CloseSession("sess")
	s.CloseSession("never-created")

	if s.HasTabular("sess") || s.HasDocument("sess") {
		t.Fatal("session state survived cleanup")
	}
}

func TestDocumentContext_Replace(t *testing.T) {
	s := newTestStore(t)

	s.PutDocument("sess", entity.DocumentContext{Text: "one", Filename: "a.pdf", PageCount: 1})
	s.PutDocument("sess", entity.DocumentContext{Text: "two", Filename: "b.pdf", PageCount: 2})

	doc, ok := s.Document("sess")
	if !ok {
		t.Fatal("document missing")
	}
	if doc.Filename != "b.pdf" || doc.Text != "two" {
		t.Fatalf("document not replaced: %+v", doc)
	}
}

func TestInferColumnType(t *testing.T) {
	rows := [][]string{
		{"1", "1.5", "x", ""},
		{"2", "2", "3", ""},
	}
	if got := inferColumnType(rows, 0); got != "INTEGER" {
		t.Errorf("col 0 = %s", got)
	}
	if got := inferColumnType(rows, 1); got != "REAL" {
		t.Errorf("col 1 = %s", got)
	}
	if got := inferColumnType(rows, 2); got != "TEXT" {
		t.Errorf("col 2 = %s", got)
	}
	if got := inferColumnType(rows, 3); got != "TEXT" {
		t.Errorf("empty col = %s", got)
	}
}
