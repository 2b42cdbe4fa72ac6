package unified

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

type fakeCompleter struct {
	fn func(ctx context.Context, prompt string) (string, error)
}

func (f fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return f.fn(ctx, prompt)
}

type fakeStore struct {
	tabular  bool
	document bool
	closed   []string
}

func (s *fakeStore) HasTabular(string) bool  { return s.tabular }
func (s *fakeStore) HasDocument(string) bool { return s.document }
func (s *fakeStore) CloseSession(id string)  { s.closed = append(s.closed, id) }

type fakeTabular struct {
	called bool
}

func (f *fakeTabular) Answer(context.Context, string, string) (*entity.QueryResult, error) {
	f.called = true
	return &entity.QueryResult{
		Status:   entity.QueryStatusSuccess,
		SQLQuery: "SELECT 1 AS one",
		Columns:  []string{"one"},
		Rows:     []map[string]any{{"one": int64(1)}},
		RowCount: 1,
	}, nil
}

func (f *fakeTabular) Summarize(context.Context, string, *entity.QueryResult) (string, error) {
	return "one row", nil
}

type fakeDocument struct {
	called bool
}

func (f *fakeDocument) Answer(context.Context, string, string) (string, string, error) {
	f.called = true
	return "from the document", "doc.pdf", nil
}

func completerReturning(label string) fakeCompleter {
	return fakeCompleter{fn: func(context.Context, string) (string, error) {
		return label, nil
	}}
}

func TestParseLabel(t *testing.T) {
	cases := map[string]entity.QueryType{
		"sql":                   entity.QueryTypeTabular,
		" PDF ":                 entity.QueryTypeDocument,
		"I think \"both\" fits": entity.QueryTypeBoth,
		"the document covers":   entity.QueryTypeDocument,
		"gibberish":             entity.QueryTypeTabular,
	}
	for in, want := range cases {
		if got := parseLabel(in); got != want {
			t.Errorf("parseLabel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestQuery_NoDataSources(t *testing.T) {
	uc := NewUsecase(&fakeStore{}, &fakeTabular{}, &fakeDocument{}, completerReturning("sql"), zap.NewNop())
	_, err := uc.Query(context.Background(), "sess", "q")
	if !errors.Is(err, entity.ErrNoDataSources) {
		t.Fatalf("expected ErrNoDataSources, got %v", err)
	}
}

func TestQuery_RoutesBoth(t *testing.T) {
	tab := &fakeTabular{}
	doc := &fakeDocument{}
	uc := NewUsecase(&fakeStore{tabular: true, document: true}, tab, doc, completerReturning("both"), zap.NewNop())

	resp, err := uc.Query(context.Background(), "sess", "q")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.QueryType != entity.QueryTypeBoth {
		t.Fatalf("query type = %s", resp.QueryType)
	}
	if !tab.called || !doc.called {
		t.Fatal("both engines must run")
	}
	if resp.SQL == nil || resp.SQL.Summary != "one row" {
		t.Fatalf("sql portion = %+v", resp.SQL)
	}
	if resp.PDF == nil || resp.PDF.SourceFile != "doc.pdf" {
		t.Fatalf("pdf portion = %+v", resp.PDF)
	}
}

func TestQuery_DocumentOnlySkipsTabular(t *testing.T) {
	tab := &fakeTabular{}
	doc := &fakeDocument{}
	uc := NewUsecase(&fakeStore{tabular: true, document: true}, tab, doc, completerReturning("pdf"), zap.NewNop())

	resp, err := uc.Query(context.Background(), "sess", "q")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if tab.called {
		t.Fatal("tabular engine must not run for a document question")
	}
	if resp.SQL != nil || resp.PDF == nil {
		t.Fatalf("portions = %+v / %+v", resp.SQL, resp.PDF)
	}
}

func TestQuery_MissingSourceOmitsPortion(t *testing.T) {
	// The router may answer "both" even when only a document exists; the
	// missing source's portion must simply be absent.
	tab := &fakeTabular{}
	doc := &fakeDocument{}
	uc := NewUsecase(&fakeStore{document: true}, tab, doc, completerReturning("both"), zap.NewNop())

	resp, err := uc.Query(context.Background(), "sess", "q")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if tab.called {
		t.Fatal("tabular engine must not run without tabular data")
	}
	if resp.SQL != nil || resp.PDF == nil {
		t.Fatalf("portions = %+v / %+v", resp.SQL, resp.PDF)
	}
}

func TestClassify_FallbackOnFailure(t *testing.T) {
	failing := fakeCompleter{fn: func(context.Context, string) (string, error) {
		return "", errors.New("model down")
	}}

	uc := NewUsecase(&fakeStore{}, &fakeTabular{}, &fakeDocument{}, failing, zap.NewNop())

	if got := uc.classify(context.Background(), "q", true, true); got != entity.QueryTypeTabular {
		t.Errorf("fallback with tabular = %s, want sql", got)
	}
	if got := uc.classify(context.Background(), "q", false, true); got != entity.QueryTypeDocument {
		t.Errorf("fallback without tabular = %s, want pdf", got)
	}
}

func TestCleanup_DelegatesToStore(t *testing.T) {
	s := &fakeStore{}
	uc := NewUsecase(s, &fakeTabular{}, &fakeDocument{}, completerReturning("sql"), zap.NewNop())

	uc.Cleanup(context.Background(), "sess")
	uc.Cleanup(context.Background(), "sess")

	if len(s.closed) != 2 || s.closed[0] != "sess" {
		t.Fatalf("closed = %v", s.closed)
	}
}
