package document

import (
	"context"
	"errors"
	"strings"
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
	docs map[string]entity.DocumentContext
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]entity.DocumentContext)}
}

func (s *fakeStore) PutDocument(sessionID string, doc entity.DocumentContext) {
	s.docs[sessionID] = doc
}

func (s *fakeStore) Document(sessionID string) (entity.DocumentContext, bool) {
	doc, ok := s.docs[sessionID]
	return doc, ok
}

func TestLoad_RejectsEmptyText(t *testing.T) {
	uc := NewUsecase(newFakeStore(), nil, zap.NewNop())
	err := uc.Load(context.Background(), "sess", entity.DocumentContext{Text: "   \n"})
	if !errors.Is(err, entity.ErrNoExtractableText) {
		t.Fatalf("expected ErrNoExtractableText, got %v", err)
	}
}

func TestAnswer_NoDocument(t *testing.T) {
	uc := NewUsecase(newFakeStore(), nil, zap.NewNop())
	_, _, err := uc.Answer(context.Background(), "sess", "q")
	if !errors.Is(err, entity.ErrNoDataLoaded) {
		t.Fatalf("expected ErrNoDataLoaded, got %v", err)
	}
}

func TestAnswer_GroundsPromptInRelevantPage(t *testing.T) {
	s := newFakeStore()
	s.PutDocument("sess", entity.DocumentContext{
		Text:      "[Page 1]\nPage 1 text about pricing\n\n[Page 2]\nPage 2 text about support",
		Filename:  "handbook.pdf",
		PageCount: 2,
	})

	var prompt string
	uc := NewUsecase(s, fakeCompleter{fn: func(_ context.Context, p string) (string, error) {
		prompt = p
		return "Pricing is covered on page 1.", nil
	}}, zap.NewNop())

	answer, source, err := uc.Answer(context.Background(), "sess", "what is the pricing?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "Pricing is covered on page 1." {
		t.Fatalf("answer = %q", answer)
	}
	if source != "handbook.pdf" {
		t.Fatalf("source = %q", source)
	}
	if !strings.Contains(prompt, "pricing") || !strings.Contains(prompt, "[Page 1]") {
		t.Fatalf("prompt not grounded in page-1 context:\n%s", prompt)
	}
	if !strings.Contains(prompt, "what is the pricing?") {
		t.Fatal("prompt missing the question")
	}
}

func TestAnswerText_NoChunksSkipsModel(t *testing.T) {
	s := newFakeStore()
	s.docs["sess"] = entity.DocumentContext{Text: " ", Filename: "blank.pdf"}

	uc := NewUsecase(s, fakeCompleter{fn: func(context.Context, string) (string, error) {
		t.Fatal("model must not be called without chunks")
		return "", nil
	}}, zap.NewNop())

	answer, _, err := uc.Answer(context.Background(), "sess", "q")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != noTextNotice {
		t.Fatalf("answer = %q", answer)
	}
}

func TestSummarize_ShortDocumentVerbatim(t *testing.T) {
	s := newFakeStore()
	text := "[Page 1]\nA short report."
	s.PutDocument("sess", entity.DocumentContext{Text: text, Filename: "r.pdf"})

	var prompt string
	uc := NewUsecase(s, fakeCompleter{fn: func(_ context.Context, p string) (string, error) {
		prompt = p
		return "summary", nil
	}}, zap.NewNop())

	if _, _, err := uc.Summarize(context.Background(), "sess"); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(prompt, text) {
		t.Fatal("short document must be embedded verbatim")
	}
}

func TestSummarize_LongDocumentTruncated(t *testing.T) {
	s := newFakeStore()
	long := strings.Repeat("lorem ipsum dolor sit amet ", 2000) // ~54k chars
	s.PutDocument("sess", entity.DocumentContext{Text: long, Filename: "big.pdf"})

	var prompt string
	uc := NewUsecase(s, fakeCompleter{fn: func(_ context.Context, p string) (string, error) {
		prompt = p
		return "summary", nil
	}}, zap.NewNop())

	if _, _, err := uc.Summarize(context.Background(), "sess"); err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	// Six 5000-char chunks plus separators stay well under the raw length.
	if len(prompt) >= len(long) {
		t.Fatalf("long document was not truncated: prompt %d chars", len(prompt))
	}
	if len(prompt) > summaryChunkBudget*summaryChunkSize+len(summaryPromptTemplate)+1000 {
		t.Fatalf("prompt exceeds chunk budget: %d chars", len(prompt))
	}
}
