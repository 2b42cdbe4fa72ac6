// Package document implements retrieval-augmented answering over an
// uploaded document's extracted text: chunk, score, select, then ground a
// model prompt in the selected passages.
package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/entity"
	"github.com/dataspeak/analysis-backend/internal/rag"
)

const (
	// contextSeparator makes chunk boundaries visible to the model.
	contextSeparator = "\n\n---\n\n"

	// noTextNotice is returned without a model call when chunking yields
	// nothing.
	noTextNotice = "Could not extract any text from the document."

	// Documents longer than summaryRechunkThreshold are summarized from the
	// first summaryChunkBudget coarse chunks, a bounded-cost approximation
	// of the whole document. The cutoff is a tunable, not a coverage bound.
	summaryRechunkThreshold = 30000
	summaryChunkSize        = 5000
	summaryChunkOverlap     = 500
	summaryChunkBudget      = 6
)

type Usecase struct {
	store  DocumentStore
	llm    Completer
	logger *zap.Logger
}

func NewUsecase(documentStore DocumentStore, llm Completer, logger *zap.Logger) *Usecase {
	return &Usecase{
		store:  documentStore,
		llm:    llm,
		logger: logger,
	}
}

// Load stores the extracted document text for the session, replacing any
// prior document.
func (uc *Usecase) Load(ctx context.Context, sessionID string, doc entity.DocumentContext) error {
	if strings.TrimSpace(doc.Text) == "" {
		return entity.ErrNoExtractableText
	}
	uc.store.PutDocument(sessionID, doc)
	ctxzap.Info(ctx, "document loaded",
		zap.String("session_id", sessionID),
		zap.String("filename", doc.Filename),
		zap.Int("pages", doc.PageCount),
		zap.Int("text_length", len(doc.Text)),
	)
	return nil
}

// Answer runs the retrieval pipeline for the session's document and returns
// the model's grounded answer plus the source filename.
func (uc *Usecase) Answer(ctx context.Context, sessionID, question string) (string, string, error) {
	doc, ok := uc.store.Document(sessionID)
	if !ok {
		return "", "", entity.ErrNoDataLoaded
	}

	answer, err := uc.answerText(ctx, question, doc.Text)
	if err != nil {
		return "", "", err
	}
	return answer, doc.Filename, nil
}

func (uc *Usecase) answerText(ctx context.Context, question, fullText string) (string, error) {
	chunks := rag.Chunk(fullText, rag.DefaultChunkSize, rag.DefaultChunkOverlap)
	if len(chunks) == 0 {
		return noTextNotice, nil
	}

	relevant := rag.Retrieve(question, chunks, rag.DefaultTopK)
	ctxzap.Debug(ctx, "retrieved grounding context",
		zap.Int("chunks", len(chunks)),
		zap.Int("selected", len(relevant)),
	)

	answer, err := uc.llm.Complete(ctx, buildAnswerPrompt(question, strings.Join(relevant, contextSeparator)))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// Summarize produces a structured summary of the session's document. Long
// documents are re-chunked coarsely and truncated to a fixed chunk budget.
func (uc *Usecase) Summarize(ctx context.Context, sessionID string) (string, string, error) {
	doc, ok := uc.store.Document(sessionID)
	if !ok {
		return "", "", entity.ErrNoDataLoaded
	}

	content := doc.Text
	if len(doc.Text) > summaryRechunkThreshold {
		chunks := rag.Chunk(doc.Text, summaryChunkSize, summaryChunkOverlap)
		if len(chunks) > summaryChunkBudget {
			chunks = chunks[:summaryChunkBudget]
		}
		content = strings.Join(chunks, "\n\n")
	}

	summary, err := uc.llm.Complete(ctx, buildSummaryPrompt(content))
	if err != nil {
		return "", "", fmt.Errorf("generate summary: %w", err)
	}
	return summary, doc.Filename, nil
}
