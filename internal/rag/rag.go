// Package rag implements lightweight lexical retrieval over extracted
// document text: overlapping character windows scored by normalized keyword
// frequency. Every function is a pure function of its arguments, safe for
// concurrent use.
package rag

import (
	"math"
	"sort"
	"strings"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5

	// Query words this short carry no signal and are skipped when scoring.
	minScoredWordLen = 3
)

// Chunk splits text into overlapping windows of up to size characters,
// advancing by size-overlap each step. Blank windows are dropped without
// affecting the stride. The stride is clamped to at least 1 so the walk
// terminates even for a degenerate size/overlap pair.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 || len(text) == 0 {
		return nil
	}

	stride := size - overlap
	if stride < 1 {
		stride = 1
	}

	var chunks []string
	for start := 0; start < len(text); start += stride {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		if window := strings.TrimSpace(text[start:end]); window != "" {
			chunks = append(chunks, window)
		}
	}
	return chunks
}

// Score rates a chunk against a query using term frequency: for each distinct
// query word longer than two characters, the number of case-insensitive
// non-overlapping occurrences within the chunk is summed, then normalized by
// the square root of the chunk's word count so long chunks do not win on
// bulk alone.
func Score(query, chunk string) float64 {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = struct{}{}
	}

	chunkLower := strings.ToLower(chunk)
	var score float64
	for w := range words {
		if len(w) < minScoredWordLen {
			continue
		}
		score += float64(strings.Count(chunkLower, w))
	}

	wordCount := len(strings.Fields(chunk))
	if wordCount == 0 {
		return 0
	}
	return score / math.Sqrt(float64(wordCount))
}

// Retrieve returns the topK highest-scoring chunks for the query, in
// descending score order. Ties keep original chunk order (stable sort).
// Fewer than topK chunks are returned when fewer exist.
func Retrieve(query string, chunks []string, topK int) []string {
	if topK <= 0 || len(chunks) == 0 {
		return nil
	}

	scores := make([]float64, len(chunks))
	order := make([]int, len(chunks))
	for i, c := range chunks {
		scores[i] = Score(query, c)
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	top := make([]string, topK)
	for i := 0; i < topK; i++ {
		top[i] = chunks[order[i]]
	}
	return top
}
