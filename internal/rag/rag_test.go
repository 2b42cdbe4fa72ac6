package rag

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunk_EmptyText(t *testing.T) {
	if got := Chunk("", 1000, 200); got != nil {
		t.Fatalf("expected nil chunks for empty text, got %v", got)
	}
}

func TestChunk_ShortText(t *testing.T) {
	got := Chunk("hello world", 1000, 200)
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("expected single chunk, got %v", got)
	}
}

func TestChunk_CoversInput(t *testing.T) {
	text := strings.Repeat("abcdefghij", 500) // 5000 chars, no whitespace
	size, overlap := 1000, 200
	chunks := Chunk(text, size, overlap)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	// Consecutive windows must cover the input: each starts stride bytes
	// after the previous, so the reassembled prefixes equal the original.
	stride := size - overlap
	for i, c := range chunks {
		start := i * stride
		if len(c) > size {
			t.Fatalf("chunk %d longer than size: %d", i, len(c))
		}
		if !strings.HasPrefix(text[start:], c) {
			t.Fatalf("chunk %d does not match input at offset %d", i, start)
		}
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Fatal("last chunk does not reach end of input")
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 100)
	a := Chunk(text, 1000, 200)
	b := Chunk(text, 1000, 200)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("chunking is not deterministic")
	}
}

func TestChunk_StrideClampTerminates(t *testing.T) {
	// overlap >= size would make the stride non-positive; the clamp keeps
	// the walk moving forward.
	chunks := Chunk(strings.Repeat("x", 50), 10, 10)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
}

func TestChunk_DropsBlankWindows(t *testing.T) {
	text := "abc" + strings.Repeat(" ", 40) + "def"
	chunks := Chunk(text, 10, 0)
	for _, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Fatalf("blank chunk survived: %q", c)
		}
	}
}

func TestScore_SkipsShortWords(t *testing.T) {
	if got := Score("a an to", "a an to a an to"); got != 0 {
		t.Fatalf("short query words must not score, got %f", got)
	}
}

func TestScore_EmptyChunk(t *testing.T) {
	if got := Score("cat", ""); got != 0 {
		t.Fatalf("empty chunk must score 0, got %f", got)
	}
}

func TestScore_DuplicateQueryWordsCollapse(t *testing.T) {
	once := Score("cat", "cat cat dog")
	twice := Score("cat cat", "cat cat dog")
	if once != twice {
		t.Fatalf("duplicate query words must collapse: %f vs %f", once, twice)
	}
}

func TestRetrieve_Ordering(t *testing.T) {
	chunks := []string{"cat cat cat", "cat", "dog"}
	got := Retrieve("cat", chunks, 3)
	want := []string{"cat cat cat", "cat", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("retrieve order = %v, want %v", got, want)
	}
	if Score("cat", "dog") != 0 {
		t.Fatal("unrelated chunk must score 0")
	}
}

func TestRetrieve_TopKBounds(t *testing.T) {
	chunks := []string{"cat", "cat cat"}
	if got := Retrieve("cat", chunks, 5); len(got) != 2 {
		t.Fatalf("expected all chunks when topK exceeds count, got %d", len(got))
	}
	if got := Retrieve("cat", chunks, 1); len(got) != 1 {
		t.Fatalf("expected exactly topK chunks, got %d", len(got))
	}
}

func TestRetrieve_StableTies(t *testing.T) {
	chunks := []string{"cat one", "cat two", "cat three"}
	got := Retrieve("cat", chunks, 3)
	// "cat three" scores the same as the others but was chunked later;
	// equal scores keep input order.
	if got[0] != "cat one" || got[1] != "cat two" {
		t.Fatalf("tie order not stable: %v", got)
	}
}
