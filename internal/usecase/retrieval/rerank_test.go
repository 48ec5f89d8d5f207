package retrieval

import (
	"testing"

	"github.com/geotaxlab/infohub-agent/internal/domain"
)

func TestRerank_SortsDescending(t *testing.T) {
	docs := []domain.Document{
		{UUID: "a", Score: 0.2},
		{UUID: "b", Score: 0.9},
		{UUID: "c", Score: 0.5},
	}

	ranked := Rerank(docs, 10)

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %v", i, ranked)
		}
	}
	if ranked[0].UUID != "b" {
		t.Errorf("expected b first, got %s", ranked[0].UUID)
	}
}

func TestRerank_StableOnTies(t *testing.T) {
	docs := []domain.Document{
		{UUID: "first", Score: 0.5},
		{UUID: "second", Score: 0.5},
		{UUID: "third", Score: 0.5},
	}

	ranked := Rerank(docs, 10)

	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].UUID != want {
			t.Errorf("tie order broken at %d: got %s, want %s", i, ranked[i].UUID, want)
		}
	}
}

func TestRerank_Truncates(t *testing.T) {
	docs := make([]domain.Document, 12)
	for i := range docs {
		docs[i].UUID = string(rune('a' + i))
		docs[i].Score = float64(i) / 12
	}

	ranked := Rerank(docs, 5)
	if len(ranked) != 5 {
		t.Fatalf("expected exactly 5 documents, got %d", len(ranked))
	}
}

func TestRerank_FewerThanTopK(t *testing.T) {
	docs := []domain.Document{{UUID: "a"}, {UUID: "b"}}

	ranked := Rerank(docs, 5)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(ranked))
	}
}

func TestRerank_DoesNotMutateInput(t *testing.T) {
	docs := []domain.Document{
		{UUID: "a", Score: 0.1},
		{UUID: "b", Score: 0.9},
	}

	Rerank(docs, 10)

	if docs[0].UUID != "a" || docs[1].UUID != "b" {
		t.Errorf("input slice mutated: %v", docs)
	}
}
