package retrieval

import (
	"testing"

	"github.com/geotaxlab/infohub-agent/internal/domain"
)

func newTestScorer() *Scorer {
	return NewScorer(map[string]string{
		"დღგ": "დამატებული ღირებულების გადასახადი",
	})
}

func TestScore_Range(t *testing.T) {
	s := newTestScorer()

	docs := []domain.Document{
		{Name: "დღგ განაკვეთი", Description: "დღგ დეკლარაცია იმპორტი"},
		{Name: "სხვა დოკუმენტი", Description: ""},
		{},
		{Name: "დღგ", Description: "დღგ"},
	}
	keywords := []string{"დღგ", "განაკვეთი", "დეკლარაცია"}

	for i, doc := range docs {
		score := s.Score(keywords, doc)
		if score < 0.0 || score > 1.0 {
			t.Errorf("doc %d: score %f out of [0,1]", i, score)
		}
	}
}

func TestScore_TitleMatchScoresHigher(t *testing.T) {
	s := newTestScorer()
	keywords := []string{"განაკვეთი"}

	inTitle := domain.Document{Name: "განაკვეთი", Description: "ზოგადი ტექსტი"}
	inDescription := domain.Document{Name: "დოკუმენტი", Description: "განაკვეთი ზოგადი ტექსტი"}

	titleScore := s.Score(keywords, inTitle)
	descScore := s.Score(keywords, inDescription)

	if titleScore <= descScore {
		t.Errorf("title match %f should be strictly higher than description match %f",
			titleScore, descScore)
	}
}

func TestScore_AbbreviationEnrichment(t *testing.T) {
	s := newTestScorer()

	// Document only spells out the full term, query only uses the abbreviation.
	doc := domain.Document{
		Name:        "დამატებული ღირებულების გადასახადი",
		Description: "განაკვეთი და გადახდის წესი",
	}

	score := s.Score([]string{"დღგ"}, doc)
	if score <= 0.0 {
		t.Errorf("expected positive score via abbreviation expansion, got %f", score)
	}
}

func TestScore_EmptyKeywordsUniformZero(t *testing.T) {
	s := newTestScorer()

	docs := []domain.Document{
		{Name: "ერთი"},
		{Name: "ორი", Description: "სამი"},
	}
	for i, doc := range docs {
		if score := s.Score(nil, doc); score != 0.0 {
			t.Errorf("doc %d: expected 0.0 for empty keyword set, got %f", i, score)
		}
	}
}

func TestScore_CappedAtOne(t *testing.T) {
	s := newTestScorer()

	// Every keyword hits both the name and the description.
	doc := domain.Document{
		Name:        "დღგ განაკვეთი დეკლარაცია",
		Description: "დღგ განაკვეთი დეკლარაცია",
	}
	score := s.Score([]string{"განაკვეთი", "დეკლარაცია"}, doc)
	if score != 1.0 {
		t.Errorf("expected score capped at 1.0, got %f", score)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := newTestScorer()
	keywords := []string{"დღგ", "იმპორტი"}
	doc := domain.Document{Name: "იმპორტის წესები", Description: "დღგ იმპორტი"}

	first := s.Score(keywords, doc)
	for i := 0; i < 10; i++ {
		if got := s.Score(keywords, doc); got != first {
			t.Fatalf("score changed across runs: %f vs %f", first, got)
		}
	}
}
