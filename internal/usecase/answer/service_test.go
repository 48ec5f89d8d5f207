package answer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/geotaxlab/infohub-agent/internal/domain"
	"github.com/geotaxlab/infohub-agent/internal/usecase/contextpack"
	"github.com/geotaxlab/infohub-agent/internal/usecase/query"
	"github.com/geotaxlab/infohub-agent/internal/usecase/retrieval"
)

func newAskService(retriever Retriever, chat ChatClient) *Service {
	s := New(
		query.NewProcessor(
			[]string{"რა", "არის"},
			map[string]string{"დღგ": "დამატებული ღირებულების გადასახადი"},
		),
		retriever,
		contextpack.New(3000, 800),
		chat,
		2,
		zap.NewNop(),
	)
	s.sleep = func(context.Context, time.Duration) error { return nil }
	return s
}

func TestAsk_ContextualAnswer(t *testing.T) {
	retriever := &staticRetriever{result: retrieval.Result{
		Documents: []domain.Document{
			{UUID: "1", Name: "დღგ-ის წესები", Type: "მეთოდოლოგია", URL: "https://x/1", Score: 0.8, Description: "აღწერა ერთი"},
			{UUID: "2", Name: "სხვა დოკუმენტი", Score: 0.4, Description: "აღწერა ორი"},
		},
		Total: 17,
	}}
	chat := &scriptedChat{}
	svc := newAskService(retriever, chat)

	ans, err := svc.Ask(context.Background(), "რა არის დღგ?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(ans.Text, "პასუხი") {
		t.Errorf("answer text = %q", ans.Text)
	}
	if !strings.Contains(ans.Text, "infohub.rs.ge") {
		t.Error("citation footer missing")
	}
	if len(ans.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(ans.Sources))
	}
	if ans.Sources[0].Name != "დღგ-ის წესები" || ans.Sources[0].Score != 0.8 {
		t.Errorf("unexpected first source: %+v", ans.Sources[0])
	}
	if ans.QueryUsed != "დღგ" {
		t.Errorf("query_used = %q", ans.QueryUsed)
	}
	if ans.TotalAPIResults != 17 {
		t.Errorf("total_api_results = %d", ans.TotalAPIResults)
	}
	if ans.Timing.TotalMS < ans.Timing.SearchMS {
		t.Errorf("inconsistent timing: %+v", ans.Timing)
	}

	// The user message embeds the packed context and the raw question.
	user := chat.payloads[0][1].Content
	if !strings.Contains(user, "კონტექსტი") || !strings.Contains(user, "დღგ-ის წესები") {
		t.Errorf("user prompt missing context: %q", user)
	}
	if !strings.Contains(user, "რა არის დღგ?") {
		t.Errorf("user prompt missing question: %q", user)
	}
}

func TestAsk_NoDocumentsDegradesToGeneralMode(t *testing.T) {
	chat := &scriptedChat{}
	svc := newAskService(&staticRetriever{}, chat)

	ans, err := svc.Ask(context.Background(), "გამარჯობა")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ans.Sources) != 0 {
		t.Errorf("expected no sources, got %v", ans.Sources)
	}

	user := chat.payloads[0][1].Content
	if strings.Contains(user, "კონტექსტი") {
		t.Errorf("general mode must not embed context: %q", user)
	}
	if !strings.Contains(user, "გამარჯობა") {
		t.Errorf("question missing from general prompt: %q", user)
	}
}

func TestAsk_SystemPromptAlwaysFirst(t *testing.T) {
	chat := &scriptedChat{}
	svc := newAskService(&staticRetriever{}, chat)

	if _, err := svc.Ask(context.Background(), "შეკითხვა"); err != nil {
		t.Fatal(err)
	}

	msgs := chat.payloads[0]
	if len(msgs) != 2 || msgs[0].Role != domain.RoleSystem {
		t.Errorf("expected [system, user] payload, got %+v", msgs)
	}
}

func TestAsk_GenerationFailurePropagatesClassified(t *testing.T) {
	chat := &scriptedChat{script: []error{domain.ErrUpstream}}
	svc := newAskService(&staticRetriever{}, chat)

	_, err := svc.Ask(context.Background(), "შეკითხვა")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestAsk_Idempotent(t *testing.T) {
	retriever := &staticRetriever{result: retrieval.Result{
		Documents: []domain.Document{{UUID: "1", Name: "დოკ", Score: 0.5}},
		Total:     1,
	}}
	svc := newAskService(retriever, &scriptedChat{})

	first, err := svc.Ask(context.Background(), "რა არის დღგ?")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Ask(context.Background(), "რა არის დღგ?")
	if err != nil {
		t.Fatal(err)
	}

	first.Timing, second.Timing = domain.Timing{}, domain.Timing{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("pipeline not idempotent:\n%+v\n%+v", first, second)
	}
}
