package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

type fakeResult struct {
	id  string
	err error
}

func (f *fakeResult) Get(ctx context.Context) (string, error) {
	return f.id, f.err
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	results  []publishResult
}

func (f *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	if len(f.results) > 0 {
		result := f.results[0]
		f.results = f.results[1:]
		return result
	}
	return &fakeResult{id: "msg-1"}
}

func testAlert() Alert {
	return Alert{
		CompanyID: uuid.New(),
		Type:      enums.AlertTypeSLABreach,
		Severity:  enums.AlertSeverityCritical,
		Title:     "SLA breach predicted",
		Message:   "order will miss its promised date",
	}
}

func TestPublishFillsDefaultsAndAttributes(t *testing.T) {
	fake := &fakePublisher{}
	pub := &pubsubPublisher{pub: fake, timeout: time.Second}

	alert := testAlert()
	if err := pub.Publish(context.Background(), alert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.messages))
	}

	msg := fake.messages[0]
	if msg.Attributes["alert_type"] != "sla_breach" {
		t.Fatalf("unexpected alert_type attribute %s", msg.Attributes["alert_type"])
	}
	if msg.Attributes["severity"] != "critical" {
		t.Fatalf("unexpected severity attribute %s", msg.Attributes["severity"])
	}
	if msg.Attributes["company_id"] != alert.CompanyID.String() {
		t.Fatalf("unexpected company_id attribute %s", msg.Attributes["company_id"])
	}

	var decoded Alert
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if decoded.ID == uuid.Nil {
		t.Fatal("expected generated alert id")
	}
	if decoded.OccurredAt.IsZero() {
		t.Fatal("expected occurred_at to be stamped")
	}
	if decoded.Title != alert.Title {
		t.Fatalf("unexpected title %s", decoded.Title)
	}
}

func TestPublishRejectsIncompleteAlert(t *testing.T) {
	pub := &pubsubPublisher{pub: &fakePublisher{}, timeout: time.Second}

	if err := pub.Publish(context.Background(), Alert{Type: enums.AlertTypeOrderRisk, Severity: enums.AlertSeverityWarning}); err == nil {
		t.Fatal("expected error for missing company id")
	}

	alert := testAlert()
	alert.Severity = ""
	if err := pub.Publish(context.Background(), alert); err == nil {
		t.Fatal("expected error for missing severity")
	}
}

func TestPublishPropagatesResultError(t *testing.T) {
	want := errors.New("topic unavailable")
	fake := &fakePublisher{results: []publishResult{&fakeResult{err: want}}}
	pub := &pubsubPublisher{pub: fake, timeout: time.Second}

	err := pub.Publish(context.Background(), testAlert())
	if !errors.Is(err, want) {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestPublishBatchContinuesPastFailures(t *testing.T) {
	want := errors.New("boom")
	fake := &fakePublisher{results: []publishResult{
		&fakeResult{err: want},
		&fakeResult{id: "ok"},
	}}
	pub := &pubsubPublisher{pub: fake, timeout: time.Second}

	err := pub.PublishBatch(context.Background(), []Alert{testAlert(), testAlert()})
	if !errors.Is(err, want) {
		t.Fatalf("expected first error returned, got %v", err)
	}
	if len(fake.messages) != 2 {
		t.Fatalf("expected both alerts attempted, got %d", len(fake.messages))
	}
}

func TestPublishBatchStopsOnCancelledContext(t *testing.T) {
	fake := &fakePublisher{}
	pub := &pubsubPublisher{pub: fake, timeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.PublishBatch(ctx, []Alert{testAlert()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if len(fake.messages) != 0 {
		t.Fatalf("expected no publishes after cancel, got %d", len(fake.messages))
	}
}
