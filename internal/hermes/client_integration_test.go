//go:build integration

package hermes

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/risk"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_SafeguardingAlert(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	ctx := context.Background()
	logger := slog.Default()

	client, err := NewClient(ctx, natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	received := make(chan SafeguardingAlert, 1)
	err = client.Subscribe(SubjectSafeguardingAlert, func(subject string, data []byte) {
		var alert SafeguardingAlert
		if err := json.Unmarshal(data, &alert); err == nil {
			received <- alert
		}
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	NewNotifier(client, logger).TurnProcessed(ctx, engine.TurnEvent{
		SessionID: "sess-integration",
		RiskLevel: risk.High,
		RiskScore: 12,
	})

	select {
	case alert := <-received:
		if alert.SessionID != "sess-integration" || alert.RiskScore != 12 {
			t.Errorf("unexpected alert %+v", alert)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for alert")
	}
}

func TestIntegration_ResetSubscription(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	ctx := context.Background()
	logger := slog.Default()

	client, err := NewClient(ctx, natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	done := make(chan string, 1)
	r := resetFunc(func(id string) bool {
		done <- id
		return true
	})
	if err := client.SubscribeResets(r); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := client.Publish(SubjectSessionReset, ResetRequest{SessionID: "sess-reset"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case id := <-done:
		if id != "sess-reset" {
			t.Errorf("reset %q, want sess-reset", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reset")
	}
}

type resetFunc func(string) bool

func (f resetFunc) Reset(id string) bool { return f(id) }
