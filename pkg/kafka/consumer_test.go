package kafka

import (
	"context"
	"testing"
	"time"

	"lexret/pkg/config"
)

// The consume loop must release its reader and return cleanly on context
// cancellation, whichever branch observes it; no broker is needed for that.
func TestConsumerStopsAndClosesOnCancel(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers:       []string{"localhost:1"},
		ConsumerGroup: "test-group",
	}
	c := NewConsumer(cfg, "retrieval-events", func(ctx context.Context, key, value []byte) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after context cancel")
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Query string `json:"query"`
		TopN  int    `json:"top_n"`
	}

	got, err := DecodeJSON[payload]([]byte(`{"query":"cat","top_n":3}`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if got.Query != "cat" || got.TopN != 3 {
		t.Errorf("DecodeJSON = %+v", got)
	}

	if _, err := DecodeJSON[payload]([]byte("{broken")); err == nil {
		t.Error("DecodeJSON accepted malformed value")
	}
}
