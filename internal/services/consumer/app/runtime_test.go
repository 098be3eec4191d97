package app

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	journalsqlite "github.com/louisbranch/eventwire/internal/journal/sqlite"
	producerapp "github.com/louisbranch/eventwire/internal/services/producer/app"
	anypb "google.golang.org/protobuf/types/known/anypb"
	_ "modernc.org/sqlite"
)

func TestRunRequiresProducerAddress(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Run(ctx, RuntimeConfig{StreamID: "cart-events"}); err == nil {
		t.Fatal("expected error for missing producer address")
	}
}

func TestRunRequiresStreamID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Run(ctx, RuntimeConfig{ProducerAddr: "localhost:8091"}); err == nil {
		t.Fatal("expected error for missing stream id")
	}
}

// Full wiring round trip: a real producer serving a sqlite journal, and
// the consumer runtime dialing it, sharding projections, and committing
// offsets for replicated events.
func TestRunReplicatesFromProducer(t *testing.T) {
	const typeURL = "type.googleapis.com/shopping.cart.ItemAdded"

	producerSrv, err := producerapp.New(producerapp.Config{
		Addr:              "127.0.0.1:0",
		DBPath:            filepath.Join(t.TempDir(), "journal.db"),
		StreamID:          "cart-events",
		EntityType:        "cart",
		PayloadTypes:      []string{typeURL},
		BehindCurrentTime: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new producer server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	producerDone := make(chan error, 1)
	go func() { producerDone <- producerSrv.Serve(ctx) }()

	if _, err := producerSrv.Journal().Append(ctx, "cart", "cart-1", journalsqlite.AppendRequest{
		Payload: &anypb.Any{TypeUrl: typeURL, Value: []byte("payload")},
	}); err != nil {
		t.Fatalf("append journal event: %v", err)
	}

	offsetsPath := filepath.Join(t.TempDir(), "offsets.db")
	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- Run(ctx, RuntimeConfig{
			Addr:                     "127.0.0.1:0",
			ProducerAddr:             producerSrv.Addr(),
			StreamID:                 "cart-events",
			ProjectionName:           "cart-events",
			Instances:                2,
			DBPath:                   offsetsPath,
			RestartBackoffMin:        20 * time.Millisecond,
			RestartBackoffMax:        100 * time.Millisecond,
			SaveOffsetAfterEnvelopes: 1,
			GRPCDialTimeout:          10 * time.Second,
		})
	}()

	// The worker owning the entity's slice commits its offset; observe
	// it directly in the durable store.
	waitForSeenEntry(t, offsetsPath, "cart-1", 1)

	cancel()
	waitForShutdown(t, "consumer", consumerDone)
	waitForShutdown(t, "producer", producerDone)
}

func waitForSeenEntry(t *testing.T, dbPath, persistenceID string, wantSeqNr int64) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open offsets db: %v", err)
	}
	defer db.Close()

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		var seqNr int64
		err := db.QueryRow(`
SELECT seq_nr FROM projection_offset_seen WHERE persistence_id = ?
`, persistenceID).Scan(&seqNr)
		if err == nil {
			if seqNr != wantSeqNr {
				t.Fatalf("committed seq nr = %d, want %d", seqNr, wantSeqNr)
			}
			return
		}
		// The table appears once the consumer's migrations ran; rows
		// once the projection committed.
		if !errors.Is(err, sql.ErrNoRows) {
			time.Sleep(50 * time.Millisecond)
			continue
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("no committed offset for %s before deadline", persistenceID)
}

func waitForShutdown(t *testing.T, name string, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("%s shutdown: %v", name, err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("%s did not shut down", name)
	}
}
