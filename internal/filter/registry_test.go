package filter

import (
	"fmt"
	"testing"

	"github.com/louisbranch/eventwire/internal/journal"
)

func TestRegistryUpdateAndSnapshot(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Update("cart", []Criteria{ExcludeTags{Tags: []string{"small"}}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	set := reg.Snapshot("cart")
	if !set.Suppressed(journal.Envelope{PersistenceID: "a", Tags: []string{"small"}}) {
		t.Fatal("snapshot should carry the update")
	}
	// Other streams are unaffected.
	if reg.Snapshot("other").Suppressed(journal.Envelope{PersistenceID: "a", Tags: []string{"small"}}) {
		t.Fatal("updates must be scoped per stream id")
	}
}

func TestRegistrySnapshotImmutable(t *testing.T) {
	reg := NewRegistry()
	before := reg.Snapshot("cart")
	if err := reg.Update("cart", []Criteria{ExcludeTags{Tags: []string{"small"}}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if before.Suppressed(journal.Envelope{Tags: []string{"small"}}) {
		t.Fatal("existing snapshots must not observe later updates")
	}
}

func TestRegistrySubscribeNotifies(t *testing.T) {
	reg := NewRegistry()
	ch, cancel := reg.Subscribe("cart")
	defer cancel()

	if err := reg.Update("cart", []Criteria{ExcludeTags{Tags: []string{"small"}}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	select {
	case <-ch:
	default:
		t.Fatal("subscriber should be notified of the update")
	}

	cancel()
	if err := reg.Update("cart", []Criteria{RemoveExcludeTags{Tags: []string{"small"}}}); err != nil {
		t.Fatalf("update after cancel: %v", err)
	}
}

func TestRegistryRejectsInvalidUpdate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Update("cart", []Criteria{ExcludeRegexEntityIDs{Patterns: []string{"("}}}); err == nil {
		t.Fatal("invalid pattern should fail the update")
	}
	// A failed update leaves the filter untouched.
	if reg.Snapshot("cart").Size() != 0 {
		t.Fatal("failed update must not change the set")
	}
}

func TestRegistryCriteriaCap(t *testing.T) {
	reg := NewRegistry()
	ids := make([]string, MaxCriteria)
	for i := range ids {
		ids[i] = fmt.Sprintf("pid-%d", i)
	}
	if err := reg.Update("cart", []Criteria{ExcludeEntityIDs{EntityIDs: ids}}); err != nil {
		t.Fatalf("update at cap: %v", err)
	}
	if err := reg.Update("cart", []Criteria{ExcludeEntityIDs{EntityIDs: []string{"one-too-many"}}}); err == nil {
		t.Fatal("exceeding the criteria cap should fail")
	}
}
