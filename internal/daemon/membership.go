package daemon

import (
	"fmt"
	"sync"
)

// Membership reports which nodes participate in worker placement. The
// cluster runtime feeds it; a single-process deployment uses Static.
type Membership interface {
	// SelfID identifies this node.
	SelfID() string
	// Snapshot lists the current member node ids.
	Snapshot() []string
	// Changes delivers a new member list on every membership change.
	Changes() <-chan []string
}

// Static is an in-process membership with an updatable member list. It
// serves single-node deployments and tests; rebalances triggered through
// Update exercise the same handoff path a cluster runtime would.
type Static struct {
	self string

	mu      sync.Mutex
	members []string
	changes chan []string
}

// NewStatic creates a membership for self among members.
func NewStatic(self string, members ...string) (*Static, error) {
	if self == "" {
		return nil, fmt.Errorf("self node id is required")
	}
	if len(members) == 0 {
		members = []string{self}
	}
	found := false
	for _, m := range members {
		if m == self {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("self %q must be a member", self)
	}
	return &Static{
		self:    self,
		members: append([]string{}, members...),
		changes: make(chan []string, 1),
	}, nil
}

// SelfID implements Membership.
func (s *Static) SelfID() string {
	return s.self
}

// Snapshot implements Membership.
func (s *Static) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.members...)
}

// Changes implements Membership.
func (s *Static) Changes() <-chan []string {
	return s.changes
}

// Update replaces the member list and notifies the subscriber. A stale
// unread notification is replaced by the newest list.
func (s *Static) Update(members []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = append([]string{}, members...)
	snapshot := append([]string{}, s.members...)

	// Drop a stale unread notification; with the lock held the buffered
	// send below cannot block.
	select {
	case <-s.changes:
	default:
	}
	s.changes <- snapshot
}
