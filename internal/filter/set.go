package filter

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/louisbranch/eventwire/internal/journal"
)

// Set is the accumulated filter state of one stream. A Set is built by
// applying criteria in order and is immutable afterwards, so streams may
// evaluate a snapshot without locking.
type Set struct {
	excludeTags  map[string]struct{}
	includeTags  map[string]struct{}
	excludePids  map[string]struct{}
	includePids  map[string]int64
	excludeRegex map[string]*regexp.Regexp
	includeRegex map[string]*regexp.Regexp
}

// NewSet returns an empty filter set that passes every envelope.
func NewSet() *Set {
	return &Set{
		excludeTags:  map[string]struct{}{},
		includeTags:  map[string]struct{}{},
		excludePids:  map[string]struct{}{},
		includePids:  map[string]int64{},
		excludeRegex: map[string]*regexp.Regexp{},
		includeRegex: map[string]*regexp.Regexp{},
	}
}

func (s *Set) clone() *Set {
	next := NewSet()
	for k := range s.excludeTags {
		next.excludeTags[k] = struct{}{}
	}
	for k := range s.includeTags {
		next.includeTags[k] = struct{}{}
	}
	for k := range s.excludePids {
		next.excludePids[k] = struct{}{}
	}
	for k, v := range s.includePids {
		next.includePids[k] = v
	}
	for k, v := range s.excludeRegex {
		next.excludeRegex[k] = v
	}
	for k, v := range s.includeRegex {
		next.includeRegex[k] = v
	}
	return next
}

// Apply returns a new Set with the criteria applied in order. Adding an
// already-present value and removing an absent one are no-ops.
func (s *Set) Apply(criteria []Criteria) (*Set, error) {
	next := s.clone()
	for _, c := range criteria {
		switch c := c.(type) {
		case ExcludeTags:
			for _, tag := range c.Tags {
				next.excludeTags[tag] = struct{}{}
			}
		case RemoveExcludeTags:
			for _, tag := range c.Tags {
				delete(next.excludeTags, tag)
			}
		case IncludeTags:
			for _, tag := range c.Tags {
				next.includeTags[tag] = struct{}{}
			}
		case RemoveIncludeTags:
			for _, tag := range c.Tags {
				delete(next.includeTags, tag)
			}
		case ExcludeEntityIDs:
			for _, pid := range c.EntityIDs {
				next.excludePids[pid] = struct{}{}
			}
		case RemoveExcludeEntityIDs:
			for _, pid := range c.EntityIDs {
				delete(next.excludePids, pid)
			}
		case IncludeEntityIDs:
			for _, off := range c.EntityIDOffsets {
				next.includePids[off.EntityID] = off.SeqNr
			}
		case RemoveIncludeEntityIDs:
			for _, pid := range c.EntityIDs {
				delete(next.includePids, pid)
			}
		case ExcludeRegexEntityIDs:
			for _, pattern := range c.Patterns {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
				}
				next.excludeRegex[pattern] = re
			}
		case RemoveExcludeRegexEntityIDs:
			for _, pattern := range c.Patterns {
				delete(next.excludeRegex, pattern)
			}
		case IncludeRegexEntityIDs:
			for _, pattern := range c.Patterns {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return nil, fmt.Errorf("compile include pattern %q: %w", pattern, err)
				}
				next.includeRegex[pattern] = re
			}
		case RemoveIncludeRegexEntityIDs:
			for _, pattern := range c.Patterns {
				delete(next.includeRegex, pattern)
			}
		default:
			return nil, fmt.Errorf("unknown filter criteria %T", c)
		}
	}
	return next, nil
}

// Criteria exports the set as canonical add criteria, sorted per kind.
// Applying the result to an empty set reproduces the same decisions;
// consumers use it to re-establish their filter on reconnect.
func (s *Set) Criteria() []Criteria {
	var out []Criteria
	if len(s.excludeTags) > 0 {
		out = append(out, ExcludeTags{Tags: slices.Sorted(maps.Keys(s.excludeTags))})
	}
	if len(s.includeTags) > 0 {
		out = append(out, IncludeTags{Tags: slices.Sorted(maps.Keys(s.includeTags))})
	}
	if len(s.excludePids) > 0 {
		out = append(out, ExcludeEntityIDs{EntityIDs: slices.Sorted(maps.Keys(s.excludePids))})
	}
	if len(s.includePids) > 0 {
		offsets := make([]EntityIDOffset, 0, len(s.includePids))
		for _, pid := range slices.Sorted(maps.Keys(s.includePids)) {
			offsets = append(offsets, EntityIDOffset{EntityID: pid, SeqNr: s.includePids[pid]})
		}
		out = append(out, IncludeEntityIDs{EntityIDOffsets: offsets})
	}
	if len(s.excludeRegex) > 0 {
		out = append(out, ExcludeRegexEntityIDs{Patterns: slices.Sorted(maps.Keys(s.excludeRegex))})
	}
	if len(s.includeRegex) > 0 {
		out = append(out, IncludeRegexEntityIDs{Patterns: slices.Sorted(maps.Keys(s.includeRegex))})
	}
	return out
}

// Size is the number of stored filter values across all kinds.
func (s *Set) Size() int {
	return len(s.excludeTags) + len(s.includeTags) +
		len(s.excludePids) + len(s.includePids) +
		len(s.excludeRegex) + len(s.includeRegex)
}

// Suppressed decides the envelope's fate: an envelope is suppressed when
// some exclude criterion matches and no include criterion re-includes it.
func (s *Set) Suppressed(env journal.Envelope) bool {
	if !s.excluded(env) {
		return false
	}
	return !s.included(env)
}

func (s *Set) excluded(env journal.Envelope) bool {
	for _, tag := range env.Tags {
		if _, ok := s.excludeTags[tag]; ok {
			return true
		}
	}
	if _, ok := s.excludePids[env.PersistenceID]; ok {
		return true
	}
	for _, re := range s.excludeRegex {
		if re.MatchString(env.PersistenceID) {
			return true
		}
	}
	return false
}

func (s *Set) included(env journal.Envelope) bool {
	for _, tag := range env.Tags {
		if _, ok := s.includeTags[tag]; ok {
			return true
		}
	}
	if _, ok := s.includePids[env.PersistenceID]; ok {
		return true
	}
	for _, re := range s.includeRegex {
		if re.MatchString(env.PersistenceID) {
			return true
		}
	}
	return false
}
