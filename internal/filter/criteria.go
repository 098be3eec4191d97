// Package filter models the dynamic consumer filter of a replication
// stream: tagged criteria, their evaluation against envelopes, and the
// shared per-stream registry consumers update at runtime.
package filter

// Criteria is one tagged filter rule: an add or a remove of an exclude
// or include condition. Removes operate by value equality on the
// original add.
type Criteria interface {
	isCriteria()
}

// ExcludeTags suppresses events carrying any of the tags.
type ExcludeTags struct {
	Tags []string
}

// RemoveExcludeTags removes previously excluded tags.
type RemoveExcludeTags struct {
	Tags []string
}

// IncludeTags re-includes excluded events carrying any of the tags.
type IncludeTags struct {
	Tags []string
}

// RemoveIncludeTags removes previously included tags.
type RemoveIncludeTags struct {
	Tags []string
}

// ExcludeEntityIDs suppresses the listed entities.
type ExcludeEntityIDs struct {
	EntityIDs []string
}

// RemoveExcludeEntityIDs removes previously excluded entity ids.
type RemoveExcludeEntityIDs struct {
	EntityIDs []string
}

// EntityIDOffset names one entity with an optional replay floor; a
// SeqNr greater than zero asks the producer to replay the entity from
// that seq nr.
type EntityIDOffset struct {
	EntityID string
	SeqNr    int64
}

// IncludeEntityIDs re-includes the listed entities.
type IncludeEntityIDs struct {
	EntityIDOffsets []EntityIDOffset
}

// RemoveIncludeEntityIDs removes previously included entity ids.
type RemoveIncludeEntityIDs struct {
	EntityIDs []string
}

// ExcludeRegexEntityIDs suppresses entities whose id matches any pattern.
type ExcludeRegexEntityIDs struct {
	Patterns []string
}

// RemoveExcludeRegexEntityIDs removes previously excluded patterns.
type RemoveExcludeRegexEntityIDs struct {
	Patterns []string
}

// IncludeRegexEntityIDs re-includes entities whose id matches any pattern.
type IncludeRegexEntityIDs struct {
	Patterns []string
}

// RemoveIncludeRegexEntityIDs removes previously included patterns.
type RemoveIncludeRegexEntityIDs struct {
	Patterns []string
}

func (ExcludeTags) isCriteria()                 {}
func (RemoveExcludeTags) isCriteria()           {}
func (IncludeTags) isCriteria()                 {}
func (RemoveIncludeTags) isCriteria()           {}
func (ExcludeEntityIDs) isCriteria()            {}
func (RemoveExcludeEntityIDs) isCriteria()      {}
func (IncludeEntityIDs) isCriteria()            {}
func (RemoveIncludeEntityIDs) isCriteria()      {}
func (ExcludeRegexEntityIDs) isCriteria()       {}
func (RemoveExcludeRegexEntityIDs) isCriteria() {}
func (IncludeRegexEntityIDs) isCriteria()       {}
func (RemoveIncludeRegexEntityIDs) isCriteria() {}
