package filter

import (
	"fmt"

	replicationv1 "github.com/louisbranch/eventwire/api/replication/v1"
)

// FromProto converts wire filter criteria to the domain model.
func FromProto(criteria []*replicationv1.FilterCriteria) ([]Criteria, error) {
	out := make([]Criteria, 0, len(criteria))
	for _, c := range criteria {
		if c == nil {
			continue
		}
		switch m := c.GetMessage().(type) {
		case *replicationv1.FilterCriteria_ExcludeTags:
			out = append(out, ExcludeTags{Tags: m.ExcludeTags.GetTags()})
		case *replicationv1.FilterCriteria_RemoveExcludeTags:
			out = append(out, RemoveExcludeTags{Tags: m.RemoveExcludeTags.GetTags()})
		case *replicationv1.FilterCriteria_IncludeTags:
			out = append(out, IncludeTags{Tags: m.IncludeTags.GetTags()})
		case *replicationv1.FilterCriteria_RemoveIncludeTags:
			out = append(out, RemoveIncludeTags{Tags: m.RemoveIncludeTags.GetTags()})
		case *replicationv1.FilterCriteria_ExcludeEntityIds:
			out = append(out, ExcludeEntityIDs{EntityIDs: m.ExcludeEntityIds.GetEntityIds()})
		case *replicationv1.FilterCriteria_RemoveExcludeEntityIds:
			out = append(out, RemoveExcludeEntityIDs{EntityIDs: m.RemoveExcludeEntityIds.GetEntityIds()})
		case *replicationv1.FilterCriteria_IncludeEntityIds:
			offsets := make([]EntityIDOffset, 0, len(m.IncludeEntityIds.GetEntityIdOffsets()))
			for _, off := range m.IncludeEntityIds.GetEntityIdOffsets() {
				offsets = append(offsets, EntityIDOffset{EntityID: off.GetEntityId(), SeqNr: off.GetSeqNr()})
			}
			out = append(out, IncludeEntityIDs{EntityIDOffsets: offsets})
		case *replicationv1.FilterCriteria_RemoveIncludeEntityIds:
			out = append(out, RemoveIncludeEntityIDs{EntityIDs: m.RemoveIncludeEntityIds.GetEntityIds()})
		case *replicationv1.FilterCriteria_ExcludeMatchingEntityIds:
			out = append(out, ExcludeRegexEntityIDs{Patterns: m.ExcludeMatchingEntityIds.GetMatching()})
		case *replicationv1.FilterCriteria_RemoveExcludeMatchingEntityIds:
			out = append(out, RemoveExcludeRegexEntityIDs{Patterns: m.RemoveExcludeMatchingEntityIds.GetMatching()})
		case *replicationv1.FilterCriteria_IncludeMatchingEntityIds:
			out = append(out, IncludeRegexEntityIDs{Patterns: m.IncludeMatchingEntityIds.GetMatching()})
		case *replicationv1.FilterCriteria_RemoveIncludeMatchingEntityIds:
			out = append(out, RemoveIncludeRegexEntityIDs{Patterns: m.RemoveIncludeMatchingEntityIds.GetMatching()})
		default:
			return nil, fmt.Errorf("unknown filter criteria message %T", m)
		}
	}
	return out, nil
}

// ToProto converts domain criteria to the wire representation.
func ToProto(criteria []Criteria) ([]*replicationv1.FilterCriteria, error) {
	out := make([]*replicationv1.FilterCriteria, 0, len(criteria))
	for _, c := range criteria {
		switch c := c.(type) {
		case ExcludeTags:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_ExcludeTags{
				ExcludeTags: &replicationv1.ExcludeTags{Tags: c.Tags},
			}})
		case RemoveExcludeTags:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_RemoveExcludeTags{
				RemoveExcludeTags: &replicationv1.RemoveExcludeTags{Tags: c.Tags},
			}})
		case IncludeTags:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_IncludeTags{
				IncludeTags: &replicationv1.IncludeTags{Tags: c.Tags},
			}})
		case RemoveIncludeTags:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_RemoveIncludeTags{
				RemoveIncludeTags: &replicationv1.RemoveIncludeTags{Tags: c.Tags},
			}})
		case ExcludeEntityIDs:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_ExcludeEntityIds{
				ExcludeEntityIds: &replicationv1.ExcludeEntityIds{EntityIds: c.EntityIDs},
			}})
		case RemoveExcludeEntityIDs:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_RemoveExcludeEntityIds{
				RemoveExcludeEntityIds: &replicationv1.RemoveExcludeEntityIds{EntityIds: c.EntityIDs},
			}})
		case IncludeEntityIDs:
			offsets := make([]*replicationv1.EntityIdOffset, 0, len(c.EntityIDOffsets))
			for _, off := range c.EntityIDOffsets {
				offsets = append(offsets, &replicationv1.EntityIdOffset{EntityId: off.EntityID, SeqNr: off.SeqNr})
			}
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_IncludeEntityIds{
				IncludeEntityIds: &replicationv1.IncludeEntityIds{EntityIdOffsets: offsets},
			}})
		case RemoveIncludeEntityIDs:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_RemoveIncludeEntityIds{
				RemoveIncludeEntityIds: &replicationv1.RemoveIncludeEntityIds{EntityIds: c.EntityIDs},
			}})
		case ExcludeRegexEntityIDs:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_ExcludeMatchingEntityIds{
				ExcludeMatchingEntityIds: &replicationv1.ExcludeRegexEntityIds{Matching: c.Patterns},
			}})
		case RemoveExcludeRegexEntityIDs:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_RemoveExcludeMatchingEntityIds{
				RemoveExcludeMatchingEntityIds: &replicationv1.RemoveExcludeRegexEntityIds{Matching: c.Patterns},
			}})
		case IncludeRegexEntityIDs:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_IncludeMatchingEntityIds{
				IncludeMatchingEntityIds: &replicationv1.IncludeRegexEntityIds{Matching: c.Patterns},
			}})
		case RemoveIncludeRegexEntityIDs:
			out = append(out, &replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_RemoveIncludeMatchingEntityIds{
				RemoveIncludeMatchingEntityIds: &replicationv1.RemoveIncludeRegexEntityIds{Matching: c.Patterns},
			}})
		default:
			return nil, fmt.Errorf("unknown filter criteria %T", c)
		}
	}
	return out, nil
}
