package replicationv1

import (
	"google.golang.org/protobuf/runtime/protoimpl"
	anypb "google.golang.org/protobuf/types/known/anypb"
	timestamppb "google.golang.org/protobuf/types/known/timestamppb"
)

// StreamIn is one client-to-producer message on a replication stream.
type StreamIn struct {
	// Types that are valid to be assigned to Message:
	//	*StreamIn_Init
	//	*StreamIn_Filter
	//	*StreamIn_Replay
	Message isStreamIn_Message `protobuf_oneof:"message"`
}

func (m *StreamIn) Reset()         { *m = StreamIn{} }
func (m *StreamIn) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*StreamIn) ProtoMessage()    {}

type isStreamIn_Message interface {
	isStreamIn_Message()
}

type StreamIn_Init struct {
	Init *Init `protobuf:"bytes,1,opt,name=init,proto3,oneof"`
}

type StreamIn_Filter struct {
	Filter *FilterReq `protobuf:"bytes,2,opt,name=filter,proto3,oneof"`
}

type StreamIn_Replay struct {
	Replay *ReplayReq `protobuf:"bytes,3,opt,name=replay,proto3,oneof"`
}

func (*StreamIn_Init) isStreamIn_Message()   {}
func (*StreamIn_Filter) isStreamIn_Message() {}
func (*StreamIn_Replay) isStreamIn_Message() {}

func (m *StreamIn) GetMessage() isStreamIn_Message {
	if m != nil {
		return m.Message
	}
	return nil
}

func (m *StreamIn) GetInit() *Init {
	if x, ok := m.GetMessage().(*StreamIn_Init); ok {
		return x.Init
	}
	return nil
}

func (m *StreamIn) GetFilter() *FilterReq {
	if x, ok := m.GetMessage().(*StreamIn_Filter); ok {
		return x.Filter
	}
	return nil
}

func (m *StreamIn) GetReplay() *ReplayReq {
	if x, ok := m.GetMessage().(*StreamIn_Replay); ok {
		return x.Replay
	}
	return nil
}

// XXX_OneofWrappers is for the internal use of the proto package.
func (*StreamIn) XXX_OneofWrappers() []any {
	return []any{
		(*StreamIn_Init)(nil),
		(*StreamIn_Filter)(nil),
		(*StreamIn_Replay)(nil),
	}
}

// Init is the mandatory first client message on a replication stream.
type Init struct {
	StreamId string `protobuf:"bytes,1,opt,name=stream_id,json=streamId,proto3" json:"stream_id,omitempty"`
	SliceMin int32  `protobuf:"varint,2,opt,name=slice_min,json=sliceMin,proto3" json:"slice_min,omitempty"`
	SliceMax int32  `protobuf:"varint,3,opt,name=slice_max,json=sliceMax,proto3" json:"slice_max,omitempty"`
	// Absent offset means from the beginning of the journal.
	Offset *Offset           `protobuf:"bytes,4,opt,name=offset,proto3" json:"offset,omitempty"`
	Filter []*FilterCriteria `protobuf:"bytes,5,rep,name=filter,proto3" json:"filter,omitempty"`
}

func (m *Init) Reset()         { *m = Init{} }
func (m *Init) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*Init) ProtoMessage()    {}

func (m *Init) GetStreamId() string {
	if m != nil {
		return m.StreamId
	}
	return ""
}

func (m *Init) GetSliceMin() int32 {
	if m != nil {
		return m.SliceMin
	}
	return 0
}

func (m *Init) GetSliceMax() int32 {
	if m != nil {
		return m.SliceMax
	}
	return 0
}

func (m *Init) GetOffset() *Offset {
	if m != nil {
		return m.Offset
	}
	return nil
}

func (m *Init) GetFilter() []*FilterCriteria {
	if m != nil {
		return m.Filter
	}
	return nil
}

// FilterReq incrementally updates the stream's consumer filter.
type FilterReq struct {
	Criteria []*FilterCriteria `protobuf:"bytes,1,rep,name=criteria,proto3" json:"criteria,omitempty"`
}

func (m *FilterReq) Reset()         { *m = FilterReq{} }
func (m *FilterReq) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*FilterReq) ProtoMessage()    {}

func (m *FilterReq) GetCriteria() []*FilterCriteria {
	if m != nil {
		return m.Criteria
	}
	return nil
}

// ReplayReq requests replay of specific entities from a seq_nr floor.
type ReplayReq struct {
	PersistenceIdOffsets []*PersistenceIdSeqNr `protobuf:"bytes,1,rep,name=persistence_id_offsets,json=persistenceIdOffsets,proto3" json:"persistence_id_offsets,omitempty"`
}

func (m *ReplayReq) Reset()         { *m = ReplayReq{} }
func (m *ReplayReq) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*ReplayReq) ProtoMessage()    {}

func (m *ReplayReq) GetPersistenceIdOffsets() []*PersistenceIdSeqNr {
	if m != nil {
		return m.PersistenceIdOffsets
	}
	return nil
}

// StreamOut is one producer-to-client message on a replication stream.
type StreamOut struct {
	// Types that are valid to be assigned to Message:
	//	*StreamOut_Event
	//	*StreamOut_FilteredEvent
	Message isStreamOut_Message `protobuf_oneof:"message"`
}

func (m *StreamOut) Reset()         { *m = StreamOut{} }
func (m *StreamOut) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*StreamOut) ProtoMessage()    {}

type isStreamOut_Message interface {
	isStreamOut_Message()
}

type StreamOut_Event struct {
	Event *Event `protobuf:"bytes,1,opt,name=event,proto3,oneof"`
}

type StreamOut_FilteredEvent struct {
	FilteredEvent *FilteredEvent `protobuf:"bytes,2,opt,name=filtered_event,json=filteredEvent,proto3,oneof"`
}

func (*StreamOut_Event) isStreamOut_Message()         {}
func (*StreamOut_FilteredEvent) isStreamOut_Message() {}

func (m *StreamOut) GetMessage() isStreamOut_Message {
	if m != nil {
		return m.Message
	}
	return nil
}

func (m *StreamOut) GetEvent() *Event {
	if x, ok := m.GetMessage().(*StreamOut_Event); ok {
		return x.Event
	}
	return nil
}

func (m *StreamOut) GetFilteredEvent() *FilteredEvent {
	if x, ok := m.GetMessage().(*StreamOut_FilteredEvent); ok {
		return x.FilteredEvent
	}
	return nil
}

// XXX_OneofWrappers is for the internal use of the proto package.
func (*StreamOut) XXX_OneofWrappers() []any {
	return []any{
		(*StreamOut_Event)(nil),
		(*StreamOut_FilteredEvent)(nil),
	}
}

// Event carries one journaled event with its addressing metadata.
type Event struct {
	PersistenceId string     `protobuf:"bytes,1,opt,name=persistence_id,json=persistenceId,proto3" json:"persistence_id,omitempty"`
	SeqNr         int64      `protobuf:"varint,2,opt,name=seq_nr,json=seqNr,proto3" json:"seq_nr,omitempty"`
	Slice         int32      `protobuf:"varint,3,opt,name=slice,proto3" json:"slice,omitempty"`
	Offset        *Offset    `protobuf:"bytes,4,opt,name=offset,proto3" json:"offset,omitempty"`
	Payload       *anypb.Any `protobuf:"bytes,5,opt,name=payload,proto3" json:"payload,omitempty"`
	Source        string     `protobuf:"bytes,6,opt,name=source,proto3" json:"source,omitempty"`
	Metadata      *anypb.Any `protobuf:"bytes,7,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Tags          []string   `protobuf:"bytes,8,rep,name=tags,proto3" json:"tags,omitempty"`
}

func (m *Event) Reset()         { *m = Event{} }
func (m *Event) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*Event) ProtoMessage()    {}

func (m *Event) GetPersistenceId() string {
	if m != nil {
		return m.PersistenceId
	}
	return ""
}

func (m *Event) GetSeqNr() int64 {
	if m != nil {
		return m.SeqNr
	}
	return 0
}

func (m *Event) GetSlice() int32 {
	if m != nil {
		return m.Slice
	}
	return 0
}

func (m *Event) GetOffset() *Offset {
	if m != nil {
		return m.Offset
	}
	return nil
}

func (m *Event) GetPayload() *anypb.Any {
	if m != nil {
		return m.Payload
	}
	return nil
}

func (m *Event) GetSource() string {
	if m != nil {
		return m.Source
	}
	return ""
}

func (m *Event) GetMetadata() *anypb.Any {
	if m != nil {
		return m.Metadata
	}
	return nil
}

func (m *Event) GetTags() []string {
	if m != nil {
		return m.Tags
	}
	return nil
}

// FilteredEvent preserves (persistence_id, seq_nr) continuity for
// events suppressed by the consumer filter.
type FilteredEvent struct {
	PersistenceId string  `protobuf:"bytes,1,opt,name=persistence_id,json=persistenceId,proto3" json:"persistence_id,omitempty"`
	SeqNr         int64   `protobuf:"varint,2,opt,name=seq_nr,json=seqNr,proto3" json:"seq_nr,omitempty"`
	Slice         int32   `protobuf:"varint,3,opt,name=slice,proto3" json:"slice,omitempty"`
	Offset        *Offset `protobuf:"bytes,4,opt,name=offset,proto3" json:"offset,omitempty"`
	Source        string  `protobuf:"bytes,5,opt,name=source,proto3" json:"source,omitempty"`
}

func (m *FilteredEvent) Reset()         { *m = FilteredEvent{} }
func (m *FilteredEvent) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*FilteredEvent) ProtoMessage()    {}

func (m *FilteredEvent) GetPersistenceId() string {
	if m != nil {
		return m.PersistenceId
	}
	return ""
}

func (m *FilteredEvent) GetSeqNr() int64 {
	if m != nil {
		return m.SeqNr
	}
	return 0
}

func (m *FilteredEvent) GetSlice() int32 {
	if m != nil {
		return m.Slice
	}
	return 0
}

func (m *FilteredEvent) GetOffset() *Offset {
	if m != nil {
		return m.Offset
	}
	return nil
}

func (m *FilteredEvent) GetSource() string {
	if m != nil {
		return m.Source
	}
	return ""
}

// Offset is the durable stream cursor: a timestamp plus the entities
// already delivered at exactly that timestamp.
type Offset struct {
	Timestamp *timestamppb.Timestamp `protobuf:"bytes,1,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Seen      []*PersistenceIdSeqNr  `protobuf:"bytes,2,rep,name=seen,proto3" json:"seen,omitempty"`
}

func (m *Offset) Reset()         { *m = Offset{} }
func (m *Offset) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*Offset) ProtoMessage()    {}

func (m *Offset) GetTimestamp() *timestamppb.Timestamp {
	if m != nil {
		return m.Timestamp
	}
	return nil
}

func (m *Offset) GetSeen() []*PersistenceIdSeqNr {
	if m != nil {
		return m.Seen
	}
	return nil
}

// PersistenceIdSeqNr addresses one event of one entity.
type PersistenceIdSeqNr struct {
	PersistenceId string `protobuf:"bytes,1,opt,name=persistence_id,json=persistenceId,proto3" json:"persistence_id,omitempty"`
	SeqNr         int64  `protobuf:"varint,2,opt,name=seq_nr,json=seqNr,proto3" json:"seq_nr,omitempty"`
}

func (m *PersistenceIdSeqNr) Reset() { *m = PersistenceIdSeqNr{} }
func (m *PersistenceIdSeqNr) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*PersistenceIdSeqNr) ProtoMessage() {}

func (m *PersistenceIdSeqNr) GetPersistenceId() string {
	if m != nil {
		return m.PersistenceId
	}
	return ""
}

func (m *PersistenceIdSeqNr) GetSeqNr() int64 {
	if m != nil {
		return m.SeqNr
	}
	return 0
}

// FilterCriteria is one tagged add or remove of a filter rule.
type FilterCriteria struct {
	// Types that are valid to be assigned to Message:
	//	*FilterCriteria_ExcludeTags
	//	*FilterCriteria_RemoveExcludeTags
	//	*FilterCriteria_IncludeTags
	//	*FilterCriteria_RemoveIncludeTags
	//	*FilterCriteria_ExcludeMatchingEntityIds
	//	*FilterCriteria_RemoveExcludeMatchingEntityIds
	//	*FilterCriteria_IncludeMatchingEntityIds
	//	*FilterCriteria_RemoveIncludeMatchingEntityIds
	//	*FilterCriteria_ExcludeEntityIds
	//	*FilterCriteria_RemoveExcludeEntityIds
	//	*FilterCriteria_IncludeEntityIds
	//	*FilterCriteria_RemoveIncludeEntityIds
	Message isFilterCriteria_Message `protobuf_oneof:"message"`
}

func (m *FilterCriteria) Reset()         { *m = FilterCriteria{} }
func (m *FilterCriteria) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*FilterCriteria) ProtoMessage()    {}

type isFilterCriteria_Message interface {
	isFilterCriteria_Message()
}

type FilterCriteria_ExcludeTags struct {
	ExcludeTags *ExcludeTags `protobuf:"bytes,1,opt,name=exclude_tags,json=excludeTags,proto3,oneof"`
}

type FilterCriteria_RemoveExcludeTags struct {
	RemoveExcludeTags *RemoveExcludeTags `protobuf:"bytes,2,opt,name=remove_exclude_tags,json=removeExcludeTags,proto3,oneof"`
}

type FilterCriteria_IncludeTags struct {
	IncludeTags *IncludeTags `protobuf:"bytes,3,opt,name=include_tags,json=includeTags,proto3,oneof"`
}

type FilterCriteria_RemoveIncludeTags struct {
	RemoveIncludeTags *RemoveIncludeTags `protobuf:"bytes,4,opt,name=remove_include_tags,json=removeIncludeTags,proto3,oneof"`
}

type FilterCriteria_ExcludeMatchingEntityIds struct {
	ExcludeMatchingEntityIds *ExcludeRegexEntityIds `protobuf:"bytes,5,opt,name=exclude_matching_entity_ids,json=excludeMatchingEntityIds,proto3,oneof"`
}

type FilterCriteria_RemoveExcludeMatchingEntityIds struct {
	RemoveExcludeMatchingEntityIds *RemoveExcludeRegexEntityIds `protobuf:"bytes,6,opt,name=remove_exclude_matching_entity_ids,json=removeExcludeMatchingEntityIds,proto3,oneof"`
}

type FilterCriteria_IncludeMatchingEntityIds struct {
	IncludeMatchingEntityIds *IncludeRegexEntityIds `protobuf:"bytes,7,opt,name=include_matching_entity_ids,json=includeMatchingEntityIds,proto3,oneof"`
}

type FilterCriteria_RemoveIncludeMatchingEntityIds struct {
	RemoveIncludeMatchingEntityIds *RemoveIncludeRegexEntityIds `protobuf:"bytes,8,opt,name=remove_include_matching_entity_ids,json=removeIncludeMatchingEntityIds,proto3,oneof"`
}

type FilterCriteria_ExcludeEntityIds struct {
	ExcludeEntityIds *ExcludeEntityIds `protobuf:"bytes,9,opt,name=exclude_entity_ids,json=excludeEntityIds,proto3,oneof"`
}

type FilterCriteria_RemoveExcludeEntityIds struct {
	RemoveExcludeEntityIds *RemoveExcludeEntityIds `protobuf:"bytes,10,opt,name=remove_exclude_entity_ids,json=removeExcludeEntityIds,proto3,oneof"`
}

type FilterCriteria_IncludeEntityIds struct {
	IncludeEntityIds *IncludeEntityIds `protobuf:"bytes,11,opt,name=include_entity_ids,json=includeEntityIds,proto3,oneof"`
}

type FilterCriteria_RemoveIncludeEntityIds struct {
	RemoveIncludeEntityIds *RemoveIncludeEntityIds `protobuf:"bytes,12,opt,name=remove_include_entity_ids,json=removeIncludeEntityIds,proto3,oneof"`
}

func (*FilterCriteria_ExcludeTags) isFilterCriteria_Message()                    {}
func (*FilterCriteria_RemoveExcludeTags) isFilterCriteria_Message()              {}
func (*FilterCriteria_IncludeTags) isFilterCriteria_Message()                    {}
func (*FilterCriteria_RemoveIncludeTags) isFilterCriteria_Message()              {}
func (*FilterCriteria_ExcludeMatchingEntityIds) isFilterCriteria_Message()       {}
func (*FilterCriteria_RemoveExcludeMatchingEntityIds) isFilterCriteria_Message() {}
func (*FilterCriteria_IncludeMatchingEntityIds) isFilterCriteria_Message()       {}
func (*FilterCriteria_RemoveIncludeMatchingEntityIds) isFilterCriteria_Message() {}
func (*FilterCriteria_ExcludeEntityIds) isFilterCriteria_Message()               {}
func (*FilterCriteria_RemoveExcludeEntityIds) isFilterCriteria_Message()         {}
func (*FilterCriteria_IncludeEntityIds) isFilterCriteria_Message()               {}
func (*FilterCriteria_RemoveIncludeEntityIds) isFilterCriteria_Message()         {}

func (m *FilterCriteria) GetMessage() isFilterCriteria_Message {
	if m != nil {
		return m.Message
	}
	return nil
}

func (m *FilterCriteria) GetExcludeTags() *ExcludeTags {
	if x, ok := m.GetMessage().(*FilterCriteria_ExcludeTags); ok {
		return x.ExcludeTags
	}
	return nil
}

func (m *FilterCriteria) GetRemoveExcludeTags() *RemoveExcludeTags {
	if x, ok := m.GetMessage().(*FilterCriteria_RemoveExcludeTags); ok {
		return x.RemoveExcludeTags
	}
	return nil
}

func (m *FilterCriteria) GetIncludeTags() *IncludeTags {
	if x, ok := m.GetMessage().(*FilterCriteria_IncludeTags); ok {
		return x.IncludeTags
	}
	return nil
}

func (m *FilterCriteria) GetRemoveIncludeTags() *RemoveIncludeTags {
	if x, ok := m.GetMessage().(*FilterCriteria_RemoveIncludeTags); ok {
		return x.RemoveIncludeTags
	}
	return nil
}

func (m *FilterCriteria) GetExcludeMatchingEntityIds() *ExcludeRegexEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_ExcludeMatchingEntityIds); ok {
		return x.ExcludeMatchingEntityIds
	}
	return nil
}

func (m *FilterCriteria) GetRemoveExcludeMatchingEntityIds() *RemoveExcludeRegexEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_RemoveExcludeMatchingEntityIds); ok {
		return x.RemoveExcludeMatchingEntityIds
	}
	return nil
}

func (m *FilterCriteria) GetIncludeMatchingEntityIds() *IncludeRegexEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_IncludeMatchingEntityIds); ok {
		return x.IncludeMatchingEntityIds
	}
	return nil
}

func (m *FilterCriteria) GetRemoveIncludeMatchingEntityIds() *RemoveIncludeRegexEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_RemoveIncludeMatchingEntityIds); ok {
		return x.RemoveIncludeMatchingEntityIds
	}
	return nil
}

func (m *FilterCriteria) GetExcludeEntityIds() *ExcludeEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_ExcludeEntityIds); ok {
		return x.ExcludeEntityIds
	}
	return nil
}

func (m *FilterCriteria) GetRemoveExcludeEntityIds() *RemoveExcludeEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_RemoveExcludeEntityIds); ok {
		return x.RemoveExcludeEntityIds
	}
	return nil
}

func (m *FilterCriteria) GetIncludeEntityIds() *IncludeEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_IncludeEntityIds); ok {
		return x.IncludeEntityIds
	}
	return nil
}

func (m *FilterCriteria) GetRemoveIncludeEntityIds() *RemoveIncludeEntityIds {
	if x, ok := m.GetMessage().(*FilterCriteria_RemoveIncludeEntityIds); ok {
		return x.RemoveIncludeEntityIds
	}
	return nil
}

// XXX_OneofWrappers is for the internal use of the proto package.
func (*FilterCriteria) XXX_OneofWrappers() []any {
	return []any{
		(*FilterCriteria_ExcludeTags)(nil),
		(*FilterCriteria_RemoveExcludeTags)(nil),
		(*FilterCriteria_IncludeTags)(nil),
		(*FilterCriteria_RemoveIncludeTags)(nil),
		(*FilterCriteria_ExcludeMatchingEntityIds)(nil),
		(*FilterCriteria_RemoveExcludeMatchingEntityIds)(nil),
		(*FilterCriteria_IncludeMatchingEntityIds)(nil),
		(*FilterCriteria_RemoveIncludeMatchingEntityIds)(nil),
		(*FilterCriteria_ExcludeEntityIds)(nil),
		(*FilterCriteria_RemoveExcludeEntityIds)(nil),
		(*FilterCriteria_IncludeEntityIds)(nil),
		(*FilterCriteria_RemoveIncludeEntityIds)(nil),
	}
}

// ExcludeTags suppresses events carrying any of the tags.
type ExcludeTags struct {
	Tags []string `protobuf:"bytes,1,rep,name=tags,proto3" json:"tags,omitempty"`
}

func (m *ExcludeTags) Reset()         { *m = ExcludeTags{} }
func (m *ExcludeTags) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*ExcludeTags) ProtoMessage()    {}

func (m *ExcludeTags) GetTags() []string {
	if m != nil {
		return m.Tags
	}
	return nil
}

// RemoveExcludeTags removes a previously added ExcludeTags criterion.
type RemoveExcludeTags struct {
	Tags []string `protobuf:"bytes,1,rep,name=tags,proto3" json:"tags,omitempty"`
}

func (m *RemoveExcludeTags) Reset() { *m = RemoveExcludeTags{} }
func (m *RemoveExcludeTags) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*RemoveExcludeTags) ProtoMessage() {}

func (m *RemoveExcludeTags) GetTags() []string {
	if m != nil {
		return m.Tags
	}
	return nil
}

// IncludeTags re-includes excluded events carrying any of the tags.
type IncludeTags struct {
	Tags []string `protobuf:"bytes,1,rep,name=tags,proto3" json:"tags,omitempty"`
}

func (m *IncludeTags) Reset()         { *m = IncludeTags{} }
func (m *IncludeTags) String() string { return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m)) }
func (*IncludeTags) ProtoMessage()    {}

func (m *IncludeTags) GetTags() []string {
	if m != nil {
		return m.Tags
	}
	return nil
}

// RemoveIncludeTags removes a previously added IncludeTags criterion.
type RemoveIncludeTags struct {
	Tags []string `protobuf:"bytes,1,rep,name=tags,proto3" json:"tags,omitempty"`
}

func (m *RemoveIncludeTags) Reset() { *m = RemoveIncludeTags{} }
func (m *RemoveIncludeTags) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*RemoveIncludeTags) ProtoMessage() {}

func (m *RemoveIncludeTags) GetTags() []string {
	if m != nil {
		return m.Tags
	}
	return nil
}

// ExcludeRegexEntityIds suppresses entities whose id matches any regex.
type ExcludeRegexEntityIds struct {
	Matching []string `protobuf:"bytes,1,rep,name=matching,proto3" json:"matching,omitempty"`
}

func (m *ExcludeRegexEntityIds) Reset() { *m = ExcludeRegexEntityIds{} }
func (m *ExcludeRegexEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*ExcludeRegexEntityIds) ProtoMessage() {}

func (m *ExcludeRegexEntityIds) GetMatching() []string {
	if m != nil {
		return m.Matching
	}
	return nil
}

// RemoveExcludeRegexEntityIds removes a previously added
// ExcludeRegexEntityIds criterion.
type RemoveExcludeRegexEntityIds struct {
	Matching []string `protobuf:"bytes,1,rep,name=matching,proto3" json:"matching,omitempty"`
}

func (m *RemoveExcludeRegexEntityIds) Reset() { *m = RemoveExcludeRegexEntityIds{} }
func (m *RemoveExcludeRegexEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*RemoveExcludeRegexEntityIds) ProtoMessage() {}

func (m *RemoveExcludeRegexEntityIds) GetMatching() []string {
	if m != nil {
		return m.Matching
	}
	return nil
}

// IncludeRegexEntityIds re-includes entities whose id matches any regex.
type IncludeRegexEntityIds struct {
	Matching []string `protobuf:"bytes,1,rep,name=matching,proto3" json:"matching,omitempty"`
}

func (m *IncludeRegexEntityIds) Reset() { *m = IncludeRegexEntityIds{} }
func (m *IncludeRegexEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*IncludeRegexEntityIds) ProtoMessage() {}

func (m *IncludeRegexEntityIds) GetMatching() []string {
	if m != nil {
		return m.Matching
	}
	return nil
}

// RemoveIncludeRegexEntityIds removes a previously added
// IncludeRegexEntityIds criterion.
type RemoveIncludeRegexEntityIds struct {
	Matching []string `protobuf:"bytes,1,rep,name=matching,proto3" json:"matching,omitempty"`
}

func (m *RemoveIncludeRegexEntityIds) Reset() { *m = RemoveIncludeRegexEntityIds{} }
func (m *RemoveIncludeRegexEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*RemoveIncludeRegexEntityIds) ProtoMessage() {}

func (m *RemoveIncludeRegexEntityIds) GetMatching() []string {
	if m != nil {
		return m.Matching
	}
	return nil
}

// ExcludeEntityIds suppresses the listed entities.
type ExcludeEntityIds struct {
	EntityIds []string `protobuf:"bytes,1,rep,name=entity_ids,json=entityIds,proto3" json:"entity_ids,omitempty"`
}

func (m *ExcludeEntityIds) Reset() { *m = ExcludeEntityIds{} }
func (m *ExcludeEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*ExcludeEntityIds) ProtoMessage() {}

func (m *ExcludeEntityIds) GetEntityIds() []string {
	if m != nil {
		return m.EntityIds
	}
	return nil
}

// RemoveExcludeEntityIds removes a previously added ExcludeEntityIds
// criterion.
type RemoveExcludeEntityIds struct {
	EntityIds []string `protobuf:"bytes,1,rep,name=entity_ids,json=entityIds,proto3" json:"entity_ids,omitempty"`
}

func (m *RemoveExcludeEntityIds) Reset() { *m = RemoveExcludeEntityIds{} }
func (m *RemoveExcludeEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*RemoveExcludeEntityIds) ProtoMessage() {}

func (m *RemoveExcludeEntityIds) GetEntityIds() []string {
	if m != nil {
		return m.EntityIds
	}
	return nil
}

// IncludeEntityIds re-includes the listed entities, optionally with a
// replay floor per entity.
type IncludeEntityIds struct {
	EntityIdOffsets []*EntityIdOffset `protobuf:"bytes,1,rep,name=entity_id_offsets,json=entityIdOffsets,proto3" json:"entity_id_offsets,omitempty"`
}

func (m *IncludeEntityIds) Reset() { *m = IncludeEntityIds{} }
func (m *IncludeEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*IncludeEntityIds) ProtoMessage() {}

func (m *IncludeEntityIds) GetEntityIdOffsets() []*EntityIdOffset {
	if m != nil {
		return m.EntityIdOffsets
	}
	return nil
}

// RemoveIncludeEntityIds removes a previously added IncludeEntityIds
// criterion.
type RemoveIncludeEntityIds struct {
	EntityIds []string `protobuf:"bytes,1,rep,name=entity_ids,json=entityIds,proto3" json:"entity_ids,omitempty"`
}

func (m *RemoveIncludeEntityIds) Reset() { *m = RemoveIncludeEntityIds{} }
func (m *RemoveIncludeEntityIds) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*RemoveIncludeEntityIds) ProtoMessage() {}

func (m *RemoveIncludeEntityIds) GetEntityIds() []string {
	if m != nil {
		return m.EntityIds
	}
	return nil
}

// EntityIdOffset optionally carries a replay floor: when SeqNr is
// greater than zero the producer replays the entity from that seq_nr.
type EntityIdOffset struct {
	EntityId string `protobuf:"bytes,1,opt,name=entity_id,json=entityId,proto3" json:"entity_id,omitempty"`
	SeqNr    int64  `protobuf:"varint,2,opt,name=seq_nr,json=seqNr,proto3" json:"seq_nr,omitempty"`
}

func (m *EntityIdOffset) Reset() { *m = EntityIdOffset{} }
func (m *EntityIdOffset) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*EntityIdOffset) ProtoMessage() {}

func (m *EntityIdOffset) GetEntityId() string {
	if m != nil {
		return m.EntityId
	}
	return ""
}

func (m *EntityIdOffset) GetSeqNr() int64 {
	if m != nil {
		return m.SeqNr
	}
	return 0
}

// EventTimestampRequest asks for the journal timestamp of one event.
type EventTimestampRequest struct {
	StreamId      string `protobuf:"bytes,1,opt,name=stream_id,json=streamId,proto3" json:"stream_id,omitempty"`
	PersistenceId string `protobuf:"bytes,2,opt,name=persistence_id,json=persistenceId,proto3" json:"persistence_id,omitempty"`
	SeqNr         int64  `protobuf:"varint,3,opt,name=seq_nr,json=seqNr,proto3" json:"seq_nr,omitempty"`
}

func (m *EventTimestampRequest) Reset() { *m = EventTimestampRequest{} }
func (m *EventTimestampRequest) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*EventTimestampRequest) ProtoMessage() {}

func (m *EventTimestampRequest) GetStreamId() string {
	if m != nil {
		return m.StreamId
	}
	return ""
}

func (m *EventTimestampRequest) GetPersistenceId() string {
	if m != nil {
		return m.PersistenceId
	}
	return ""
}

func (m *EventTimestampRequest) GetSeqNr() int64 {
	if m != nil {
		return m.SeqNr
	}
	return 0
}

// EventTimestampResponse carries the journal timestamp of one event.
type EventTimestampResponse struct {
	Timestamp *timestamppb.Timestamp `protobuf:"bytes,1,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *EventTimestampResponse) Reset() { *m = EventTimestampResponse{} }
func (m *EventTimestampResponse) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*EventTimestampResponse) ProtoMessage() {}

func (m *EventTimestampResponse) GetTimestamp() *timestamppb.Timestamp {
	if m != nil {
		return m.Timestamp
	}
	return nil
}

// LoadEventRequest asks for one specific event.
type LoadEventRequest struct {
	StreamId      string `protobuf:"bytes,1,opt,name=stream_id,json=streamId,proto3" json:"stream_id,omitempty"`
	PersistenceId string `protobuf:"bytes,2,opt,name=persistence_id,json=persistenceId,proto3" json:"persistence_id,omitempty"`
	SeqNr         int64  `protobuf:"varint,3,opt,name=seq_nr,json=seqNr,proto3" json:"seq_nr,omitempty"`
}

func (m *LoadEventRequest) Reset() { *m = LoadEventRequest{} }
func (m *LoadEventRequest) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*LoadEventRequest) ProtoMessage() {}

func (m *LoadEventRequest) GetStreamId() string {
	if m != nil {
		return m.StreamId
	}
	return ""
}

func (m *LoadEventRequest) GetPersistenceId() string {
	if m != nil {
		return m.PersistenceId
	}
	return ""
}

func (m *LoadEventRequest) GetSeqNr() int64 {
	if m != nil {
		return m.SeqNr
	}
	return 0
}

// LoadEventResponse carries the loaded event or its filtered placeholder.
type LoadEventResponse struct {
	// Types that are valid to be assigned to Message:
	//	*LoadEventResponse_Event
	//	*LoadEventResponse_FilteredEvent
	Message isLoadEventResponse_Message `protobuf_oneof:"message"`
}

func (m *LoadEventResponse) Reset() { *m = LoadEventResponse{} }
func (m *LoadEventResponse) String() string {
	return protoimpl.X.MessageStringOf(protoimpl.X.ProtoMessageV2Of(m))
}
func (*LoadEventResponse) ProtoMessage() {}

type isLoadEventResponse_Message interface {
	isLoadEventResponse_Message()
}

type LoadEventResponse_Event struct {
	Event *Event `protobuf:"bytes,1,opt,name=event,proto3,oneof"`
}

type LoadEventResponse_FilteredEvent struct {
	FilteredEvent *FilteredEvent `protobuf:"bytes,2,opt,name=filtered_event,json=filteredEvent,proto3,oneof"`
}

func (*LoadEventResponse_Event) isLoadEventResponse_Message()         {}
func (*LoadEventResponse_FilteredEvent) isLoadEventResponse_Message() {}

func (m *LoadEventResponse) GetMessage() isLoadEventResponse_Message {
	if m != nil {
		return m.Message
	}
	return nil
}

func (m *LoadEventResponse) GetEvent() *Event {
	if x, ok := m.GetMessage().(*LoadEventResponse_Event); ok {
		return x.Event
	}
	return nil
}

func (m *LoadEventResponse) GetFilteredEvent() *FilteredEvent {
	if x, ok := m.GetMessage().(*LoadEventResponse_FilteredEvent); ok {
		return x.FilteredEvent
	}
	return nil
}

// XXX_OneofWrappers is for the internal use of the proto package.
func (*LoadEventResponse) XXX_OneofWrappers() []any {
	return []any{
		(*LoadEventResponse_Event)(nil),
		(*LoadEventResponse_FilteredEvent)(nil),
	}
}
