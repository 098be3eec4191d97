package replicationv1

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

const (
	EventProducerService_ReplicateEvents_FullMethodName = "/eventwire.replication.v1.EventProducerService/ReplicateEvents"
	EventProducerService_EventTimestamp_FullMethodName  = "/eventwire.replication.v1.EventProducerService/EventTimestamp"
	EventProducerService_LoadEvent_FullMethodName       = "/eventwire.replication.v1.EventProducerService/LoadEvent"
)

// EventProducerServiceClient is the client API for EventProducerService.
type EventProducerServiceClient interface {
	// ReplicateEvents opens one replication stream. The first client
	// message must be Init; Filter and Replay may follow concurrently
	// with server emissions.
	ReplicateEvents(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[StreamIn, StreamOut], error)
	// EventTimestamp returns the journal timestamp of one event.
	EventTimestamp(ctx context.Context, in *EventTimestampRequest, opts ...grpc.CallOption) (*EventTimestampResponse, error)
	// LoadEvent returns one event, subject to the stream's filter decision.
	LoadEvent(ctx context.Context, in *LoadEventRequest, opts ...grpc.CallOption) (*LoadEventResponse, error)
}

type eventProducerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEventProducerServiceClient creates a client for EventProducerService.
func NewEventProducerServiceClient(cc grpc.ClientConnInterface) EventProducerServiceClient {
	return &eventProducerServiceClient{cc}
}

func (c *eventProducerServiceClient) ReplicateEvents(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[StreamIn, StreamOut], error) {
	stream, err := c.cc.NewStream(ctx, &EventProducerService_ServiceDesc.Streams[0], EventProducerService_ReplicateEvents_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[StreamIn, StreamOut]{ClientStream: stream}
	return x, nil
}

func (c *eventProducerServiceClient) EventTimestamp(ctx context.Context, in *EventTimestampRequest, opts ...grpc.CallOption) (*EventTimestampResponse, error) {
	out := new(EventTimestampResponse)
	err := c.cc.Invoke(ctx, EventProducerService_EventTimestamp_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *eventProducerServiceClient) LoadEvent(ctx context.Context, in *LoadEventRequest, opts ...grpc.CallOption) (*LoadEventResponse, error) {
	out := new(LoadEventResponse)
	err := c.cc.Invoke(ctx, EventProducerService_LoadEvent_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EventProducerServiceServer is the server API for EventProducerService.
// All implementations must embed UnimplementedEventProducerServiceServer
// for forward compatibility.
type EventProducerServiceServer interface {
	// ReplicateEvents opens one replication stream. The first client
	// message must be Init; Filter and Replay may follow concurrently
	// with server emissions.
	ReplicateEvents(grpc.BidiStreamingServer[StreamIn, StreamOut]) error
	// EventTimestamp returns the journal timestamp of one event.
	EventTimestamp(context.Context, *EventTimestampRequest) (*EventTimestampResponse, error)
	// LoadEvent returns one event, subject to the stream's filter decision.
	LoadEvent(context.Context, *LoadEventRequest) (*LoadEventResponse, error)
	mustEmbedUnimplementedEventProducerServiceServer()
}

// UnimplementedEventProducerServiceServer must be embedded to have
// forward compatible implementations.
type UnimplementedEventProducerServiceServer struct{}

func (UnimplementedEventProducerServiceServer) ReplicateEvents(grpc.BidiStreamingServer[StreamIn, StreamOut]) error {
	return status.Error(codes.Unimplemented, "method ReplicateEvents not implemented")
}

func (UnimplementedEventProducerServiceServer) EventTimestamp(context.Context, *EventTimestampRequest) (*EventTimestampResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EventTimestamp not implemented")
}

func (UnimplementedEventProducerServiceServer) LoadEvent(context.Context, *LoadEventRequest) (*LoadEventResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LoadEvent not implemented")
}

func (UnimplementedEventProducerServiceServer) mustEmbedUnimplementedEventProducerServiceServer() {}

// RegisterEventProducerServiceServer registers srv on s.
func RegisterEventProducerServiceServer(s grpc.ServiceRegistrar, srv EventProducerServiceServer) {
	s.RegisterService(&EventProducerService_ServiceDesc, srv)
}

func _EventProducerService_ReplicateEvents_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(EventProducerServiceServer).ReplicateEvents(&grpc.GenericServerStream[StreamIn, StreamOut]{ServerStream: stream})
}

func _EventProducerService_EventTimestamp_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EventTimestampRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EventProducerServiceServer).EventTimestamp(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EventProducerService_EventTimestamp_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EventProducerServiceServer).EventTimestamp(ctx, req.(*EventTimestampRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _EventProducerService_LoadEvent_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(LoadEventRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EventProducerServiceServer).LoadEvent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EventProducerService_LoadEvent_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EventProducerServiceServer).LoadEvent(ctx, req.(*LoadEventRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// EventProducerService_ServiceDesc is the grpc.ServiceDesc for
// EventProducerService. It should only be used with grpc.RegisterService.
var EventProducerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "eventwire.replication.v1.EventProducerService",
	HandlerType: (*EventProducerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "EventTimestamp",
			Handler:    _EventProducerService_EventTimestamp_Handler,
		},
		{
			MethodName: "LoadEvent",
			Handler:    _EventProducerService_LoadEvent_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ReplicateEvents",
			Handler:       _EventProducerService_ReplicateEvents_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "api/replication/v1/replication.proto",
}
