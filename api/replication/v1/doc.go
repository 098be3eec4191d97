// Package replicationv1 defines the wire schema of the eventwire
// replication protocol.
//
// The message types mirror replication.proto in this directory and are
// maintained by hand in lock-step with it; the schema is frozen (wire
// format evolution is out of scope for the engine). The types use the
// legacy struct-tag message form, which the gRPC proto codec marshals
// through protoadapt, so bytes on the wire are ordinary protobuf.
package replicationv1
