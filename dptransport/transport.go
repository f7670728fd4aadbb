// Package dptransport defines the narrow transport interfaces the data-plane
// pipelines drive. The core pipelines never parse wire bytes and never
// depend on generated protobuf message types directly; callers supply their
// own codec by implementing these interfaces against their own generated
// gRPC stubs.
package dptransport

import (
	"context"

	"google.golang.org/grpc"
)

// IngestionClient is the narrow transport surface the ingestion pipeline
// (dpingest) drives. Implementations wrap a generated gRPC client stub.
type IngestionClient interface {
	// RegisterProvider performs the unary provider-registration round trip,
	// returning the provider unique identifier assigned by the service.
	RegisterProvider(ctx context.Context, req interface{}) (providerID string, err error)

	// OpenUnidirectionalStream opens a client-streaming data stream for the
	// unidirectional ingestion mode. Each call to Send on the
	// returned Stream transmits one request message; the stream acks once,
	// on CloseAndRecv.
	OpenUnidirectionalStream(ctx context.Context) (UnidirectionalStream, error)

	// OpenBidirectionalStream opens a bidirectional data stream, acking each
	// request message inline as responses arrive.
	OpenBidirectionalStream(ctx context.Context) (BidirectionalStream, error)
}

// UnidirectionalStream is the forward half of a unidirectional ingestion
// data stream: requests are sent with no interleaved responses until the
// stream is closed.
type UnidirectionalStream interface {
	Send(req interface{}) error
	CloseAndRecv() (resp interface{}, err error)
	grpc.ClientStream
}

// BidirectionalStream is the forward and backward halves of a bidirectional
// ingestion data stream: a response is expected inline after every request.
type BidirectionalStream interface {
	Send(req interface{}) error
	Recv() (resp interface{}, err error)
	CloseSend() error
	grpc.ClientStream
}

// QueryClient is the narrow transport surface the query pipeline (dpstream)
// drives. Implementations wrap a generated gRPC client stub.
type QueryClient interface {
	// QueryUnidirectional performs the server-streaming query RPC: the
	// client sends one request, the server streams responses back via the
	// returned ResponseStream.
	QueryUnidirectional(ctx context.Context, req interface{}) (ResponseStream, error)

	// QueryBidirectional opens the cursor-driven bidirectional query RPC.
	// The caller sends the initial request, then one cursor-next message per
	// desired page, via the returned CursorStream.
	QueryBidirectional(ctx context.Context) (CursorStream, error)
}

// ResponseStream is the backward half of a server-streaming query RPC.
type ResponseStream interface {
	Recv() (resp interface{}, err error)
	grpc.ClientStream
}

// CursorStream is the forward and backward halves of a cursor-driven
// bidirectional query RPC.
type CursorStream interface {
	Send(req interface{}) error
	Recv() (resp interface{}, err error)
	CloseSend() error
	grpc.ClientStream
}
