// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"context"

	"google.golang.org/grpc"
)

// GRPCCall returns an APICall performing a unary gRPC invocation against
// conn. The pipeline has already put deadline and outgoing metadata on ctx;
// CallSettings.GRPC is passed through to the transport.
func GRPCCall(conn *grpc.ClientConn, method string, args, reply any) APICall {
	return func(ctx context.Context, settings CallSettings) error {
		return conn.Invoke(ctx, method, args, reply, settings.GRPC...)
	}
}
