// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package call is the client-side runtime shared by generated RPC stubs.
// It layers three cross-cutting behaviors over an opaque transport call so
// individual methods never re-implement them: composable per-call settings
// (deadlines, header augmentation), transparent retry with capped
// exponential backoff, and lazy, memory-bounded iteration over paginated
// result sets.
//
// # Call pipeline
//
// A transport attempt is an APICall. Wrap composes method defaults around
// it once, at client construction; every invocation merges per-call options
// over those defaults, injects headers into the outgoing metadata, and
// retries per the merged settings:
//
//	list := call.Wrap(stub,
//	    call.WithTimeout(30*time.Second),
//	    call.WithClientHeader("lux", "1.4.0"),
//	    call.WithRetry(func() call.Retryer {
//	        bo, _ := call.NewBackoff(100*time.Millisecond, 5*time.Second, 2)
//	        return call.OnCodes([]codes.Code{codes.Unavailable}, bo)
//	    }),
//	)
//
//	err := list(ctx, call.WithTimeout(5*time.Second)) // override wins
//
// The whole-call deadline is resolved once, before the first attempt, and
// shared by every retry. Permanent errors surface immediately; exhausted
// budgets surface a *RetryExhaustedError wrapping the last transient error;
// cancellation surfaces ctx.Err(), even mid-backoff.
//
// One-off calls go through Invoke directly. WrapAsync and InvokeAsync are
// the channel-delivering forms of the same loop.
//
// # Paging
//
// The paging engine drives a PageCall through per-API adapters exposing
// just the page token, page size, and resource fields
// (NewProtoPageRequest/NewProtoPageResponse cover generated protobuf
// messages):
//
//	it := call.NewResourceIterator(fetch, req)
//	for {
//	    r, err := it.Next(ctx)
//	    if errors.Is(err, call.Done) {
//	        break
//	    }
//	    ...
//	}
//
// Pages are fetched strictly on demand, one at a time, in server order.
// FixedSizePager re-chunks variably-sized server pages into exact
// caller-chosen sizes, fetching only the gap each time.
//
// # Transports
//
// The runtime never inspects the transport: any closure satisfying APICall
// works. Ready-made adapters cover unary gRPC (GRPCCall) and JSON-RPC 2.0
// over HTTP (JSONRPCCall). Connection lifecycle, serialization, and
// authentication stay with the surrounding client.
package call
