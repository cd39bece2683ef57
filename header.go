// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"runtime"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// ClientHeader formats the telemetry header value identifying the calling
// library: space-separated key/value pairs, with the Go runtime version
// prepended. keyval is interpreted pairwise.
func ClientHeader(keyval ...string) string {
	pairs := make([]string, 0, 1+len(keyval)/2)
	pairs = append(pairs, "gl-go/"+strings.TrimPrefix(runtime.Version(), "go"))
	for i := 0; i+1 < len(keyval); i += 2 {
		pairs = append(pairs, keyval[i]+"/"+keyval[i+1])
	}
	return strings.Join(pairs, " ")
}

// WithClientHeader sets the x-client telemetry header on every call. The
// value is computed once, at option construction.
func WithClientHeader(keyval ...string) CallOption {
	v := ClientHeader(keyval...)
	return WithHeaderMutator(func(md metadata.MD) {
		md.Set("x-client", v)
	})
}

// WithInvocationID tags every logical call with a fresh UUID in the
// x-invocation-id header. Retried attempts of the same call share the id,
// which lets server logs correlate them.
func WithInvocationID() CallOption {
	return WithHeaderMutator(func(md metadata.MD) {
		md.Set("x-invocation-id", uuid.NewString())
	})
}
