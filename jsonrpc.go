// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json2 "github.com/gorilla/rpc/v2/json2"
	"google.golang.org/grpc/metadata"
)

// JSONRPCOption configures a JSON-RPC call target.
type JSONRPCOption func(*jsonrpcOptions)

type jsonrpcOptions struct {
	client  *http.Client
	query   url.Values
	headers http.Header
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) JSONRPCOption {
	return func(o *jsonrpcOptions) { o.client = c }
}

// WithQueryParam adds a query parameter to every request.
func WithQueryParam(key, value string) JSONRPCOption {
	return func(o *jsonrpcOptions) { o.query.Add(key, value) }
}

// WithHTTPHeader adds a fixed header to every request. Headers that should
// follow merge semantics belong in CallSettings instead.
func WithHTTPHeader(key, value string) JSONRPCOption {
	return func(o *jsonrpcOptions) { o.headers.Add(key, value) }
}

// JSONRPCCall returns an APICall that posts a JSON-RPC 2.0 request for
// method to uri and decodes the response into reply. Headers attached by
// the pipeline's mutators are copied onto the HTTP request, and the body is
// encoded fresh per attempt so retried attempts are byte-identical.
//
// Non-2xx statuses surface as *HTTPError, which Transient classifies, so
// the returned call composes directly with OnTransportFailure.
func JSONRPCCall(uri *url.URL, method string, params, reply any, opts ...JSONRPCOption) APICall {
	o := &jsonrpcOptions{
		client:  newHTTPClient(),
		query:   url.Values{},
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(o)
	}
	u := *uri
	if len(o.query) > 0 {
		u.RawQuery = o.query.Encode()
	}
	target := u.String()

	return func(ctx context.Context, settings CallSettings) error {
		body, err := json2.EncodeClientRequest(method, params)
		if err != nil {
			return fmt.Errorf("failed to encode client params: %w", err)
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewBuffer(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		for k, vs := range o.headers {
			for _, v := range vs {
				request.Header.Add(k, v)
			}
		}
		if md, ok := metadata.FromOutgoingContext(ctx); ok {
			for k, vs := range md {
				for _, v := range vs {
					request.Header.Add(k, v)
				}
			}
		}
		request.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(request)
		if err != nil {
			return fmt.Errorf("failed to issue request: %w", err)
		}
		defer CleanlyCloseBody(resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &HTTPError{StatusCode: resp.StatusCode}
		}
		if reply == nil {
			return nil
		}
		if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
			return fmt.Errorf("failed to decode client response: %w", err)
		}
		return nil
	}
}

// newHTTPClient creates a fresh HTTP client with disabled connection reuse.
// This avoids EOF errors that can occur with connection pooling in complex
// process hierarchies.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DisableKeepAlives: true,
		},
	}
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}
