// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"context"
	"errors"
	"iter"
)

// Done is returned by Next when iteration is complete; further calls return
// Done again without touching the transport.
var Done = errors.New("call: no more items in iterator")

// PageRequest is the write side of the paging contract, implemented once per
// API request type. The engine treats the request as opaque beyond these
// three capabilities.
type PageRequest interface {
	// SetPageToken positions the request at the cursor returned by the
	// previous page. Empty means the first page.
	SetPageToken(token string)

	// SetPageSize asks the server for at most size resources.
	SetPageSize(size int32)

	// Clone returns a deep copy. Iterators only ever mutate their clone, so
	// the caller's request stays reusable.
	Clone() PageRequest
}

// PageResponse is the read side of the paging contract, implemented once per
// API response type.
type PageResponse interface {
	// NextPageToken returns the cursor for the following page. Empty means
	// the sequence is exhausted.
	NextPageToken() string

	// Len returns the number of resources in this page.
	Len() int

	// Resource returns the i'th resource, in server order.
	Resource(i int) any
}

// PageCall issues one page fetch, usually as a closure over a wrapped
// Invoke so each fetch inherits retry and header behavior.
type PageCall func(ctx context.Context, req PageRequest) (PageResponse, error)

// PageIterator walks server pages one call at a time. At most one page is in
// flight and none is fetched before it is asked for.
type PageIterator struct {
	call      PageCall
	req       PageRequest
	nextToken string
	exhausted bool
}

// NewPageIterator builds an iterator over the pages reachable from req. The
// request is cloned once up front; constructing a fresh iterator from the
// same request restarts the sequence.
func NewPageIterator(call PageCall, req PageRequest) *PageIterator {
	return &PageIterator{call: call, req: req.Clone()}
}

// Next fetches the following page, or returns Done after the server reports
// an empty next-page token.
func (it *PageIterator) Next(ctx context.Context) (PageResponse, error) {
	return it.advance(ctx, 0)
}

// NextSized is Next with the requested page size overridden for this fetch.
// The override must be positive.
func (it *PageIterator) NextSized(ctx context.Context, pageSize int32) (PageResponse, error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	return it.advance(ctx, pageSize)
}

func (it *PageIterator) advance(ctx context.Context, pageSize int32) (PageResponse, error) {
	if it.exhausted {
		return nil, Done
	}
	if pageSize > 0 {
		it.req.SetPageSize(pageSize)
	}
	it.req.SetPageToken(it.nextToken)
	resp, err := it.call(ctx, it.req)
	if err != nil {
		return nil, err
	}
	it.nextToken = resp.NextPageToken()
	it.exhausted = it.nextToken == ""
	return resp, nil
}

// ResourceIterator flattens pages into a lazy resource stream: single pass,
// server order, at most one page buffered.
type ResourceIterator struct {
	pages *PageIterator
	page  PageResponse
	i     int
}

// NewResourceIterator builds a resource stream over the pages reachable
// from req.
func NewResourceIterator(call PageCall, req PageRequest) *ResourceIterator {
	return &ResourceIterator{pages: NewPageIterator(call, req)}
}

// Next returns the next resource, fetching a page only when the buffered one
// is spent, or Done at the end of the sequence.
func (it *ResourceIterator) Next(ctx context.Context) (any, error) {
	for it.page == nil || it.i >= it.page.Len() {
		page, err := it.pages.Next(ctx)
		if err != nil {
			return nil, err
		}
		it.page, it.i = page, 0
	}
	r := it.page.Resource(it.i)
	it.i++
	return r, nil
}

// All returns a range-over-func view of the remaining resources. Iteration
// stops at the first error; a clean end yields nothing after the last
// resource.
func (it *ResourceIterator) All(ctx context.Context) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for {
			r, err := it.Next(ctx)
			if errors.Is(err, Done) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// FixedSizePage is a client-side re-chunked page: exactly the requested
// number of resources, except possibly the last page of a sequence.
// NextPageToken is the token observed when the page was completed, so a
// caller can hand it out to resume from the page boundary.
type FixedSizePage struct {
	Resources     []any
	NextPageToken string
}

// FixedSizePager regroups variably-sized server pages into pages of exactly
// pageSize resources. Resource order and count match the natural page
// stream; only the final page may run short, and only because the server
// ran out.
type FixedSizePager struct {
	pages     *PageIterator
	pageSize  int
	buf       []any
	token     string
	exhausted bool
	failed    error
}

// NewFixedSizePager builds a pager over the pages reachable from req.
// pageSize must be positive.
func NewFixedSizePager(call PageCall, req PageRequest, pageSize int32) (*FixedSizePager, error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	return &FixedSizePager{pages: NewPageIterator(call, req), pageSize: int(pageSize)}, nil
}

// Next returns the next fixed-size page, or Done at the end of the
// sequence. It tops the buffer up with underlying fetches sized to the
// remaining gap, so no fetched resource is ever discarded. A server page
// larger than requested is a protocol violation: Next surfaces a
// PageOverflowError and the pager emits nothing further.
func (p *FixedSizePager) Next(ctx context.Context) (*FixedSizePage, error) {
	if p.failed != nil {
		return nil, p.failed
	}
	if p.exhausted {
		return nil, Done
	}
	for len(p.buf) < p.pageSize {
		want := p.pageSize - len(p.buf)
		resp, err := p.pages.NextSized(ctx, int32(want))
		if errors.Is(err, Done) {
			p.exhausted = true
			break
		}
		if err != nil {
			return nil, err
		}
		if resp.Len() > want {
			p.failed = &PageOverflowError{Requested: want, Returned: resp.Len()}
			return nil, p.failed
		}
		for i := 0; i < resp.Len(); i++ {
			p.buf = append(p.buf, resp.Resource(i))
		}
		p.token = resp.NextPageToken()
	}
	if len(p.buf) == 0 {
		return nil, Done
	}
	out := &FixedSizePage{Resources: p.buf, NextPageToken: p.token}
	p.buf = nil
	return out, nil
}
