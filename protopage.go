// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Standard field names of paginated API messages.
const (
	fieldPageToken     = "page_token"
	fieldPageSize      = "page_size"
	fieldNextPageToken = "next_page_token"
)

// NewProtoPageRequest adapts a generated protobuf list request into a
// PageRequest. The message must carry a string page_token field and an
// int32 page_size field.
func NewProtoPageRequest(req proto.Message) (PageRequest, error) {
	desc := req.ProtoReflect().Descriptor()
	token := desc.Fields().ByName(fieldPageToken)
	if token == nil || token.Kind() != protoreflect.StringKind {
		return nil, fmt.Errorf("call: %s has no string %s field", desc.FullName(), fieldPageToken)
	}
	size := desc.Fields().ByName(fieldPageSize)
	if size == nil || size.Kind() != protoreflect.Int32Kind {
		return nil, fmt.Errorf("call: %s has no int32 %s field", desc.FullName(), fieldPageSize)
	}
	return &protoPageRequest{msg: req, token: token, size: size}, nil
}

type protoPageRequest struct {
	msg   proto.Message
	token protoreflect.FieldDescriptor
	size  protoreflect.FieldDescriptor
}

func (r *protoPageRequest) SetPageToken(token string) {
	r.msg.ProtoReflect().Set(r.token, protoreflect.ValueOfString(token))
}

func (r *protoPageRequest) SetPageSize(size int32) {
	r.msg.ProtoReflect().Set(r.size, protoreflect.ValueOfInt32(size))
}

func (r *protoPageRequest) Clone() PageRequest {
	return &protoPageRequest{msg: proto.Clone(r.msg), token: r.token, size: r.size}
}

// Message returns the adapted request, for use inside a PageCall closure.
func (r *protoPageRequest) Message() proto.Message { return r.msg }

// NewProtoPageResponse adapts a generated protobuf list response into a
// PageResponse, reading resources from the named repeated field. The
// message must carry a string next_page_token field.
func NewProtoPageResponse(resp proto.Message, resourceField string) (PageResponse, error) {
	m := resp.ProtoReflect()
	desc := m.Descriptor()
	next := desc.Fields().ByName(fieldNextPageToken)
	if next == nil || next.Kind() != protoreflect.StringKind {
		return nil, fmt.Errorf("call: %s has no string %s field", desc.FullName(), fieldNextPageToken)
	}
	res := desc.Fields().ByName(protoreflect.Name(resourceField))
	if res == nil || !res.IsList() {
		return nil, fmt.Errorf("call: %s has no repeated %s field", desc.FullName(), resourceField)
	}
	return &protoPageResponse{
		msg:       resp,
		next:      next,
		resources: m.Get(res).List(),
		messages:  res.Kind() == protoreflect.MessageKind,
	}, nil
}

type protoPageResponse struct {
	msg       proto.Message
	next      protoreflect.FieldDescriptor
	resources protoreflect.List
	messages  bool
}

func (r *protoPageResponse) NextPageToken() string {
	return r.msg.ProtoReflect().Get(r.next).String()
}

func (r *protoPageResponse) Len() int { return r.resources.Len() }

func (r *protoPageResponse) Resource(i int) any {
	v := r.resources.Get(i)
	if r.messages {
		return v.Message().Interface()
	}
	return v.Interface()
}
