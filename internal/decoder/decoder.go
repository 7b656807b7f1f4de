// Package decoder turns raw broker message bodies into invocations.
package decoder

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/zhulik/natsinvoker/internal/core"
)

const (
	fieldActorID    = "actor_id"
	fieldLinkName   = "link_name"
	fieldContractID = "contract_id"
	fieldOperation  = "operation"
	fieldPayloadB64 = "payload_b64"
)

var envelopeFields = []string{fieldActorID, fieldLinkName, fieldContractID, fieldOperation, fieldPayloadB64}

// DecodeEnvelope parses the JSON body into an InvokeMessage without touching the payload.
// Field names are matched exactly, every field must be present once and hold a string.
// Unknown fields are ignored.
func DecodeEnvelope(raw []byte) (core.InvokeMessage, error) {
	if !json.Valid(raw) {
		return core.InvokeMessage{}, fmt.Errorf("%w: invalid JSON", core.ErrMalformedEnvelope)
	}

	iter := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowIterator(raw)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return core.InvokeMessage{}, fmt.Errorf("%w: not an object", core.ErrMalformedEnvelope)
	}

	values := make(map[string]string, len(envelopeFields))

	var fieldErr error

	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		if !lo.Contains(envelopeFields, field) {
			iter.Skip()

			return true
		}

		if _, ok := values[field]; ok {
			fieldErr = fmt.Errorf("%w: duplicate field %s", core.ErrMalformedEnvelope, field)

			return false
		}

		if iter.WhatIsNext() != jsoniter.StringValue {
			fieldErr = fmt.Errorf("%w: field %s is not a string", core.ErrMalformedEnvelope, field)

			return false
		}

		values[field] = iter.ReadString()

		return true
	})

	if fieldErr != nil {
		return core.InvokeMessage{}, fieldErr
	}

	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return core.InvokeMessage{}, fmt.Errorf("%w: %w", core.ErrMalformedEnvelope, iter.Error)
	}

	for _, field := range envelopeFields {
		if _, ok := values[field]; !ok {
			return core.InvokeMessage{}, fmt.Errorf("%w: missing field %s", core.ErrMalformedEnvelope, field)
		}
	}

	return core.InvokeMessage{
		ActorID:    values[fieldActorID],
		LinkName:   values[fieldLinkName],
		ContractID: values[fieldContractID],
		Operation:  values[fieldOperation],
		PayloadB64: values[fieldPayloadB64],
	}, nil
}

// Decode parses the body and decodes its payload. The payload must be canonical padded
// standard base64: line breaks and non-zero trailing bits are rejected.
func Decode(raw []byte) (core.Invocation, error) {
	msg, err := DecodeEnvelope(raw)
	if err != nil {
		return core.Invocation{}, err
	}

	if strings.ContainsAny(msg.PayloadB64, "\r\n") {
		return core.Invocation{}, fmt.Errorf("%w: line break in payload", core.ErrMalformedPayload)
	}

	payload, err := base64.StdEncoding.Strict().DecodeString(msg.PayloadB64)
	if err != nil {
		return core.Invocation{}, fmt.Errorf("%w: %w", core.ErrMalformedPayload, err)
	}

	return core.Invocation{
		InvokeMessage: msg,
		Payload:       payload,
	}, nil
}
