package protocol

import (
	"errors"
	"fmt"
)

const (
	ReasonInvalidJSON    = "invalid_json"
	ReasonMissingType    = "missing_type"
	ReasonUnknownType    = "unknown_type"
	ReasonInvalidPayload = "invalid_payload"
)

// ProtocolError reports a frame that could not be turned into a message.
// The connection stays open; the frame is dropped.
type ProtocolError struct {
	Reason string
	Type   string
	Err    error
}

func (e *ProtocolError) Error() string {
	msg := "protocol: " + e.Reason
	if e.Type != "" {
		msg += " (" + e.Type + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

func errMissingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}
