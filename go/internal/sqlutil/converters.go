package sqlutil

import (
	"encoding/json"

	"github.com/sqlc-dev/pqtype"
)

// Helper functions for converting between Go types and nullable column types

// ToNullRawMessage wraps JSON for a nullable jsonb column. Empty input is NULL.
func ToNullRawMessage(data []byte) pqtype.NullRawMessage {
	return pqtype.NullRawMessage{RawMessage: data, Valid: len(data) > 0}
}

// FromNullRawMessage returns the column's JSON, or nil for NULL
func FromNullRawMessage(val pqtype.NullRawMessage) json.RawMessage {
	if !val.Valid {
		return nil
	}
	return val.RawMessage
}

// MarshalNullRawMessage encodes v as JSON for a nullable jsonb column
func MarshalNullRawMessage(v any) (pqtype.NullRawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}
	return ToNullRawMessage(data), nil
}
