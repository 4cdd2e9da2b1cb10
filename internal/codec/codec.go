// Package codec serializes each collection to the flat string form held
// by the store: a versioned JSON envelope wrapping the record array.
// The envelope version lets a reader tell corrupt data apart from data
// written by a newer schema.
package codec

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the envelope version written by this build.
const SchemaVersion = 1

// DecodeError reports that a stored collection could not be decoded.
// Collection names the store key's collection for diagnostics.
type DecodeError struct {
	Collection string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding collection %q: %v", e.Collection, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type envelope[T any] struct {
	Version int `json:"version"`
	Records []T `json:"records"`
}

// Encode serializes records into a versioned envelope.
func Encode[T any](records []T) (string, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(envelope[T]{Version: SchemaVersion, Records: records})
	if err != nil {
		return "", fmt.Errorf("encoding envelope: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored envelope back into records. An empty value
// decodes to an empty slice. Malformed JSON or an envelope written by a
// newer schema both produce a *DecodeError.
func Decode[T any](collection, value string) ([]T, error) {
	if value == "" {
		return []T{}, nil
	}
	var env envelope[T]
	if err := json.Unmarshal([]byte(value), &env); err != nil {
		return nil, &DecodeError{Collection: collection, Err: err}
	}
	if env.Version > SchemaVersion {
		return nil, &DecodeError{
			Collection: collection,
			Err:        fmt.Errorf("schema version %d is newer than supported version %d", env.Version, SchemaVersion),
		}
	}
	if env.Records == nil {
		return []T{}, nil
	}
	return env.Records, nil
}

// EncodeOne wraps a single record in an envelope. Used for singleton
// keys such as the autosave snapshot.
func EncodeOne[T any](record T) (string, error) {
	return Encode([]T{record})
}

// DecodeOne parses a singleton envelope. ok is false when the value is
// empty or holds no record.
func DecodeOne[T any](collection, value string) (record T, ok bool, err error) {
	records, err := Decode[T](collection, value)
	if err != nil {
		return record, false, err
	}
	if len(records) == 0 {
		return record, false, nil
	}
	return records[0], true, nil
}
