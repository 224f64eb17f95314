package encoding

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Encode marshals v to compact JSON.
func Encode(v any) ([]byte, error) {
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "encode")
	}
	return bz, nil
}

// Decode unmarshals bz into a new T.
func Decode[T any](bz []byte) (T, error) {
	var v T
	if err := json.Unmarshal(bz, &v); err != nil {
		return v, eris.Wrap(err, "decode")
	}
	return v, nil
}

// DecodeStrict is Decode with unknown fields rejected.
func DecodeStrict[T any](bz []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(bz))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, eris.Wrap(err, "decode")
	}
	return v, nil
}

// DecodeAny unmarshals bz into a generic document tree; numbers become float64.
func DecodeAny(bz []byte) (any, error) {
	var v any
	if err := json.Unmarshal(bz, &v); err != nil {
		return nil, eris.Wrap(err, "decode")
	}
	return v, nil
}

// Indent marshals v as pretty-printed JSON with a trailing newline.
func Indent(v any) ([]byte, error) {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "encode")
	}
	return append(bz, '\n'), nil
}
