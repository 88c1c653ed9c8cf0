// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Codec converts table keys and values to and from their stored bytes.
// Key codecs must preserve order if callers rely on iteration order.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(b []byte) (T, error)
}

// Uint16Codec stores a uint16 as 2 big-endian bytes.
type Uint16Codec struct{}

func (Uint16Codec) Encode(v uint16) ([]byte, error) {
	return binary.BigEndian.AppendUint16(nil, v), nil
}

func (Uint16Codec) Decode(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("uint16: want 2 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint32Codec stores a uint32 as 4 big-endian bytes.
type Uint32Codec struct{}

func (Uint32Codec) Encode(v uint32) ([]byte, error) {
	return binary.BigEndian.AppendUint32(nil, v), nil
}

func (Uint32Codec) Decode(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("uint32: want 4 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// BoolCodec stores a bool as a single 0 or 1 byte.
type BoolCodec struct{}

func (BoolCodec) Encode(v bool) ([]byte, error) {
	if v {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (BoolCodec) Decode(b []byte) (bool, error) {
	if len(b) != 1 || b[0] > 1 {
		return false, fmt.Errorf("bool: invalid encoding %x", b)
	}
	return b[0] == 1, nil
}

// StringCodec stores any string-kinded type as its raw bytes.
type StringCodec[T ~string] struct{}

func (StringCodec[T]) Encode(v T) ([]byte, error) {
	if v == "" {
		return nil, ErrEmptyKey
	}
	return []byte(v), nil
}

func (StringCodec[T]) Decode(b []byte) (T, error) {
	return T(b), nil
}

// JSONCodec stores values as JSON documents.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec[T]) Decode(b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}
