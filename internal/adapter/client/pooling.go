package client

import (
	"errors"
	"fmt"
	"math"
)

var errMalformedEmbedding = errors.New("malformed embedding response")

// PoolEmbedding reduces a decoded feature-extraction payload to one vector.
// A flat list is used as-is, a token matrix is mean-pooled over tokens, and
// anything deeper is flattened in row-major order.
func PoolEmbedding(raw any) ([]float32, error) {
	rank, err := rankOf(raw)
	if err != nil {
		return nil, err
	}

	var vec []float32
	switch rank {
	case 0:
		return nil, fmt.Errorf("%w: scalar", errMalformedEmbedding)
	case 2:
		vec, err = meanPool(raw.([]any))
		if err != nil {
			return nil, err
		}
	default:
		vec = flatten(raw, nil)
	}

	for i, v := range vec {
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			return nil, fmt.Errorf("%w: value %d is not finite", errMalformedEmbedding, i)
		}
	}
	return vec, nil
}

func meanPool(rows []any) ([]float32, error) {
	width := len(rows[0].([]any))
	out := make([]float64, width)
	for i, r := range rows {
		row := r.([]any)
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", errMalformedEmbedding, i, len(row), width)
		}
		for j, v := range row {
			out[j] += v.(float64)
		}
	}
	vec := make([]float32, width)
	for j := range out {
		vec[j] = float32(out[j] / float64(len(rows)))
	}
	return vec, nil
}

// rankOf returns the nesting depth of a JSON number array and rejects
// empty, mixed or non-numeric payloads.
func rankOf(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return 0, nil
	case []any:
		if len(t) == 0 {
			return 0, fmt.Errorf("%w: empty array", errMalformedEmbedding)
		}
		first, err := rankOf(t[0])
		if err != nil {
			return 0, err
		}
		for _, e := range t[1:] {
			r, err := rankOf(e)
			if err != nil {
				return 0, err
			}
			if r != first {
				return 0, fmt.Errorf("%w: ragged nesting", errMalformedEmbedding)
			}
		}
		return first + 1, nil
	default:
		return 0, fmt.Errorf("%w: unexpected %T", errMalformedEmbedding, v)
	}
}

func flatten(v any, dst []float32) []float32 {
	switch t := v.(type) {
	case float64:
		return append(dst, float32(t))
	case []any:
		for _, e := range t {
			dst = flatten(e, dst)
		}
	}
	return dst
}
