package upstream

import (
	"bytes"
	"encoding/json"

	"github.com/capitalcare/care-console/internal/core/domain"
)

// normalizeCollection reduces the collection shapes the care backend has been
// observed to emit (a bare array, {<resource>: [...]} or {data: [...]}) to a
// plain list. Anything else is ErrShapeMismatch.
func normalizeCollection[T any](raw json.RawMessage, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, domain.ErrShapeMismatch
	}

	switch trimmed[0] {
	case '[':
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, domain.ErrShapeMismatch
		}
		return list, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, domain.ErrShapeMismatch
		}
		for _, k := range []string{key, "data"} {
			inner, ok := obj[k]
			if !ok {
				continue
			}
			var list []T
			if err := json.Unmarshal(inner, &list); err != nil {
				return nil, domain.ErrShapeMismatch
			}
			return list, nil
		}
	}
	return nil, domain.ErrShapeMismatch
}

// decodeEntity unmarshals a single entity, unwrapping a {data: {...}}
// envelope when present.
func decodeEntity[T any](raw json.RawMessage) (T, error) {
	var entity T

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner := bytes.TrimSpace(envelope.Data); len(inner) > 0 && inner[0] == '{' {
			raw = inner
		}
	}

	if err := json.Unmarshal(raw, &entity); err != nil {
		return entity, domain.ErrShapeMismatch
	}
	return entity, nil
}
