package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/painel/internal/errors"
)

// Shape is the wire form a list arrived in
type Shape int

const (
	// ShapeBare is a plain JSON array
	ShapeBare Shape = iota
	// ShapeWrapped is an object holding the array under a named key,
	// optionally with total, page and limit
	ShapeWrapped
)

// String returns the shape name
func (s Shape) String() string {
	if s == ShapeWrapped {
		return "wrapped"
	}
	return "bare"
}

// List is a decoded list response in either shape
type List[T any] struct {
	Shape Shape
	Items []T
	Total int
	Page  int
	Limit int
}

// Len returns the number of items received
func (l List[T]) Len() int {
	return len(l.Items)
}

// DecodeList decodes raw as a bare array or as an object holding the array
// under the first of keys present. Total defaults to the item count when the
// envelope carries none. An empty body decodes to an empty bare list.
func DecodeList[T any](raw []byte, keys ...string) (List[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return List[T]{Shape: ShapeBare, Items: []T{}}, nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return List[T]{}, errors.NewDecode(err)
		}
		return List[T]{Shape: ShapeBare, Items: items, Total: len(items)}, nil

	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return List[T]{}, errors.NewDecode(err)
		}

		for _, key := range keys {
			inner, ok := envelope[key]
			if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
				continue
			}
			var items []T
			if err := json.Unmarshal(inner, &items); err != nil {
				return List[T]{}, errors.NewDecode(fmt.Errorf("field %q: %w", key, err))
			}
			if items == nil {
				items = []T{}
			}

			list := List[T]{Shape: ShapeWrapped, Items: items, Total: len(items)}
			intField(envelope, "total", &list.Total)
			intField(envelope, "page", &list.Page)
			intField(envelope, "limit", &list.Limit)
			return list, nil
		}
		return List[T]{}, errors.NewDecode(fmt.Errorf("no list under any of %v", keys))
	}

	return List[T]{}, errors.NewDecode(fmt.Errorf("expected array or object, got %q", raw[:1]))
}

func intField(envelope map[string]json.RawMessage, key string, dst *int) {
	raw, ok := envelope[key]
	if !ok {
		return
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		*dst = int(n)
	}
}

// getList GETs path and decodes the result as a dual-shape list
func getList[T any](ctx context.Context, c *Client, path string, q any, keys ...string) (List[T], error) {
	var raw json.RawMessage
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q}, &raw); err != nil {
		return List[T]{}, err
	}
	return DecodeList[T](raw, keys...)
}
