package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/mosaic/pkg/domain"
)

var (
	pathType      = reflect.TypeOf(domain.Path{})
	axisType      = reflect.TypeOf(domain.Axis(0))
	directionType = reflect.TypeOf(domain.Direction(""))
	toolType      = reflect.TypeOf(domain.ToolKind(""))
)

// Decode converts a generic map into a checked Action.
//
// Paths may be given as a key string ("0:1"), an array of indices, or omitted for
// the root. Axes accept "row", "column" and their aliases; a split must name one.
func Decode(input map[string]any) (domain.Action, error) {
	var action domain.Action
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			pathHook,
			axisHook,
			directionHook,
			toolHook,
		),
		ErrorUnused: true,
		Result:      &action,
	})
	if err != nil {
		return domain.Action{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return domain.Action{}, fmt.Errorf("failed to decode action: %w", unwrapHookError(err))
	}
	if action.Path == nil {
		action.Path = domain.Root()
	}
	// The zero Axis is a row, so a missing axis would pass Check.
	if action.Op == domain.OpSplit && input["axis"] == nil {
		return domain.Action{}, fmt.Errorf("%w: split needs an axis", domain.ErrInvalidAxis)
	}
	if err := action.Check(); err != nil {
		return domain.Action{}, err
	}
	return action, nil
}

// DecodeJSON decodes one action from a JSON object.
func DecodeJSON(data []byte) (domain.Action, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Action{}, fmt.Errorf("failed to decode action: %w", err)
	}
	return Decode(raw)
}

// Encode is the inverse of Decode, producing the map form used in scripts and tool
// arguments.
func Encode(a domain.Action) map[string]any {
	out := map[string]any{
		"op":   string(a.Op),
		"path": a.Path.Key(),
	}
	switch a.Op {
	case domain.OpSplit:
		out["axis"] = a.Axis.String()
		out["tool"] = string(a.Tool)
	case domain.OpReplaceTool:
		out["tool"] = string(a.Tool)
	case domain.OpMoveFocus:
		out["direction"] = string(a.Direction)
	case domain.OpCacheState:
		out["value"] = a.Value
	case domain.OpClearFocus:
		delete(out, "path")
	}
	return out
}

func pathHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != pathType {
		return data, nil
	}
	switch v := data.(type) {
	case nil:
		return domain.Root(), nil
	case string:
		return domain.ParsePath(v)
	case domain.Path:
		return v, nil
	case []int:
		return checkIndices(v)
	case []any:
		idx := make([]int, len(v))
		for i, item := range v {
			n, err := toIndex(item)
			if err != nil {
				return nil, err
			}
			idx[i] = n
		}
		return checkIndices(idx)
	}
	return nil, fmt.Errorf("%w: unsupported %T", domain.ErrInvalidPath, data)
}

func checkIndices(idx []int) (domain.Path, error) {
	for _, i := range idx {
		if i < 0 {
			return nil, fmt.Errorf("%w: negative index %d", domain.ErrInvalidPath, i)
		}
	}
	return domain.Path(idx), nil
}

func toIndex(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: %v is not an index", domain.ErrInvalidPath, n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidPath, err)
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("%w: %v is not an index", domain.ErrInvalidPath, v)
}

func axisHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != axisType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return domain.ParseAxis(s)
	}
	return data, nil
}

func directionHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != directionType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return domain.ParseDirection(s)
	}
	return data, nil
}

func toolHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != toolType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return domain.ParseToolKind(s)
	}
	return data, nil
}

// unwrapHookError surfaces the sentinel returned by a hook, which mapstructure
// buries inside its own error list.
func unwrapHookError(err error) error {
	var merr *mapstructure.Error
	if !errors.As(err, &merr) {
		return err
	}
	for _, sentinel := range []error{
		domain.ErrInvalidPath, domain.ErrInvalidAxis,
		domain.ErrInvalidDirection, domain.ErrUnknownTool,
	} {
		for _, msg := range merr.Errors {
			if strings.Contains(msg, sentinel.Error()) {
				return fmt.Errorf("%w: %s", sentinel, msg)
			}
		}
	}
	return err
}
