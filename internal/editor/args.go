package editor

import (
	"badred/internal/editorerr"
)

// Request values travel as map[string]any in the {type, variant, values}
// envelope; these helpers centralize the dynamic-to-static conversion
// every handler needs. Numeric arguments may arrive as an integer value
// or as float64 (the JSON decoder's default); each accessor lists the
// Go types it accepts and rejects any other as a script fault.

func argValue(values map[string]any, key string) (any, error) {
	v, ok := values[key]
	if !ok {
		return nil, editorerr.New(editorerr.ScriptFault, "missing argument %q", key)
	}
	return v, nil
}

func argUint32(values map[string]any, key string) (uint32, error) {
	v, err := argValue(values, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case uint32:
		return n, nil
	case int:
		return uint32(n), nil
	case int64:
		return uint32(n), nil
	case float64:
		return uint32(n), nil
	}
	return 0, editorerr.New(editorerr.ScriptFault, "argument %q: expected integer, got %T", key, v)
}

func argInt(values map[string]any, key string) (int, error) {
	n, err := argUint32(values, key)
	return int(n), err
}

// argUint64 accepts the wider dynamic numeric shapes a callback handle
// travels as (script-side callback ids are 64-bit opaque handles),
// unlike argUint32's pane/buffer/file ids.
func argUint64(values map[string]any, key string) (uint64, error) {
	v, err := argValue(values, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	case float64:
		return uint64(n), nil
	}
	return 0, editorerr.New(editorerr.ScriptFault, "argument %q: expected integer, got %T", key, v)
}

func argString(values map[string]any, key string) (string, error) {
	v, err := argValue(values, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", editorerr.New(editorerr.ScriptFault, "argument %q: expected string, got %T", key, v)
	}
	return s, nil
}

func argBool(values map[string]any, key string) (bool, error) {
	v, err := argValue(values, key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, editorerr.New(editorerr.ScriptFault, "argument %q: expected bool, got %T", key, v)
	}
	return b, nil
}

func argFloat64(values map[string]any, key string) (float64, error) {
	v, err := argValue(values, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, editorerr.New(editorerr.ScriptFault, "argument %q: expected number, got %T", key, v)
}

func optBool(values map[string]any, key string) (*bool, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, editorerr.New(editorerr.ScriptFault, "argument %q: expected bool, got %T", key, v)
	}
	return &b, nil
}

func optUint32(values map[string]any, key string) (uint32, bool, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, err := argUint32(map[string]any{key: v}, key)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
