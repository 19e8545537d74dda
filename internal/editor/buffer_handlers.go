package editor

import (
	"context"

	"badred/internal/buffer"
	"badred/internal/editorerr"
	"badred/internal/redcall"
	"badred/internal/storage"
)

func (s *State) handleCurrentBufferId(ctx context.Context, req redcall.Request) redcall.Response {
	b, err := s.ActiveBuffer()
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(uint32(b.Id()))
}

func (s *State) handleBufferOpen(ctx context.Context, req redcall.Request) redcall.Response {
	variant := storage.VariantNaive
	if v, ok := req.Values["type"]; ok {
		if vs, ok := v.(string); ok && vs == string(storage.VariantGap) {
			variant = storage.VariantGap
		}
	}
	b := s.newBuffer(variant)
	return redcall.OkResponse(uint32(b.Id()))
}

func (s *State) handleBufferClose(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if _, err := s.getBuffer(buffer.Id(id)); err != nil {
		return redcall.ErrResponse(err)
	}
	delete(s.buffers, buffer.Id(id))
	return redcall.OkResponse(nil)
}

func (s *State) withBuffer(req redcall.Request, fn func(*buffer.Buffer) redcall.Response) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	b, err := s.getBuffer(buffer.Id(id))
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return fn(b)
}

func (s *State) handleBufferInsert(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		content, err := argString(req.Values, "content")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		b.Insert(content)
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferDelete(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		count, err := argInt(req.Values, "count")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(b.Delete(count))
	})
}

func (s *State) handleBufferCursor(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		return redcall.OkResponse(uint32(b.CursorByte()))
	})
}

func (s *State) handleBufferCursorLine(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		return redcall.OkResponse(uint16(b.CursorLine()))
	})
}

func (s *State) handleBufferCursorMovedByChar(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		delta, err := argSignedInt(req.Values, "count")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(uint32(b.CursorByteMoved(b.CursorByte(), delta)))
	})
}

func (s *State) handleBufferIndexMovedByChar(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		idx, err := argInt(req.Values, "idx")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		delta, err := argSignedInt(req.Values, "count")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(uint32(b.IndexMoved(idx, delta)))
	})
}

func (s *State) handleBufferSetCursor(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		byteIdx, err := argInt(req.Values, "byte")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		keepCol, err := argBool(req.Values, "keep_col")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		if err := b.SetCursor(byteIdx, keepCol); err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferSetCursorLine(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		line, err := argInt(req.Values, "line")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		if err := b.SetCursorLine(line); err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferClear(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		b.Clear()
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferCursorContent(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		return redcall.OkResponse(b.CursorContent())
	})
}

func (s *State) handleBufferCursorLineContent(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		return redcall.OkResponse(b.CursorLineContent())
	})
}

func (s *State) handleBufferLength(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		return redcall.OkResponse(uint32(b.Length()))
	})
}

func (s *State) handleBufferLineCount(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		return redcall.OkResponse(uint16(b.LineCount()))
	})
}

func (s *State) handleBufferContent(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		return redcall.OkResponse(b.Content())
	})
}

func (s *State) handleBufferContentAt(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		byteIdx, err := argInt(req.Values, "byte")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		count, err := argInt(req.Values, "char_count")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(b.ContentAt(byteIdx, count))
	})
}

func (s *State) handleBufferLineContent(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		line, err := argInt(req.Values, "line")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(b.LineContent(line))
	})
}

func (s *State) handleBufferLineContaining(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		byteIdx, err := argInt(req.Values, "byte")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(uint16(b.LineForIndex(byteIdx)))
	})
}

func (s *State) handleBufferLineLength(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		line, err := argInt(req.Values, "line")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(uint32(b.LineLength(line)))
	})
}

func (s *State) handleBufferLineStart(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		line, err := argInt(req.Values, "line")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(uint32(b.LineStart(line)))
	})
}

func (s *State) handleBufferLineEnd(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		line, err := argInt(req.Values, "line")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(uint32(b.LineEnd(line)))
	})
}

func (s *State) handleBufferType(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		// The EditorBufferType tagged enum: {type, variant} with variant
		// "naive" | "gap", stable names the script side pattern-matches on.
		return redcall.OkResponse(map[string]any{
			"type":    "EditorBufferType",
			"variant": string(b.Type()),
		})
	})
}

func (s *State) handleBufferSetType(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		variant, err := argString(req.Values, "variant")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		b.SetType(storage.Variant(variant))
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferClearStyles(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		b.ClearStyles()
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferPushStyle(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		name, err := argString(req.Values, "name")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		regex, err := argString(req.Values, "regex")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		b.PushStyle(name, regex)
		return redcall.OkResponse(nil)
	})
}

// argSignedInt accepts int, int64 and float64 (argInt's shapes other
// than uint32) and permits negative values, for the char-motion RedCalls
// whose count argument is signed.
func argSignedInt(values map[string]any, key string) (int, error) {
	v, err := argValue(values, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, editorerr.New(editorerr.ScriptFault, "argument %q: expected integer, got %T", key, v)
}
