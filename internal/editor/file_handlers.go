package editor

import (
	"context"

	"badred/internal/buffer"
	"badred/internal/editorerr"
	"badred/internal/hook"
	"badred/internal/redcall"
)

func (s *State) handleFileOpen(ctx context.Context, req redcall.Request) redcall.Response {
	path, err := argString(req.Values, "path")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	id := s.nextFileID
	s.nextFileID++
	s.files[id] = path
	return redcall.OkResponse(uint32(id))
}

func (s *State) handleFileClose(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if _, ok := s.files[buffer.FileId(id)]; !ok {
		return redcall.ErrResponse(editorerr.New(editorerr.InvalidFile, "file not found: %d", id))
	}
	delete(s.files, buffer.FileId(id))
	return redcall.OkResponse(nil)
}

func (s *State) handleBufferLinkFile(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		fileID, err := argUint32(req.Values, "file_id")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		path, ok := s.files[buffer.FileId(fileID)]
		if !ok {
			return redcall.ErrResponse(editorerr.New(editorerr.InvalidFile, "file not found: %d", fileID))
		}
		overwrite, err := argBool(req.Values, "overwrite")
		if err != nil {
			return redcall.ErrResponse(err)
		}
		linked, err := b.LinkFile(buffer.FileId(fileID), path, s.fileBackend, overwrite)
		if err != nil {
			return redcall.ErrResponse(err)
		}
		if s.watcher != nil {
			if watchErr := s.watcher.Watch(path); watchErr != nil {
				s.Logger.Warn("file watch failed", "path", path, "err", watchErr)
			}
		}
		if linked {
			s.FireHook(hook.BufferFileLinked, 0, false, map[string]any{
				"buffer_id": uint32(b.Id()),
				"file_id":   fileID,
				"path":      path,
			})
		}
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferUnlinkFile(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		var path string
		if fileID, ok := b.CurrentFile(); ok {
			path = s.files[fileID]
		}
		if err := b.UnlinkFile(); err != nil {
			return redcall.ErrResponse(err)
		}
		if s.watcher != nil && path != "" {
			s.watcher.Unwatch(path)
		}
		return redcall.OkResponse(nil)
	})
}

// HandleFileChanged is the event loop's entry point for one externally
// observed modification to a linked file, reported by the fileio
// watcher's goroutine via the loop's channel, never by the watcher
// calling in here directly, preserving the handlers-are-the-only-mutators
// rule. It fires the file_changed_on_disk hook with the changed path.
func (s *State) HandleFileChanged(path string) {
	s.FireHook(hook.FileChangedOnDisk, 0, false, map[string]any{"path": path})
}

func (s *State) handleBufferWriteToFile(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		if err := b.WriteToFile(s.fileBackend); err != nil {
			return redcall.ErrResponse(err)
		}
		return redcall.OkResponse(nil)
	})
}

func (s *State) handleBufferCurrentFile(ctx context.Context, req redcall.Request) redcall.Response {
	return s.withBuffer(req, func(b *buffer.Buffer) redcall.Response {
		id, ok := b.CurrentFile()
		if !ok {
			return redcall.ErrResponse(editorerr.New(editorerr.NotLinked, "buffer has no linked file"))
		}
		return redcall.OkResponse(uint32(id))
	})
}
