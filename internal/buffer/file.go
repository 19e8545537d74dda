package buffer

import "badred/internal/editorerr"

// FileId identifies a file handle owned by editor state. Buffers only
// ever hold this opaque id; path resolution and disk I/O happen through
// FileBackend, an external collaborator.
type FileId uint32

// FileBackend is the collaborator a buffer delegates file content to. The
// concrete disk-backed implementation lives in package fileio; tests use
// an in-memory fake.
type FileBackend interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte) error
}

// LinkFile associates the buffer with fileID/path. If overwrite is true,
// the buffer's content is replaced with the file's current bytes and the
// returned bool is true, signalling the caller (editor state) should fire
// the buffer_file_linked hook. Fails with AlreadyLinked if already linked.
func (b *Buffer) LinkFile(fileID FileId, path string, backend FileBackend, overwrite bool) (firedHook bool, err error) {
	if b.linked {
		return false, editorerr.New(editorerr.AlreadyLinked, "buffer already linked to a file")
	}
	if overwrite {
		content, readErr := backend.ReadFile(path)
		if readErr != nil {
			return false, editorerr.New(editorerr.IoFailure, "read %s: %v", path, readErr)
		}
		b.setContent(content)
	}
	b.linked = true
	b.fileID = fileID
	b.filePath = path
	return overwrite, nil
}

// UnlinkFile detaches the buffer from its file without touching content.
func (b *Buffer) UnlinkFile() error {
	if !b.linked {
		return editorerr.New(editorerr.NotLinked, "buffer has no linked file")
	}
	b.linked = false
	b.fileID = 0
	b.filePath = ""
	return nil
}

// WriteToFile writes the buffer's current content to its linked file.
func (b *Buffer) WriteToFile(backend FileBackend) error {
	if !b.linked {
		return editorerr.New(editorerr.NotLinked, "buffer has no linked file")
	}
	if err := backend.WriteFile(b.filePath, b.content()); err != nil {
		return editorerr.New(editorerr.IoFailure, "write %s: %v", b.filePath, err)
	}
	return nil
}

// CurrentFile reports the linked file id, if any.
func (b *Buffer) CurrentFile() (FileId, bool) {
	if !b.linked {
		return 0, false
	}
	return b.fileID, true
}
