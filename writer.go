package wavmeta

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Writer replaces the metadata chunks of WAV files. The zero value is ready
// to use. A Writer holds no per-file state and may be shared between
// goroutines working on different files.
type Writer struct {
	// Now returns the timestamp embedded in the chunks. Defaults to time.Now.
	Now func() time.Time
	// Software overrides DefaultSoftware.
	Software string
	// Logger receives debug records. Nil discards them.
	Logger *slog.Logger

	registry *ChunkRegistry
}

// WriteMetadata rewrites the file at path in place with a zero-value Writer.
func WriteMetadata(path string, rec Record) error {
	return (&Writer{}).WriteFile(path, rec)
}

// WriteFile rewrites the file at path in place.
func (w *Writer) WriteFile(path string, rec Record) error {
	return w.Rewrite(path, path, rec)
}

// Rewrite reads src, replaces its metadata chunks and writes the result to
// dst, which may be src itself. dst is replaced atomically: on any error it
// is left as it was.
func (w *Writer) Rewrite(src, dst string, rec Record) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return newIOError("read", src, err)
	}

	out, container, err := w.render(data, filepath.Base(dst), rec)
	if err != nil {
		if errors.Is(err, ErrFormat) {
			return &WriteError{Op: "parse", Path: src, Kind: ErrFormat, Err: err}
		}

		return &WriteError{Op: "encode", Path: src, Kind: ErrIO, Err: err}
	}

	if err := writeFileAtomic(dst, out, filePerm(dst, src)); err != nil {
		return newIOError("write", dst, err)
	}

	w.logger().Debug("metadata written",
		"src", src,
		"dst", dst,
		"replaced", len(container.Dropped),
		"preserved", len(container.Foreign),
		"bytes", len(out))

	return nil
}

// Render returns data with its metadata chunks replaced, without touching
// the filesystem. filename is the base name embedded in the chunks.
func (w *Writer) Render(data []byte, filename string, rec Record) ([]byte, error) {
	out, _, err := w.render(data, filename, rec)
	return out, err
}

func (w *Writer) render(data []byte, filename string, rec Record) ([]byte, *Container, error) {
	registry := w.chunks()

	container, err := parseContainer(data, registry)
	if err != nil {
		return nil, nil, err
	}

	for _, c := range container.Dropped {
		w.logger().Debug("dropping metadata chunk", "id", string(c.ID[:]), "size", c.Size, "offset", c.Offset)
	}

	in := &EncodeInput{
		Fields:   Resolve(rec),
		Filename: filename,
		Now:      w.now(),
		Software: w.Software,
	}

	out, err := Assemble(registry.Encode(in), container.Foreign)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to assemble %s: %w", filename, err)
	}

	return out, container, nil
}

// SetChunkRegistry replaces the handlers used to encode chunks and to decide
// which input chunks get dropped. A nil registry restores the default one.
// It must not be called while the Writer is in use.
func (w *Writer) SetChunkRegistry(registry *ChunkRegistry) {
	w.registry = registry
}

func (w *Writer) chunks() *ChunkRegistry {
	if w.registry == nil {
		return NewChunkRegistry()
	}

	return w.registry
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}

	return w.Now()
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return w.Logger
}

// filePerm returns the permission bits of the first existing path.
func filePerm(paths ...string) fs.FileMode {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			return info.Mode().Perm()
		}
	}

	return 0o644
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// over path. An existing path must be writable. When path is a symlink the
// file it points to is replaced and the link is kept.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	path, err = resolveTarget(path)
	if err != nil {
		return err
	}

	probe, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err == nil {
		probe.Close()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}

	if err = tmp.Chmod(perm); err != nil {
		return err
	}

	if err = tmp.Sync(); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// resolveTarget follows symlinks to the file they point to. A path that
// doesn't exist yet is returned unchanged.
func resolveTarget(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}

	return "", err
}
