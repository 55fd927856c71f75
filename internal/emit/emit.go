// Package emit writes a generated build script to its destination.
package emit

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/deepalert/makegen/internal/errors"
)

// Stdout is the destination that selects standard output.
const Stdout = "-"

// Emitter writes finished scripts. It is only ever handed a fully rendered
// script, so a failed run never reaches it.
type Emitter struct {
	Fs     afero.Fs
	Stdout io.Writer
	// Perm is the mode of newly created files. A replaced file keeps its mode.
	Perm os.FileMode
}

// NewEmitter returns an Emitter on fs that prints to stdout.
func NewEmitter(fs afero.Fs, stdout io.Writer) *Emitter {
	return &Emitter{Fs: fs, Stdout: stdout, Perm: 0o644}
}

// Emit writes text to dest, or to Stdout when dest is "-". Files are written
// to a temporary sibling first and renamed into place, so the destination is
// either fully replaced or left untouched.
func (e *Emitter) Emit(dest, text string) error {
	if dest == Stdout {
		if _, err := io.WriteString(e.Stdout, text); err != nil {
			return errors.EmitFailed(dest, err)
		}

		return nil
	}

	dir := filepath.Dir(dest)
	tmp, err := afero.TempFile(e.Fs, dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return errors.EmitFailed(dest, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		_ = e.Fs.Remove(tmpName)
		return errors.EmitFailed(dest, err)
	}
	if err := tmp.Close(); err != nil {
		_ = e.Fs.Remove(tmpName)
		return errors.EmitFailed(dest, err)
	}
	if err := e.Fs.Chmod(tmpName, e.modeFor(dest)); err != nil {
		_ = e.Fs.Remove(tmpName)
		return errors.EmitFailed(dest, err)
	}
	if err := e.Fs.Rename(tmpName, dest); err != nil {
		_ = e.Fs.Remove(tmpName)
		return errors.EmitFailed(dest, err)
	}

	return nil
}

func (e *Emitter) modeFor(dest string) os.FileMode {
	if info, err := e.Fs.Stat(dest); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}

	return e.perm()
}

func (e *Emitter) perm() os.FileMode {
	if e.Perm == 0 {
		return 0o644
	}

	return e.Perm
}
