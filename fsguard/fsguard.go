package fsguard

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/jmgilman/go/scope"
)

// ScratchDir is a guard that creates a uniquely-named directory on Enter and
// removes it, with everything inside, on Exit. Removal is unconditional: the
// directory does not survive a successful scope.
//
// The handle returned by Enter is a billy.Filesystem chrooted to the new
// directory, so the protected block cannot accidentally write outside it.
type ScratchDir struct {
	fs     billy.Filesystem
	dir    string
	prefix string

	path    string
	entered bool
	exited  bool
}

// NewScratchDir builds a scratch-directory guard. The directory is created
// under dir (the filesystem root if empty) with the given name prefix.
func NewScratchDir(fs billy.Filesystem, dir, prefix string) *ScratchDir {
	return &ScratchDir{fs: fs, dir: dir, prefix: prefix}
}

// Path returns the created directory's path. It is only valid between Enter
// and Exit.
func (g *ScratchDir) Path() string {
	return g.path
}

// Enter implements scope.Guard.
func (g *ScratchDir) Enter() (any, error) {
	if g.entered {
		return nil, scope.ErrGuardReused
	}
	g.entered = true

	path, err := makeScratchDir(g.fs, g.dir, g.prefix)
	if err != nil {
		return nil, scope.WrapError(err, scope.KindSetup, "failed to create scratch directory")
	}
	g.path = path

	scratch, err := g.fs.Chroot(path)
	if err != nil {
		// The directory exists but cannot be scoped; remove it so a
		// failed Enter leaves nothing behind.
		_ = removeAll(g.fs, path)
		g.path = ""
		return nil, scope.WrapError(err, scope.KindSetup, "failed to chroot scratch directory")
	}
	return scratch, nil
}

// Exit implements scope.Guard. It removes the directory regardless of
// outcome and never suppresses.
func (g *ScratchDir) Exit(scope.Outcome) (scope.Decision, error) {
	if g.exited {
		return scope.Propagate, scope.ErrGuardReused
	}
	g.exited = true

	if g.path == "" {
		return scope.Propagate, nil
	}
	if err := removeAll(g.fs, g.path); err != nil {
		return scope.Propagate, scope.WrapError(err, scope.KindTeardown, "failed to remove scratch directory")
	}
	return scope.Propagate, nil
}

// File is a guard that creates a file on Enter and closes it on Exit. With
// RemoveOnFailure, a failure outcome also deletes the file, discarding the
// partial write.
//
// The handle returned by Enter is the open billy.File.
type File struct {
	fs              billy.Filesystem
	path            string
	removeOnFailure bool

	file    billy.File
	entered bool
	exited  bool
}

// FileOption configures a File guard.
type FileOption func(*File)

// WithRemoveOnFailure deletes the file on a failure outcome after closing
// it, so a failed scope leaves no partially-written file behind.
func WithRemoveOnFailure() FileOption {
	return func(f *File) {
		f.removeOnFailure = true
	}
}

// NewFile builds a file guard that creates (or truncates) the named file.
func NewFile(fs billy.Filesystem, path string, opts ...FileOption) *File {
	f := &File{fs: fs, path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Enter implements scope.Guard.
func (g *File) Enter() (any, error) {
	if g.entered {
		return nil, scope.ErrGuardReused
	}
	g.entered = true

	file, err := g.fs.Create(g.path)
	if err != nil {
		return nil, scope.WrapErrorf(err, scope.KindSetup, "failed to create %s", g.path)
	}
	g.file = file
	return file, nil
}

// Exit implements scope.Guard. It closes the file, then removes it if the
// outcome failed and RemoveOnFailure is set. It never suppresses.
func (g *File) Exit(outcome scope.Outcome) (scope.Decision, error) {
	if g.exited {
		return scope.Propagate, scope.ErrGuardReused
	}
	g.exited = true

	closeErr := g.file.Close()

	if outcome.Failed() && g.removeOnFailure {
		if err := g.fs.Remove(g.path); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	if closeErr != nil {
		return scope.Propagate, scope.WrapErrorf(closeErr, scope.KindTeardown, "failed to release %s", g.path)
	}
	return scope.Propagate, nil
}

// makeScratchDir creates a uniquely-named directory, retrying on name
// collisions the way os.MkdirTemp does.
func makeScratchDir(fs billy.Filesystem, dir, prefix string) (string, error) {
	for range 10000 {
		name := fmt.Sprintf("%s%d", prefix, rand.Int64())
		path := fs.Join(dir, name)
		if _, err := fs.Stat(path); err == nil {
			continue
		}
		if err := fs.MkdirAll(path, 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", fmt.Errorf("exhausted scratch directory name candidates under %q", dir)
}

// removeAll removes path and any children it contains. Billy has no
// RemoveAll, so removal recurses over ReadDir.
func removeAll(fs billy.Filesystem, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		return fs.Remove(path)
	}

	entries, err := fs.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := removeAll(fs, filepath.ToSlash(filepath.Join(path, entry.Name()))); err != nil {
			return err
		}
	}
	return fs.Remove(path)
}
