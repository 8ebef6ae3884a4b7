// Package fsguard provides filesystem-backed guards for the scope package.
//
// The guards operate on any go-billy filesystem, so the same code runs
// against the local disk (osfs), an in-memory filesystem (memfs), or any
// other billy implementation. Acquisition creates filesystem state and
// teardown removes or closes it, with the exactly-once and reverse-order
// guarantees provided by the scope package.
//
// # Quick Start
//
// A scratch directory that exists only for the duration of the scope:
//
//	fs := memfs.New()
//	scratch := fsguard.NewScratchDir(fs, "", "build-")
//	err := scope.Compose(scratch).Run(func(handles []any) error {
//	    dir := handles[0].(billy.Filesystem)
//	    return render(dir)
//	})
package fsguard
