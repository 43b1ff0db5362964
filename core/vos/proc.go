package vos

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// VFS is the filesystem fake operating systems resolve executables against.
type VFS = afero.Fs

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// VProc creates pipes and child processes.
type VProc interface {
	// Pipe returns a connected pair of streams, bytes written to w can be read
	// from r.
	Pipe() (r io.ReadCloser, w io.WriteCloser, err error)

	// StartProcess starts a new process with the program, arguments and
	// attributes specified by name, argv and attr. The argv slice normally
	// starts with the program name.
	//
	// StartProcess always takes ownership of attr.Owned, including when it
	// returns an error.
	StartProcess(name string, argv []string, attr *ProcAttr) (Process, error)
}

// Process is a started child process.
type Process interface {
	Pid() int

	// Wait blocks until the process exits and releases its resources.
	Wait() error
}

type ProcAttr struct {
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// If Env is non-nil, it gives the environment variables for the
	// new process in the form returned by Environ.
	// If it is nil, the result of Environ will be used.
	Env []string

	// Files specifies the open files inherited by the new process.
	Files VIO

	// Owned holds the parent's handles to streams in Files that are being
	// moved into the child. They're closed as soon as the child holds its own
	// copy, or when the child exits if it shares the parent's handle.
	Owned []io.Closer
}

// ExitError reports a process that ran but exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the process exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitStatus converts the result of Process.Wait into a shell status code.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}

	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) && coder.ExitCode() >= 0 {
		return coder.ExitCode()
	}
	return 1
}

func findExecutable(fsys VFS, file string) error {
	d, err := fsys.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches fsys for an executable named file in the directories
// named by pathEnv. If file contains a slash, it is tried directly (relative
// to dir) and pathEnv is not consulted.
func LookPath(fsys VFS, pathEnv, dir, file string) (string, error) {
	if strings.Contains(file, "/") {
		if !path.IsAbs(file) {
			file = path.Join(dir, file)
		}
		err := findExecutable(fsys, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, searchDir := range filepath.SplitList(pathEnv) {
		if searchDir == "" {
			// Unix shell semantics: path element "" means "."
			searchDir = dir
		}
		candidate := path.Join(searchDir, file)
		if err := findExecutable(fsys, candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}
