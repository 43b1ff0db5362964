// Package vos is the shell's view of the operating system. Every side effect
// the shell has on the process (working directory, environment, stdio and
// child processes) goes through a VOS so it can be swapped for a fake.
package vos

type VNetwork interface {
	Hostname() (string, error)
}

// VDir tracks the working directory.
type VDir interface {
	// Getwd returns a rooted path name corresponding to the current directory.
	Getwd() (dir string, err error)

	// Chdir changes the current working directory to the named directory.
	Chdir(dir string) error
}

// DefaultWidth is the terminal width assumed when the real one is unknown.
const DefaultWidth = 80

type PTY struct {
	Width  int
	Height int
	Term   string
	IsPTY  bool
}

// Columns is the usable terminal width, never less than one column.
func (p PTY) Columns() int {
	if p.Width <= 0 {
		return DefaultWidth
	}
	return p.Width
}

// VOS provides a virtual OS interface.
type VOS interface {
	VNetwork
	VEnv
	VIO
	VDir
	VProc

	GetPTY() PTY
}
