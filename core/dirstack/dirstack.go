// Package dirstack holds the shell's working directory history used by the
// cd, pushd, popd and dirs builtins.
package dirstack

import "errors"

// RootDir is returned by Top if the stack is somehow empty.
const RootDir = "/"

// ErrStackEmpty is returned when popping would remove the startup directory.
var ErrStackEmpty = errors.New("directory stack empty")

// Stack is an ordered list of directories, stored bottom first. The bottom
// entry is the directory the shell started in.
type Stack struct {
	dirs []string
}

// New creates a stack seeded with the startup directory.
func New(startDir string) *Stack {
	return &Stack{dirs: []string{startDir}}
}

// Len returns the number of entries on the stack.
func (s *Stack) Len() int {
	return len(s.dirs)
}

// Push adds dir as the new top.
func (s *Stack) Push(dir string) {
	s.dirs = append(s.dirs, dir)
}

// Pop removes and returns the top. The bottom entry is never removed, so
// ErrStackEmpty is returned if fewer than two entries remain.
func (s *Stack) Pop() (string, error) {
	if len(s.dirs) < 2 {
		return "", ErrStackEmpty
	}

	n := len(s.dirs) - 1
	top := s.dirs[n]
	s.dirs = s.dirs[:n]
	return top, nil
}

// Top returns the most recently entered directory.
func (s *Stack) Top() string {
	if len(s.dirs) == 0 {
		return RootDir
	}
	return s.dirs[len(s.dirs)-1]
}

// ReplaceTop swaps the top entry for dir, it's what a plain cd does.
func (s *Stack) ReplaceTop(dir string) {
	if len(s.dirs) > 0 {
		s.dirs = s.dirs[:len(s.dirs)-1]
	}
	s.dirs = append(s.dirs, dir)
}

// Entries returns a copy of the stack, top first.
func (s *Stack) Entries() []string {
	out := make([]string, 0, len(s.dirs))
	for i := len(s.dirs) - 1; i >= 0; i-- {
		out = append(out, s.dirs[i])
	}
	return out
}
