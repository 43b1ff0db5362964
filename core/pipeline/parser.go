// Package pipeline parses command lines into stages and runs them as a chain
// of processes connected by pipes.
package pipeline

import "strings"

// Separator splits the stages of a line. Only the exact three-character
// sequence counts; a bare "|" is an ordinary argument.
const Separator = " | "

// Segment is one stage of a pipeline.
type Segment struct {
	// Name is the command to run, empty if the stage was blank.
	Name string
	Args []string
}

// Empty reports whether the segment is a no-op stage.
func (s Segment) Empty() bool {
	return s.Name == ""
}

// Argv returns the argument vector of the stage, starting with its name.
func (s Segment) Argv() []string {
	return append([]string{s.Name}, s.Args...)
}

// Parse splits line into its segments. The result always has at least one
// element; a blank line yields a single empty segment.
func Parse(line string) []Segment {
	raw := strings.Split(strings.TrimSpace(line), Separator)

	out := make([]Segment, 0, len(raw))
	for _, part := range raw {
		out = append(out, ParseSegment(part))
	}
	return out
}

// ParseSegment splits a single stage on runs of whitespace.
func ParseSegment(part string) Segment {
	fields := strings.Fields(part)
	if len(fields) == 0 {
		return Segment{}
	}
	seg := Segment{Name: fields[0]}
	if len(fields) > 1 {
		seg.Args = fields[1:]
	}
	return seg
}
