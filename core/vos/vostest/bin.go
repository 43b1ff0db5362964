package vostest

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// DefaultPrograms are installed in every NewDeterministicOS.
var DefaultPrograms = map[string]ProcessFunc{
	"cat":   Cat,
	"echo":  Echo,
	"false": False,
	"head":  Head,
	"pwd":   Pwd,
	"seq":   Seq,
	"upper": Upper,
	"wc":    Wc,
	"yes":   Yes,
}

// Echo writes its arguments separated by spaces.
func Echo(p *Proc) int {
	fmt.Fprintln(p.Stdout, strings.Join(p.Args[1:], " "))
	return 0
}

// Cat copies its files, or stdin if there are none, to stdout.
func Cat(p *Proc) int {
	if len(p.Args) == 1 {
		if _, err := io.Copy(p.Stdout, p.Stdin); err != nil {
			return 1
		}
		return 0
	}

	for _, arg := range p.Args[1:] {
		fd, err := p.FS.Open(p.abs(arg))
		if err != nil {
			fmt.Fprintf(p.Stderr, "cat: %s: No such file or directory\n", arg)
			return 1
		}

		_, err = io.Copy(p.Stdout, fd)
		fd.Close()
		if err != nil {
			return 1
		}
	}
	return 0
}

// False always fails.
func False(p *Proc) int {
	return 1
}

// Head copies the first -n lines of stdin.
func Head(p *Proc) int {
	opts := getopt.New()
	lines := opts.Int('n', 10, "number of lines")
	if err := opts.Getopt(p.Args, nil); err != nil {
		fmt.Fprintf(p.Stderr, "head: %v\n", err)
		return 1
	}

	r := bufio.NewReader(p.Stdin)
	for i := 0; i < *lines; i++ {
		line, err := r.ReadString('\n')
		if _, werr := io.WriteString(p.Stdout, line); werr != nil {
			return 1
		}
		if err != nil {
			break
		}
	}
	return 0
}

// Pwd prints the directory the program was started in.
func Pwd(p *Proc) int {
	fmt.Fprintln(p.Stdout, p.Dir)
	return 0
}

// Seq prints the numbers 1 through N.
func Seq(p *Proc) int {
	if len(p.Args) != 2 {
		fmt.Fprintln(p.Stderr, "usage: seq LAST")
		return 1
	}
	last, err := strconv.Atoi(p.Args[1])
	if err != nil {
		fmt.Fprintf(p.Stderr, "seq: invalid argument: %q\n", p.Args[1])
		return 1
	}

	for i := 1; i <= last; i++ {
		if _, err := fmt.Fprintln(p.Stdout, i); err != nil {
			return 1
		}
	}
	return 0
}

// Upper copies stdin to stdout in upper case.
func Upper(p *Proc) int {
	data, err := io.ReadAll(p.Stdin)
	if err != nil {
		return 1
	}
	if _, err := io.WriteString(p.Stdout, strings.ToUpper(string(data))); err != nil {
		return 1
	}
	return 0
}

// Yes writes "y" lines until its output is closed.
func Yes(p *Proc) int {
	for {
		if _, err := io.WriteString(p.Stdout, "y\n"); err != nil {
			return 1
		}
	}
}

type wcCount struct {
	bytes int
	lines int
	words int

	inSpace bool
}

func (w *wcCount) Write(data []byte) (int, error) {
	for _, c := range data {
		isFirstByte := w.bytes == 0
		w.bytes++

		if c == '\n' {
			w.lines++
		}

		if unicode.IsSpace(rune(c)) {
			w.inSpace = true
		} else {
			if w.inSpace || isFirstByte {
				w.words++
			}
			w.inSpace = false
		}
	}

	return len(data), nil
}

// Wc counts the newlines, words and bytes on stdin.
func Wc(p *Proc) int {
	opts := getopt.New()
	writeLines := opts.Bool('l', "write the number of newlines")
	if err := opts.Getopt(p.Args, nil); err != nil {
		fmt.Fprintf(p.Stderr, "wc: %v\n", err)
		return 1
	}

	var count wcCount
	if _, err := io.Copy(&count, p.Stdin); err != nil {
		return 1
	}

	if *writeLines {
		fmt.Fprintln(p.Stdout, count.lines)
	} else {
		fmt.Fprintln(p.Stdout, count.lines, count.words, count.bytes)
	}
	return 0
}

func (p *Proc) abs(name string) string {
	if path.IsAbs(name) {
		return name
	}
	return path.Join(p.Dir, name)
}

// WriteFile is a helper to seed the fake filesystem.
func (t *TestOS) WriteFile(name string, data string) error {
	if err := t.FS.MkdirAll(path.Dir(name), 0755); err != nil {
		return err
	}
	return afero.WriteFile(t.FS, name, []byte(data), 0644)
}
