package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/josephlewis42/pipesh/core/dirstack"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/olekukonko/tablewriter"
)

// Builtin identifies a command the shell runs in-process.
type Builtin int

const (
	// BuiltinNone means the command is an external program.
	BuiltinNone Builtin = iota
	BuiltinCd
	BuiltinPushd
	BuiltinPopd
	BuiltinDirs
	BuiltinExit
)

// ShellBuiltinFunc runs a builtin, args[0] is the builtin's name.
type ShellBuiltinFunc func(s *Shell, args []string) int

type builtinDef struct {
	name  string
	use   string
	short string
	main  ShellBuiltinFunc
}

// AllBuiltins holds every builtin indexed by its identifier.
var AllBuiltins = [...]builtinDef{
	BuiltinCd: {
		name:  "cd",
		use:   "cd [DIR]",
		short: "Change the working directory to DIR, or home, replacing the top of the directory stack.",
	},
	BuiltinPushd: {
		name:  "pushd",
		use:   "pushd [DIR]",
		short: "Change the working directory to DIR, or home, and push it onto the directory stack.",
	},
	BuiltinPopd: {
		name:  "popd",
		use:   "popd",
		short: "Remove the top of the directory stack and change to the new top.",
	},
	BuiltinDirs: {
		name:  "dirs",
		use:   "dirs [-p | -v]",
		short: "Display the directory stack, most recent first.",
	},
	BuiltinExit: {
		name:  "exit",
		use:   "exit",
		short: "Exit the shell.",
	},
}

func init() {
	AllBuiltins[BuiltinCd].main = Cd
	AllBuiltins[BuiltinPushd].main = Pushd
	AllBuiltins[BuiltinPopd].main = Popd
	AllBuiltins[BuiltinDirs].main = Dirs
	AllBuiltins[BuiltinExit].main = Exit
}

var builtinsByName = func() map[string]Builtin {
	out := make(map[string]Builtin)
	for id, def := range AllBuiltins {
		if def.name != "" {
			out[def.name] = Builtin(id)
		}
	}
	return out
}()

// LookupBuiltin maps a command name to its builtin, or BuiltinNone.
func LookupBuiltin(name string) Builtin {
	return builtinsByName[name]
}

func (b Builtin) String() string {
	if b == BuiltinNone {
		return "none"
	}
	return AllBuiltins[b].name
}

// BuiltinInfo describes a builtin for listings.
type BuiltinInfo struct {
	Name  string
	Use   string
	Short string
}

// ListBuiltins returns every builtin in declaration order.
func ListBuiltins() []BuiltinInfo {
	var out []BuiltinInfo
	for _, def := range AllBuiltins {
		if def.name == "" {
			continue
		}
		out = append(out, BuiltinInfo{Name: def.name, Use: def.use, Short: def.short})
	}
	return out
}

func (s *Shell) command(b Builtin) *SimpleCommand {
	return &SimpleCommand{
		Use:   AllBuiltins[b].use,
		Short: AllBuiltins[b].short,
	}
}

// runBuiltin is the single place builtins are dispatched from.
func (s *Shell) runBuiltin(b Builtin, args []string) int {
	status := AllBuiltins[b].main(s, args)
	s.log.Record(&logger.Builtin{Command: args, Status: status})
	return status
}

// homeDir resolves the user's home directory, falling back to the root.
func (s *Shell) homeDir() string {
	home, err := s.VirtualOS.UserHomeDir()
	if err != nil || home == "" {
		return dirstack.RootDir
	}
	return home
}

// resolveDir picks the target of cd and pushd from their operands.
func (s *Shell) resolveDir(operands []string) string {
	if len(operands) == 0 {
		return s.homeDir()
	}
	return strings.ReplaceAll(operands[0], "~", s.homeDir())
}

// workingDir returns the OS working directory, or fallback if it can't be
// read.
func (s *Shell) workingDir(fallback string) string {
	wd, err := s.VirtualOS.Getwd()
	if err != nil {
		return fallback
	}
	return wd
}

func (s *Shell) errorf(args []string, format string, a ...interface{}) int {
	fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %s\n", args[0], fmt.Sprintf(format, a...))
	return 1
}

func (s *Shell) tooManyArguments(cmd *SimpleCommand, args []string) int {
	s.errorf(args, "too many arguments")
	fmt.Fprintf(s.VirtualOS.Stderr(), "usage: %s\n", cmd.Use)
	return 2
}

// changeDir runs the shared part of cd and pushd, returning the new working
// directory.
func (s *Shell) changeDir(cmd *SimpleCommand, args []string) (string, int) {
	operands := cmd.Flags().Args()
	if len(operands) > 1 {
		return "", s.tooManyArguments(cmd, args)
	}

	target := s.resolveDir(operands)
	if err := s.VirtualOS.Chdir(target); err != nil {
		return "", s.errorf(args, "%v", err)
	}
	return s.workingDir(target), 0
}

// Cd is the cd shell builtin.
func Cd(s *Shell, args []string) int {
	cmd := s.command(BuiltinCd)

	return cmd.Run(s.VirtualOS, args, func() int {
		dir, status := s.changeDir(cmd, args)
		if status != 0 {
			return status
		}
		s.Stack.ReplaceTop(dir)
		return 0
	})
}

// Pushd is the pushd shell builtin.
func Pushd(s *Shell, args []string) int {
	cmd := s.command(BuiltinPushd)

	return cmd.Run(s.VirtualOS, args, func() int {
		dir, status := s.changeDir(cmd, args)
		if status != 0 {
			return status
		}
		s.Stack.Push(dir)
		printStack(s.VirtualOS.Stdout(), s.Stack)
		return 0
	})
}

// Popd is the popd shell builtin.
func Popd(s *Shell, args []string) int {
	cmd := s.command(BuiltinPopd)

	return cmd.Run(s.VirtualOS, args, func() int {
		if len(cmd.Flags().Args()) > 0 {
			return s.tooManyArguments(cmd, args)
		}

		popped, err := s.Stack.Pop()
		if err != nil {
			return s.errorf(args, "%v", err)
		}

		if err := s.VirtualOS.Chdir(s.Stack.Top()); err != nil {
			s.Stack.Push(popped)
			return s.errorf(args, "%v", err)
		}

		printStack(s.VirtualOS.Stdout(), s.Stack)
		return 0
	})
}

// Dirs is the dirs shell builtin.
func Dirs(s *Shell, args []string) int {
	cmd := s.command(BuiltinDirs)
	perLine := cmd.Flags().Bool('p', "print one entry per line")
	verbose := cmd.Flags().Bool('v', "print one entry per line with its position in the stack")

	return cmd.Run(s.VirtualOS, args, func() int {
		if len(cmd.Flags().Args()) > 0 {
			return s.tooManyArguments(cmd, args)
		}

		w := s.VirtualOS.Stdout()
		switch {
		case *verbose:
			table := tablewriter.NewWriter(w)
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			table.SetColumnSeparator("")
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for i, dir := range s.Stack.Entries() {
				table.Append([]string{strconv.Itoa(i), dir})
			}
			table.Render()
		case *perLine:
			for _, dir := range s.Stack.Entries() {
				fmt.Fprintln(w, dir)
			}
		default:
			printStack(w, s.Stack)
		}
		return 0
	})
}

// Exit quits the shell, the rest of the line is abandoned.
func Exit(s *Shell, args []string) int {
	s.Quit = true
	return 0
}

func printStack(w io.Writer, stack *dirstack.Stack) {
	fmt.Fprintln(w, strings.Join(stack.Entries(), " "))
}
