package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/vos"
	getopt "github.com/pborman/getopt/v2"
)

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was successful call the callback. args
// holds the full argument vector including the command name.
func (s *SimpleCommand) Run(stdio vos.VIO, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(args, nil); err != nil {
		fmt.Fprintf(stdio.Stderr(), "%s: %s\n", args[0], err)
		s.PrintHelp(stdio.Stderr())
		return 2
	}

	if *s.ShowHelp {
		s.PrintHelp(stdio.Stdout())
		return 0
	}

	return callback()
}

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
)

// ColorPrinter colours output according to a configured mode.
type ColorPrinter struct {
	mode   string
	virtOS vos.VOS
}

// NewColorPrinter creates a printer for one of the config.Color* modes.
func NewColorPrinter(mode string, virtOS vos.VOS) *ColorPrinter {
	return &ColorPrinter{mode: mode, virtOS: virtOS}
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case c.mode == config.ColorNever:
		return false
	case c.mode == config.ColorAlways:
		return true
	default:
		return c.virtOS.GetPTY().IsPTY
	}
}

func (c *ColorPrinter) Sprintf(clr *color.Color, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}

	// fatih/color disables itself when the host stdout isn't a terminal, the
	// shell decides for itself.
	forced := *clr
	forced.EnableColor()
	return forced.Sprintf(format, a...)
}
