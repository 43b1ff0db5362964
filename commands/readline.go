package commands

import (
	"bufio"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/vos"
)

// ErrInterrupt is returned by a LineReader when the user pressed Ctrl-C.
var ErrInterrupt = readline.ErrInterrupt

// LineReader reads input lines for the shell.
type LineReader interface {
	SetPrompt(prompt string)
	// Readline returns the next line without its terminator, io.EOF at the end
	// of input or ErrInterrupt if the line was abandoned.
	Readline() (string, error)
	Close() error
}

// NewLineReader picks how the shell reads input: a line editor on a terminal,
// plain lines from anything else.
func NewLineReader(virtOS vos.VOS, cfg *config.Configuration) (LineReader, error) {
	if !virtOS.GetPTY().IsPTY {
		return NewScriptReader(virtOS.Stdin(), nil), nil
	}
	return NewReadline(virtOS, cfg)
}

// NewReadline creates a line editor on the OS's standard streams, with
// history persisted according to cfg.
func NewReadline(virtOS vos.VOS, cfg *config.Configuration) (LineReader, error) {
	rlCfg := readlineConfig(virtOS, cfg)
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}
	return rl, nil
}

func readlineConfig(virtOS vos.VOS, cfg *config.Configuration) *readline.Config {
	var completions []readline.PrefixCompleterInterface
	for _, info := range ListBuiltins() {
		completions = append(completions, readline.PcItem(info.Name))
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit == 0 {
		historyLimit = -1
	}

	return &readline.Config{
		HistoryFile:     cfg.HistoryPath(),
		HistoryLimit:    historyLimit,
		AutoComplete:    readline.NewPrefixCompleter(completions...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		Stdin:  readline.NewCancelableStdin(virtOS.Stdin()),
		Stdout: virtOS.Stdout(),
		Stderr: virtOS.Stderr(),
		// readline loops forever redrawing a line on a zero width terminal.
		FuncGetWidth: func() int {
			return virtOS.GetPTY().Columns()
		},
		FuncIsTerminal: func() bool {
			return virtOS.GetPTY().IsPTY
		},
	}
}

type scriptReader struct {
	r      *bufio.Reader
	echo   io.Writer
	prompt string
}

var _ LineReader = (*scriptReader)(nil)

// NewScriptReader reads lines from r. Each prompt and the line read after it
// are written to echo so the output reads like a terminal session.
func NewScriptReader(r io.Reader, echo io.Writer) LineReader {
	if echo == nil {
		echo = io.Discard
	}
	return &scriptReader{r: bufio.NewReader(r), echo: echo}
}

func (sr *scriptReader) SetPrompt(prompt string) {
	sr.prompt = prompt
}

func (sr *scriptReader) Readline() (string, error) {
	io.WriteString(sr.echo, sr.prompt)

	line, err := sr.r.ReadString('\n')
	if err == io.EOF && line == "" {
		io.WriteString(sr.echo, "\n")
		return "", io.EOF
	}
	if err != nil && err != io.EOF {
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")
	io.WriteString(sr.echo, line+"\n")
	return line, nil
}

func (sr *scriptReader) Close() error {
	return nil
}
