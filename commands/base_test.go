package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/pipesh/core/vos/vostest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	// Input is fed to the shell line by line.
	Input string
	// Setup runs before the shell starts.
	Setup func(tos *vostest.TestOS)
}

func newTestShell(t *testing.T, setup func(tos *vostest.TestOS)) (*Shell, *vostest.TestOS, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	tos := vostest.NewDeterministicOS(strings.NewReader(""), out, out)
	if setup != nil {
		setup(tos)
	}

	sh, err := NewShell(tos, nil, nil)
	require.NoError(t, err)
	return sh, tos, out
}

func (gts goldenTestSuite) Run(t *testing.T) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			sh, tos, out := newTestShell(t, tc.Setup)

			status := sh.Run(NewScriptReader(strings.NewReader(tc.Input), tos.Stdout()))
			sh.Wait()
			tos.Wait()
			fmt.Fprintf(tos.Stdout(), "[exit status %d]\n", status)

			g.Assert(t, tn, out.Bytes())
		})
	}
}

func TestSimpleCommand_Run(t *testing.T) {
	newCmd := func() *SimpleCommand {
		return &SimpleCommand{Use: "frob [-x]", Short: "Frobnicate things."}
	}

	t.Run("help", func(t *testing.T) {
		_, tos, out := newTestShell(t, nil)
		called := false
		status := newCmd().Run(tos, []string{"frob", "--help"}, func() int {
			called = true
			return 0
		})

		assert.Equal(t, 0, status)
		assert.False(t, called)
		assert.Contains(t, out.String(), "usage: frob [-x]\nFrobnicate things.\n")
	})

	t.Run("bad flag", func(t *testing.T) {
		_, tos, out := newTestShell(t, nil)
		status := newCmd().Run(tos, []string{"frob", "-x"}, func() int {
			return 0
		})

		assert.Equal(t, 2, status)
		assert.True(t, strings.HasPrefix(out.String(), "frob: "), out.String())
		assert.Contains(t, out.String(), "usage: frob [-x]")
	})

	t.Run("callback", func(t *testing.T) {
		_, tos, _ := newTestShell(t, nil)
		cmd := newCmd()
		x := cmd.Flags().Bool('x', "enable x")
		status := cmd.Run(tos, []string{"frob", "-x", "arg"}, func() int {
			assert.True(t, *x)
			assert.Equal(t, []string{"arg"}, cmd.Flags().Args())
			return 3
		})

		assert.Equal(t, 3, status)
	})
}

func TestColorPrinter(t *testing.T) {
	cases := map[string]struct {
		mode  string
		isPTY bool
		want  bool
	}{
		"always":        {"always", false, true},
		"never":         {"never", true, false},
		"auto terminal": {"auto", true, true},
		"auto pipe":     {"auto", false, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tos := vostest.NewDeterministicOS(nil, nil, nil)
			tos.PTY.IsPTY = tc.isPTY

			cp := NewColorPrinter(tc.mode, tos)
			assert.Equal(t, tc.want, cp.ShouldColor())

			got := cp.Sprintf(ColorBoldBlue, "%s", "dir")
			if tc.want {
				assert.Equal(t, "\x1b[34;1mdir\x1b[0m", got)
			} else {
				assert.Equal(t, "dir", got)
			}
		})
	}
}
