package commands

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/josephlewis42/pipesh/core/dirstack"
	"github.com/josephlewis42/pipesh/core/vos/vostest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertTopIsCwd(t *testing.T, sh *Shell) {
	t.Helper()

	wd, err := sh.VirtualOS.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, sh.Stack.Top(), "top of the stack must track the working directory")
}

func TestLookupBuiltin(t *testing.T) {
	cases := map[string]Builtin{
		"cd":    BuiltinCd,
		"pushd": BuiltinPushd,
		"popd":  BuiltinPopd,
		"dirs":  BuiltinDirs,
		"exit":  BuiltinExit,
		"CD":    BuiltinNone,
		"ls":    BuiltinNone,
		"":      BuiltinNone,
	}

	for name, want := range cases {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			assert.Equal(t, want, LookupBuiltin(name))
		})
	}

	for _, info := range ListBuiltins() {
		assert.Equal(t, info.Name, LookupBuiltin(info.Name).String())
		assert.NotNil(t, AllBuiltins[LookupBuiltin(info.Name)].main, info.Name)
	}
	assert.Equal(t, "none", BuiltinNone.String())
}

func TestPushdDirs(t *testing.T) {
	sh, _, out := newTestShell(t, nil)

	var pushed []string
	for _, dir := range []string{"/tmp", "/var/log", "/usr/bin", "/bin"} {
		pushed = append([]string{dir}, pushed...)
		out.Reset()

		assert.Equal(t, 0, Pushd(sh, []string{"pushd", dir}))
		assert.Equal(t, strings.Join(append(pushed, vostest.Home), " ")+"\n", out.String())
		assertTopIsCwd(t, sh)
	}

	out.Reset()
	assert.Equal(t, 0, Dirs(sh, []string{"dirs"}))
	assert.Equal(t, "/bin /usr/bin /var/log /tmp /home/tester\n", out.String())
}

func TestPopd(t *testing.T) {
	t.Run("only the startup directory", func(t *testing.T) {
		sh, tos, out := newTestShell(t, nil)
		require.NoError(t, tos.Chdir("/tmp"))

		assert.Equal(t, 1, Popd(sh, []string{"popd"}))
		assert.Equal(t, "popd: directory stack empty\n", out.String())
		assert.Equal(t, 1, sh.Stack.Len())

		wd, _ := tos.Getwd()
		assert.Equal(t, "/tmp", wd, "a failed popd doesn't change directory")
	})

	t.Run("round trip", func(t *testing.T) {
		sh, _, out := newTestShell(t, nil)

		Pushd(sh, []string{"pushd", "/tmp"})
		assert.Equal(t, []string{"/tmp", vostest.Home}, sh.Stack.Entries())

		out.Reset()
		assert.Equal(t, 0, Popd(sh, []string{"popd"}))
		assert.Equal(t, vostest.Home+"\n", out.String())
		assert.Equal(t, []string{vostest.Home}, sh.Stack.Entries())
		assertTopIsCwd(t, sh)
	})

	t.Run("new top vanished", func(t *testing.T) {
		sh, tos, out := newTestShell(t, nil)
		require.NoError(t, tos.FS.MkdirAll("/tmp/gone", 0755))

		Pushd(sh, []string{"pushd", "/tmp/gone"})
		Pushd(sh, []string{"pushd", "/var/log"})
		require.NoError(t, tos.FS.RemoveAll("/tmp/gone"))

		out.Reset()
		assert.Equal(t, 1, Popd(sh, []string{"popd"}))
		assert.Equal(t, "popd: chdir /tmp/gone: no such file or directory\n", out.String())
		assert.Equal(t, []string{"/var/log", "/tmp/gone", vostest.Home}, sh.Stack.Entries(), "the pop is rolled back")
		assertTopIsCwd(t, sh)
	})

	t.Run("operands", func(t *testing.T) {
		sh, _, out := newTestShell(t, nil)

		assert.Equal(t, 2, Popd(sh, []string{"popd", "+1"}))
		assert.Equal(t, "popd: too many arguments\nusage: popd\n", out.String())
	})
}

func TestCd(t *testing.T) {
	cases := map[string]struct {
		args    []string
		wantDir string
		wantOut string
		status  int
	}{
		"no args":     {[]string{"cd"}, vostest.Home, "", 0},
		"tilde":       {[]string{"cd", "~"}, vostest.Home, "", 0},
		"tilde path":  {[]string{"cd", "~/../.."}, "/", "", 0},
		"absolute":    {[]string{"cd", "/var/log"}, "/var/log", "", 0},
		"relative":    {[]string{"cd", "../../tmp"}, "/tmp", "", 0},
		"missing":     {[]string{"cd", "/nope"}, "/usr", "cd: chdir /nope: no such file or directory\n", 1},
		"not a dir":   {[]string{"cd", "/usr/file"}, "/usr", "cd: chdir /usr/file: not a directory\n", 1},
		"two targets": {[]string{"cd", "/tmp", "/bin"}, "/usr", "cd: too many arguments\nusage: cd [DIR]\n", 2},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sh, tos, out := newTestShell(t, func(tos *vostest.TestOS) {
				tos.WriteFile("/usr/file", "")
				tos.Chdir("/usr")
			})

			assert.Equal(t, tc.status, Cd(sh, tc.args))
			assert.Equal(t, tc.wantOut, out.String())

			wd, _ := tos.Getwd()
			assert.Equal(t, tc.wantDir, wd)
			assert.Equal(t, 1, sh.Stack.Len(), "cd never grows the stack")
			assertTopIsCwd(t, sh)
		})
	}
}

func TestCd_noHome(t *testing.T) {
	sh, tos, _ := newTestShell(t, nil)
	tos.Unsetenv("HOME")

	assert.Equal(t, 0, Cd(sh, []string{"cd"}))
	assert.Equal(t, []string{dirstack.RootDir}, sh.Stack.Entries())
}

func TestPushd_failure(t *testing.T) {
	sh, _, out := newTestShell(t, nil)

	assert.Equal(t, 1, Pushd(sh, []string{"pushd", "/nope"}))
	assert.Equal(t, "pushd: chdir /nope: no such file or directory\n", out.String())
	assert.Equal(t, []string{vostest.Home}, sh.Stack.Entries())
}

func TestDirs_flags(t *testing.T) {
	sh, _, out := newTestShell(t, nil)
	Pushd(sh, []string{"pushd", "/tmp"})

	out.Reset()
	assert.Equal(t, 0, Dirs(sh, []string{"dirs", "-p"}))
	assert.Equal(t, "/tmp\n/home/tester\n", out.String())

	out.Reset()
	assert.Equal(t, 0, Dirs(sh, []string{"dirs", "-v"}))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, regexp.MustCompile(`^\s*0\s+/tmp\s*$`), lines[0])
	assert.Regexp(t, regexp.MustCompile(`^\s*1\s+/home/tester\s*$`), lines[1])

	out.Reset()
	assert.Equal(t, 2, Dirs(sh, []string{"dirs", "extra"}))
}

func TestBuiltins_help(t *testing.T) {
	for _, info := range ListBuiltins() {
		if info.Name == "exit" {
			continue
		}
		t.Run(info.Name, func(t *testing.T) {
			sh, _, out := newTestShell(t, nil)

			status := sh.runBuiltin(LookupBuiltin(info.Name), []string{info.Name, "--help"})
			assert.Equal(t, 0, status)
			assert.True(t, strings.HasPrefix(out.String(), "usage: "+info.Use+"\n"+info.Short+"\n"), out.String())
			assert.Equal(t, []string{vostest.Home}, sh.Stack.Entries(), "--help has no side effects")
		})
	}
}

func TestExit(t *testing.T) {
	sh, _, _ := newTestShell(t, nil)

	assert.Equal(t, 0, Exit(sh, []string{"exit"}))
	assert.True(t, sh.Quit)
}
