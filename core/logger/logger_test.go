package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func recordAll(t *testing.T, level zapcore.Level, events ...Event) (string, []*LogEntry) {
	t.Helper()

	buf := &bytes.Buffer{}
	session := NewJSONLinesRecorder(buf, level).NewSession()
	for _, ev := range events {
		session.Record(ev)
	}

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(bytes.NewReader(buf.Bytes()), func(le *LogEntry) {
		entries = append(entries, le)
	}))
	return session.SessionID(), entries
}

func TestSessionLogger_Record(t *testing.T) {
	id, entries := recordAll(t, zapcore.InfoLevel,
		&SessionStart{User: "u", Host: "h", Dir: "/home/u", Interactive: true},
		&RunCommand{Command: []string{"seq", "3"}, Stage: 0, Pid: 7},
		&UnknownCommand{Command: []string{"nope"}, Stage: 1, Error: "not found"},
		&PipelineExit{Stages: 2, Status: 1},
		&Builtin{Command: []string{"cd"}},
	)

	require.Len(t, entries, 4, "debug events are filtered at info level")
	assert.NotEmpty(t, id)
	for _, le := range entries {
		assert.Equal(t, id, le.SessionID)
		assert.NotEmpty(t, le.Timestamp)
	}

	assert.Equal(t, TypeSessionStart, entries[0].Event)
	assert.Equal(t, "u", entries[0].User)
	assert.True(t, entries[0].Interactive)

	assert.Equal(t, []string{"seq", "3"}, entries[1].Command)
	assert.Equal(t, 7, entries[1].Pid)

	assert.Equal(t, "warn", entries[2].Level)
	assert.Equal(t, "not found", entries[2].Error)

	assert.Equal(t, 2, entries[3].Stages)
	assert.Equal(t, 1, entries[3].Status)
}

func TestLogger_NewSession_unique(t *testing.T) {
	l := NewNopRecorder()
	assert.NotEqual(t, l.NewSession().SessionID(), l.NewSession().SessionID())
	assert.Empty(t, l.Sessionless().SessionID())

	// Nop recorders accept events.
	l.NewSession().Record(&InputError{Error: "boom"})
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	_, entries := recordAll(t, zapcore.DebugLevel,
		&SessionStart{User: "u"},
		&RunCommand{Command: []string{"seq", "3"}},
		&RunCommand{Command: []string{"wc", "-l"}, Stage: 1},
		&PipelineExit{Stages: 2},
		&UnknownCommand{Command: []string{"nope"}, Error: "not found"},
		&UnknownCommand{Command: []string{"nope"}, Error: "not found"},
		&Builtin{Command: []string{"popd"}, Status: 1},
		&InputError{Error: "bad read"},
	)

	report := NewReport()
	interactions := &InteractionReport{}
	for _, le := range entries {
		report.Update(le)
		interactions.Update(le)
	}

	assert.Equal(t, 8, report.LogEntries)
	assert.Equal(t, 1, report.Sessions)
	assert.Equal(t, 1, report.RunCommand.CommandNames.Get("seq"))
	assert.Equal(t, 2, report.UnknownCommand.Errors.Get("nope", "not found"))
	assert.Equal(t, 2, report.Pipeline.MaxStages)
	assert.Equal(t, 1, report.Pipeline.Statuses.Get(0))
	assert.Equal(t, 1, report.Builtin.Failures.Get("popd"))
	assert.Equal(t, 1, report.InputErrors.Get("bad read"))

	_, err := json.Marshal(report)
	assert.NoError(t, err)

	out, err := json.Marshal(interactions)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"commands":["seq 3","wc -l","nope","nope","popd"]`)
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader(`{"event": "builtin"}{`), func(*LogEntry) {})
	assert.Error(t, err)
}

func ExamplePathCounter() {
	ctr := NewPathCounter("command", "error")
	ctr.Increment("nope", "not found")
	ctr.Increment("nope", "not found")
	ctr.Increment("zzz", "permission denied")

	out, _ := json.Marshal(ctr)
	fmt.Println(string(out))
	// Output: [{"count":2,"event":{"command":"nope","error":"not found"}},{"count":1,"event":{"command":"zzz","error":"permission denied"}}]
}
