package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
)

// LogEntry is a decoded event line, fields that don't apply to the event
// type are left empty.
type LogEntry struct {
	Timestamp string   `json:"ts"`
	Level     string   `json:"level"`
	Event     string   `json:"event"`
	SessionID string   `json:"session_id"`
	Command   []string `json:"command,omitempty"`
	Stage     int      `json:"stage,omitempty"`
	Pid       int      `json:"pid,omitempty"`
	Stages    int      `json:"stages,omitempty"`
	Status    int      `json:"status,omitempty"`
	Error     string   `json:"error,omitempty"`

	User        string `json:"user,omitempty"`
	Host        string `json:"host,omitempty"`
	Dir         string `json:"dir,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
}

// CommandName returns the first word of the logged command, if any.
func (le *LogEntry) CommandName() string {
	if len(le.Command) == 0 {
		return ""
	}
	return le.Command[0]
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand     RunCommandReport     `json:"run_command_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	Pipeline       PipelineReport       `json:"pipeline_report"`
	Builtin        BuiltinReport        `json:"builtin_report"`
	InputErrors    StrCounter           `json:"input_errors"`
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		UnknownCommand: UnknownCommandReport{
			Errors: NewPathCounter("command", "error"),
		},
	}
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Event {
	case TypeSessionStart:
		r.Sessions++
	case TypeRunCommand:
		r.RunCommand.update(le)
	case TypeUnknownCommand:
		r.UnknownCommand.update(le)
	case TypePipelineExit:
		r.Pipeline.update(le)
	case TypeBuiltin:
		r.Builtin.update(le)
	case TypeInputError:
		r.InputErrors.Increment(le.Error)
	default:
		r.InvalidEntries.Increment(le.Event)
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.CommandName())
}

type UnknownCommandReport struct {
	CommandNames StrCounter   `json:"command_names"`
	Errors       *PathCounter `json:"errors"`
}

func (r *UnknownCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.CommandName())
	if r.Errors != nil {
		r.Errors.Increment(le.CommandName(), le.Error)
	}
}

type PipelineReport struct {
	Count int `json:"count"`
	// Longest number of processes chained on a single line.
	MaxStages int        `json:"max_stages"`
	Statuses  IntCounter `json:"statuses"`
}

func (r *PipelineReport) update(le *LogEntry) {
	r.Count++
	if le.Stages > r.MaxStages {
		r.MaxStages = le.Stages
	}
	r.Statuses.Increment(le.Status)
}

type BuiltinReport struct {
	Names    StrCounter `json:"names"`
	Failures StrCounter `json:"failures"`
}

func (r *BuiltinReport) update(le *LogEntry) {
	r.Names.Increment(le.CommandName())
	if le.Status != 0 {
		r.Failures.Increment(le.CommandName())
	}
}

// InteractionReport groups commands by session.
type InteractionReport struct {
	// Map of sessionID -> interactions
	interactions map[string]*InteractiveSession
}

type InteractiveSession struct {
	User        string   `json:"user"`
	Host        string   `json:"host"`
	StartDir    string   `json:"start_dir"`
	Interactive bool     `json:"interactive"`
	LogEntries  int      `json:"log_entries"`
	Commands    []string `json:"commands"`
}

func (i *InteractiveSession) Update(le *LogEntry) {
	i.LogEntries++

	switch le.Event {
	case TypeSessionStart:
		i.User = le.User
		i.Host = le.Host
		i.StartDir = le.Dir
		i.Interactive = le.Interactive
	case TypeRunCommand, TypeUnknownCommand, TypeBuiltin:
		i.Commands = append(i.Commands, strings.Join(le.Command, " "))
	}
}

func (i *InteractionReport) init() {
	if i.interactions == nil {
		i.interactions = make(map[string]*InteractiveSession)
	}
}

// MarshalJSON implements a custom JSON marshaler.
func (i *InteractionReport) MarshalJSON() ([]byte, error) {
	i.init()

	return json.Marshal(i.interactions)
}

// Session returns the report for a single session, or nil.
func (i *InteractionReport) Session(sessionID string) *InteractiveSession {
	i.init()
	return i.interactions[sessionID]
}

func (i *InteractionReport) Update(le *LogEntry) {
	i.init()

	if le.SessionID == "" {
		return
	}
	report, ok := i.interactions[le.SessionID]
	if !ok {
		report = &InteractiveSession{}
		i.interactions[le.SessionID] = report
	}

	report.Update(le)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

// IntCounter counts the number of ints seen.
type IntCounter struct {
	internal map[int]int
}

// Increment adds one to the given key.
func (c *IntCounter) Increment(toAdd int) {
	if c.internal == nil {
		c.internal = make(map[int]int)
	}

	c.internal[toAdd]++
}

// Get returns the count for key.
func (c *IntCounter) Get(key int) int {
	return c.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (c IntCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of times a tuple of strings was seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
