package adapter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// TraceKind is the type of one trace event.
type TraceKind int

// Trace event kinds.
const (
	TraceStart TraceKind = iota
	TraceExecuted
	TraceVerified
	TraceStop
)

// TraceEvent is one line of a worker's event log.
type TraceEvent struct {
	Kind TraceKind
	Line int
	Path m.Path
}

// Trace is a parsed event log. Complete is false when the log ends
// without a stop event, which happens when the worker was killed.
type Trace struct {
	Worker   string
	Events   []TraceEvent
	Complete bool
}

// TraceReader parses event logs written by the Lua runtime hook:
//
//	start
//	x <line> <path>
//	v <line> <path>
//	stop
//
// Blank lines and lines starting with "#" are skipped. Relative paths are
// resolved against the directory of the log.
type TraceReader interface {
	ReadTrace(path m.Path) (Trace, error)
	Decode(r io.Reader, base string) (Trace, error)
}

// LocalTraceReader implements TraceReader for files on disk.
type LocalTraceReader struct{}

// NewLocalTraceReader constructs a LocalTraceReader.
func NewLocalTraceReader() *LocalTraceReader {
	return &LocalTraceReader{}
}

// ReadTrace opens and decodes the log at path.
func (r *LocalTraceReader) ReadTrace(path m.Path) (Trace, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return Trace{}, err
	}

	defer func() { _ = f.Close() }()

	abs, err := filepath.Abs(string(path))
	if err != nil {
		return Trace{}, err
	}

	return r.Decode(f, filepath.Dir(abs))
}

// Decode parses a log from rd.
func (r *LocalTraceReader) Decode(rd io.Reader, base string) (Trace, error) {
	var tr Trace

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	n := 0
	for sc.Scan() {
		n++

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		ev, err := parseTraceLine(text, base)
		if err != nil {
			return tr, fmt.Errorf("trace line %d: %w", n, err)
		}

		switch ev.Kind {
		case TraceStart:
			if fields := strings.Fields(text); len(fields) > 1 {
				if err := CheckWorkerID(fields[1]); err != nil {
					return tr, fmt.Errorf("trace line %d: %w", n, err)
				}

				tr.Worker = fields[1]
			}
		case TraceStop:
			tr.Complete = true
		}

		tr.Events = append(tr.Events, ev)
	}

	if err := sc.Err(); err != nil {
		return tr, err
	}

	return tr, nil
}

func parseTraceLine(text, base string) (TraceEvent, error) {
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)

	switch fields[0] {
	case "start":
		return TraceEvent{Kind: TraceStart}, nil
	case "stop":
		return TraceEvent{Kind: TraceStop}, nil
	case "x", "v":
	default:
		return TraceEvent{}, fmt.Errorf("unknown event %q", fields[0])
	}

	if len(fields) < 3 {
		return TraceEvent{}, fmt.Errorf("event %q: want \"%s <line> <path>\"", text, fields[0])
	}

	line, err := strconv.Atoi(fields[1])
	if err != nil || line <= 0 {
		return TraceEvent{}, fmt.Errorf("event %q: bad line number", text)
	}

	// the path is everything after the line field, inner blanks included
	rest := strings.TrimSpace(text[len(fields[0]):])
	path := strings.TrimSpace(rest[len(fields[1]):])

	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}

	kind := TraceExecuted
	if fields[0] == "v" {
		kind = TraceVerified
	}

	return TraceEvent{Kind: kind, Line: line, Path: m.Path(filepath.Clean(path))}, nil
}
