// Package devtools records Redis commands issued while building a chart so
// they can be reported with --debug.
package devtools

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLogLimit = 500

type originKey struct{}

// EntryKind describes the type of a tracked entry.
type EntryKind int

const (
	// EntryCommand represents a single Redis command.
	EntryCommand EntryKind = iota
	// EntryPipelineBegin marks the start of a pipeline execution.
	EntryPipelineBegin
	// EntryPipelineExec marks the execution of a pipeline.
	EntryPipelineExec
)

func (k EntryKind) String() string {
	switch k {
	case EntryCommand:
		return "command"
	case EntryPipelineBegin:
		return "pipeline"
	case EntryPipelineExec:
		return "exec"
	default:
		return "unknown"
	}
}

// Entry captures a single tracked entry.
type Entry struct {
	Kind     EntryKind
	Command  string
	Duration time.Duration
}

// LogEntry captures a single tracked log line.
type LogEntry struct {
	Seq    uint64
	Time   time.Time
	Origin string
	Entry  Entry
}

// Tracker keeps the most recent Redis commands in a ring buffer.
type Tracker struct {
	logLimit int
	logMu    sync.RWMutex
	log      []LogEntry
	logHead  int
	logFull  bool
	logSeq   uint64
}

// NewTracker creates a tracker holding up to 500 entries.
func NewTracker() *Tracker {
	return NewTrackerWithLimit(defaultLogLimit)
}

// NewTrackerWithLimit creates a tracker holding up to limit entries.
// A zero limit disables tracking.
func NewTrackerWithLimit(limit int) *Tracker {
	return &Tracker{
		logLimit: max(limit, 0),
	}
}

// WithOrigin returns a context carrying the origin label.
func WithOrigin(ctx context.Context, origin string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFromContext extracts the origin label from context.
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value := ctx.Value(originKey{}); value != nil {
		if origin, ok := value.(string); ok {
			return origin
		}
	}
	return ""
}

// LogEntries returns the tracked entries in chronological order.
func (t *Tracker) LogEntries() []LogEntry {
	t.logMu.RLock()
	defer t.logMu.RUnlock()
	if len(t.log) == 0 {
		return nil
	}
	if !t.logFull {
		return append([]LogEntry(nil), t.log...)
	}
	result := make([]LogEntry, 0, len(t.log))
	result = append(result, t.log[t.logHead:]...)
	result = append(result, t.log[:t.logHead]...)
	return result
}

// AppendLog appends a log entry to the ring buffer.
func (t *Tracker) AppendLog(entry LogEntry) {
	if t == nil || t.logLimit == 0 {
		return
	}

	t.logMu.Lock()
	defer t.logMu.Unlock()
	entry.Seq = t.logSeq
	t.logSeq++
	if len(t.log) < t.logLimit {
		t.log = append(t.log, entry)
		if len(t.log) == t.logLimit {
			t.logHead = 0
			t.logFull = true
		}
		return
	}
	t.log[t.logHead] = entry
	t.logHead = (t.logHead + 1) % t.logLimit
	t.logFull = true
}

// Report writes every tracked entry to logger at debug level.
func (t *Tracker) Report(ctx context.Context, logger *slog.Logger) {
	for _, entry := range t.LogEntries() {
		logger.DebugContext(ctx, "redis",
			slog.Uint64("seq", entry.Seq),
			slog.String("origin", entry.Origin),
			slog.String("kind", entry.Entry.Kind.String()),
			slog.String("command", entry.Entry.Command),
			slog.String("took", FormatDuration(entry.Entry.Duration)),
		)
	}
}

// Hook returns a Redis hook for tracking commands.
func (t *Tracker) Hook() redis.Hook {
	return hook{tracker: t}
}

// FormatDuration renders a compact duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

type hook struct {
	tracker *Tracker
}

func (h hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(ctx, EntryCommand, formatCommand(cmd), time.Since(start))
		return err
	}
}

func (h hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if len(cmds) == 0 {
			return next(ctx, cmds)
		}
		h.record(ctx, EntryPipelineBegin, "", 0)
		start := time.Now()
		err := next(ctx, cmds)
		for _, cmd := range cmds {
			h.record(ctx, EntryCommand, formatCommand(cmd), 0)
		}
		h.record(ctx, EntryPipelineExec, "", time.Since(start))
		return err
	}
}

func (h hook) record(ctx context.Context, kind EntryKind, command string, duration time.Duration) {
	if h.tracker == nil {
		return
	}
	origin := OriginFromContext(ctx)
	if origin == "" {
		origin = originFromCallers()
	}
	if origin == "" {
		origin = "unknown"
	}
	h.tracker.AppendLog(LogEntry{
		Time:   time.Now(),
		Origin: origin,
		Entry: Entry{
			Kind:     kind,
			Command:  command,
			Duration: duration,
		},
	})
}

// originFromCallers names the first store function on the stack.
func originFromCallers() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(4, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fn := frame.Function
		if strings.Contains(fn, "/internal/store.") || strings.Contains(fn, "/internal/store/") {
			return shortFuncName(fn)
		}
		if !more {
			break
		}
	}
	return ""
}

func shortFuncName(fn string) string {
	if idx := strings.LastIndex(fn, "/"); idx >= 0 {
		fn = fn[idx+1:]
	}
	fn = strings.TrimSuffix(fn, ".func1")
	fn = strings.ReplaceAll(fn, "(*", "")
	fn = strings.ReplaceAll(fn, ")", "")
	return fn
}

func formatCommand(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) == 0 {
		return cmd.Name()
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ")
}
