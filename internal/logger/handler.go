package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// secretKeys are attribute names whose values never reach the log.
var secretKeys = map[string]bool{
	"password": true,
	"token":    true,
	"secret":   true,
}

// PrettyHandler writes one colored line per record, suited to CI job logs.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	// preformatted attributes from With
	bound []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{opts: opts, mu: &sync.Mutex{}, w: w}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := append([]string{levelBadge(r.Level), r.Message}, h.bound...)
	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.formatAttr(a))
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			fields = append(fields, color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, strings.Join(fields, " ")+"\n")
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.bound = make([]string, len(h.bound), len(h.bound)+len(attrs))
	copy(next.bound, h.bound)
	for _, a := range attrs {
		next.bound = append(next.bound, h.formatAttr(a))
	}
	return &next
}

// WithGroup prefixes later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func levelBadge(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return color.HiBlackString("[DEBUG]")
	case slog.LevelInfo:
		return color.CyanString("[INFO] ")
	case slog.LevelWarn:
		return color.YellowString("[WARN] ")
	case slog.LevelError:
		return color.RedString("[ERROR]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func (h *PrettyHandler) formatAttr(a slog.Attr) string {
	val := a.Value.String()
	if secretKeys[strings.ToLower(a.Key)] && val != "" {
		val = "****"
	}
	key := h.prefix + a.Key

	switch a.Key {
	case "error", "err":
		return color.RedString("%s=%s", key, val)
	case "duration_ms":
		return color.MagentaString("%s=%s", key, val)
	case "project", "branch", "recipients":
		return color.CyanString("%s=%s", key, val)
	case "count", "metrics":
		return color.GreenString("%s=%s", key, val)
	default:
		return color.HiBlackString("%s=%s", key, val)
	}
}
