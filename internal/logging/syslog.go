package logging

import (
	"context"
	"fmt"
	"log/slog"
	"log/syslog"
	"strings"
)

// syslogHandler adapts slog records onto a syslog writer. Severity mapping:
// Debug->debug, Info->info, Warn->warning, Error->err.
type syslogHandler struct {
	w      *syslog.Writer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func newSyslogHandler(w *syslog.Writer, level slog.Level) *syslogHandler {
	return &syslogHandler{w: w, level: level}
}

func (h *syslogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *syslogHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Message)

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		appendAttr(&b, prefix, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, prefix, a)
		return true
	})

	msg := b.String()
	switch {
	case record.Level >= slog.LevelError:
		return h.w.Err(msg)
	case record.Level >= slog.LevelWarn:
		return h.w.Warning(msg)
	case record.Level >= slog.LevelInfo:
		return h.w.Info(msg)
	default:
		return h.w.Debug(msg)
	}
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	fmt.Fprintf(b, "%v", a.Value.Resolve().Any())
}

func (h *syslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &syslogHandler{w: h.w, level: h.level, attrs: merged, groups: h.groups}
}

func (h *syslogHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &syslogHandler{w: h.w, level: h.level, attrs: h.attrs, groups: groups}
}
