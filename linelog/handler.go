// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// groupOrAttrs holds either a group name or a list of slog.Attrs.
type groupOrAttrs struct {
	group string      // group name if non-empty
	attrs []slog.Attr // attrs if non-empty
}

type slogHandler struct {
	logger *Logger

	goas []groupOrAttrs
}

// Handler returns a slog.Handler that writes through the logger. Record
// attributes are appended to the message as key=value pairs and slog levels
// are rounded down to the nearest logger level.
func (l *Logger) Handler() slog.Handler {
	return &slogHandler{logger: l}
}

func (h *slogHandler) withGroupOrAttrs(goa groupOrAttrs) *slogHandler {
	h2 := *h
	h2.goas = make([]groupOrAttrs, len(h.goas)+1)
	copy(h2.goas, h.goas)
	h2.goas[len(h2.goas)-1] = goa
	return &h2
}

// WithGroup implements the WithGroup method for slog.Handler interface.
func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.withGroupOrAttrs(groupOrAttrs{group: name})
}

// WithAttrs implements the WithAttrs method for slog.Handler interface.
func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.withGroupOrAttrs(groupOrAttrs{attrs: attrs})
}

// Enabled implements the Enabled method for slog.Handler interface.
func (h *slogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.logger.Enabled(normalize(level))
}

// Handle implements the Handle method for slog.Handler interface.
func (h *slogHandler) Handle(ctx context.Context, r slog.Record) error {
	level := normalize(r.Level)
	if !h.logger.Enabled(level) {
		return nil
	}

	buf := getBuffer()
	defer bufs.Put(buf)
	h.format(buf, r)

	at := r.Time
	if at.IsZero() {
		at = h.logger.registry.now()
	}
	return h.logger.emit(&Record{
		Level:   level,
		Logger:  h.logger.name,
		Time:    at,
		Message: buf.String(),
	})
}

func (h *slogHandler) format(buf *bytes.Buffer, r slog.Record) {
	buf.WriteString(r.Message)

	// Handle state from WithGroup and WithAttrs.
	goas := h.goas
	if r.NumAttrs() == 0 {
		// If the record has no Attrs, remove groups at the end of the list; they are empty.
		for len(goas) > 0 && goas[len(goas)-1].group != "" {
			goas = goas[:len(goas)-1]
		}
	}

	prefix := ""
	for _, goa := range goas {
		if goa.group != "" {
			prefix = fmt.Sprintf("%s%s.", prefix, goa.group)
		} else {
			for _, a := range goa.attrs {
				appendAttr(buf, a, prefix)
			}
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(buf, a, prefix)
		return true
	})
}

func appendAttr(buf *bytes.Buffer, a slog.Attr, prefix string) {
	// Resolve the Attr's value before doing anything else.
	a.Value = a.Value.Resolve()
	// Ignore empty Attrs.
	if a.Equal(slog.Attr{}) {
		return
	}

	switch a.Value.Kind() {
	case slog.KindString:
		// Quote string values, to make them easy to parse.
		fmt.Fprintf(buf, " %s%s=%q", prefix, a.Key, a.Value.String())

	case slog.KindTime:
		// Write times in a standard way, without the monotonic time.
		fmt.Fprintf(buf, " %s%s=%s", prefix, a.Key, a.Value.Time().Format(time.RFC3339Nano))

	case slog.KindGroup:
		attrs := a.Value.Group()
		// Ignore empty groups.
		if len(attrs) == 0 {
			return
		}
		if a.Key != "" {
			prefix = fmt.Sprintf("%s%s.", prefix, a.Key)
		}
		for _, ga := range attrs {
			appendAttr(buf, ga, prefix)
		}

	default:
		fmt.Fprintf(buf, " %s%s=%s", prefix, a.Key, a.Value)
	}
}
