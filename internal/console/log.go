package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"
)

// orderedTextHandler is a slog handler with a fixed field order:
// time level trace_id msg [other fields...]. Keeping trace_id in a stable
// position makes grepping one console action across the log trivial.
type orderedTextHandler struct {
	w     io.Writer
	opts  slog.HandlerOptions
	attrs []slog.Attr
}

// newOrderedTextHandler creates the handler writing to w at the given level.
func newOrderedTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return &orderedTextHandler{
		w:    w,
		opts: slog.HandlerOptions{Level: level},
	}
}

// NewToolLogger returns a logger for per-tool-call logging with the ordered
// text format.
func NewToolLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(newOrderedTextHandler(w, level))
}

func (h *orderedTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *orderedTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 512)

	buf = append(buf, "time="...)
	buf = r.Time.AppendFormat(buf, time.RFC3339Nano)
	buf = append(buf, " level="...)
	buf = append(buf, r.Level.String()...)

	traceID := "-"
	var rest []slog.Attr

	all := make([]slog.Attr, 0, len(h.attrs)+8)
	all = append(all, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, a)
		return true
	})
	for _, a := range all {
		if a.Key == "trace_id" && a.Value.Kind() == slog.KindString {
			traceID = a.Value.String()
			continue
		}
		rest = append(rest, a)
	}

	buf = append(buf, " trace_id="...)
	buf = append(buf, traceID...)
	buf = append(buf, " msg="...)
	buf = append(buf, r.Message...)

	for _, a := range rest {
		buf = append(buf, ' ')
		buf = append(buf, a.Key...)
		buf = append(buf, '=')
		buf = appendValue(buf, a.Value)
	}
	buf = append(buf, '\n')

	_, err := h.w.Write(buf)
	return err
}

func (h *orderedTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &orderedTextHandler{w: h.w, opts: h.opts, attrs: merged}
}

// WithGroup is accepted but groups are flattened; the console logs no nested
// structures.
func (h *orderedTextHandler) WithGroup(string) slog.Handler {
	return h
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return append(buf, v.String()...)
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().AppendFormat(buf, time.RFC3339Nano)
	case slog.KindGroup:
		for i, a := range v.Group() {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, a.Key...)
			buf = append(buf, '=')
			buf = appendValue(buf, a.Value)
		}
		return buf
	default:
		if err, ok := v.Any().(error); ok {
			return append(buf, err.Error()...)
		}
		return append(buf, fmt.Sprintf("%+v", v.Any())...)
	}
}
