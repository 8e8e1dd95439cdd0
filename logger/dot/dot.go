package dot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
)

var (
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

var _ slog.Handler = (*dotHandler)(nil)

// dotHandler prints one colored marker per generation event and spins while watching.
type dotHandler struct {
	handler slog.Handler
	spinner *spinner.Spinner
	out     io.Writer
	prefix  []byte
}

// New returns a handler that writes markers to stderr.
func New(h slog.Handler) (_ *dotHandler, err error) {
	return NewWithWriter(h, colorable.NewColorableStderr())
}

func NewWithWriter(h slog.Handler, w io.Writer) (_ *dotHandler, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	if err := s.Color("yellow"); err != nil {
		return nil, err
	}
	s.Start()
	s.Disable()
	return &dotHandler{
		handler: h,
		spinner: s,
		out:     w,
	}, nil
}

func (h *dotHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *dotHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	if r.Message == "watching for changes" {
		if !h.spinner.Enabled() {
			h.spinner.Enable()
		}
		return nil
	}
	if h.spinner.Enabled() {
		h.spinner.Disable()
		_, _ = h.out.Write(h.prefix)
	}
	switch {
	case r.Message == "saved icon":
		return h.write([]byte(yellow(".")))
	case r.Message == "saved variant":
		return h.write([]byte(yellow("+")))
	case r.Message == "ran hook":
		return h.write([]byte(cyan("*")))
	case r.Message == "regenerated icon":
		return h.write([]byte(green("↻")))
	case strings.Contains(r.Message, "failed to"):
		return h.write([]byte(red("!")))
	case r.Message == "stopped watching":
		_, _ = h.out.Write([]byte("\n"))
		return nil
	}
	return nil
}

func (h *dotHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dotHandler{handler: h.handler.WithAttrs(attrs), spinner: h.spinner, out: h.out, prefix: h.prefix}
}

func (h *dotHandler) WithGroup(name string) slog.Handler {
	return &dotHandler{handler: h.handler.WithGroup(name), spinner: h.spinner, out: h.out, prefix: h.prefix}
}

// Close stops the spinner.
func (h *dotHandler) Close() {
	h.spinner.Stop()
}

func (h *dotHandler) write(s []byte) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	_, err = h.out.Write(s)
	if err != nil {
		return err
	}
	h.prefix = append(h.prefix, s...)
	return nil
}
