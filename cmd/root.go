/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/icongen/config"
	"github.com/k1LoW/icongen/logger/dot"
	"github.com/k1LoW/icongen/version"
	"github.com/k1LoW/tail"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

var (
	profile    string
	configFile string
	verbose    bool
	debug      bool
)

// tb keeps the latest JSON log lines for error.json.
var tb = tail.New(1000)

var rootCmd = &cobra.Command{
	Use:   "icongen",
	Short: "icongen generates a placeholder application icon",
	Long: `icongen generates a placeholder application icon.

Without arguments it writes a 512x512 PNG to src-tauri/icons/icon.png.
The output directory must already exist.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (rev:%s)", version.Version, version.Revision),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

type errorData struct {
	LatestLogs  []any     `json:"latest_logs"`
	StackTraces any       `json:"stack_traces"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Revision    string    `json:"revision"`
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if debug {
			dumpError(err)
		}
		os.Exit(1)
	}
	stop()
}

// dumpError writes the latest logs and stack traces to the state directory.
func dumpError(err error) {
	var latestLogs []any
	for _, line := range tb.Lines() {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			latestLogs = append(latestLogs, line)
		} else {
			latestLogs = append(latestLogs, m)
		}
	}
	d := &errorData{
		LatestLogs:  latestLogs,
		StackTraces: errors.StackTraces(err),
		CreatedAt:   time.Now(),
		Version:     version.Version,
		Revision:    version.Revision,
	}
	b, err := json.Marshal(d)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	dir := config.StateHomePath()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", dir, err)
		return
	}
	dumpPath := filepath.Join(dir, "error.json")
	if err := os.WriteFile(dumpPath, b, 0o600); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to write error.json to %s: %v\n", dumpPath, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "error details written to %s\n", dumpPath)
}

// newLogger fans out to the tail buffer, a text handler on stderr with --verbose,
// and the progress markers when progress is true.
func newLogger(stderr io.Writer, progress bool) (*slog.Logger, func(), error) {
	handlers := []slog.Handler{
		slog.NewJSONHandler(tb, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	closer := func() {}
	switch {
	case verbose:
		handlers = append(handlers, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case progress:
		var (
			h interface {
				slog.Handler
				Close()
			}
			err error
		)
		if stderr == io.Writer(os.Stderr) {
			h, err = dot.New(slog.NewTextHandler(io.Discard, nil))
		} else {
			h, err = dot.NewWithWriter(slog.NewTextHandler(io.Discard, nil), stderr)
		}
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, h)
		closer = h.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "", "", "profile name")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./icongen.yml, then $XDG_CONFIG_HOME/icongen/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print logs to stderr")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "", false, "write error.json with logs and stack traces on failure")
}
