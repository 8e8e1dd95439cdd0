package icongen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/exec"
)

// EnvOutput is set to the master output path when running a hook.
const EnvOutput = "ICONGEN_OUTPUT"

// Hook is a shell command run after the icon has been written.
type Hook struct {
	command string
	logger  *slog.Logger
}

func NewHook(command string, logger *slog.Logger) *Hook {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hook{command: command, logger: logger}
}

// Run executes the hook for output. An empty command is a no-op.
func (h *Hook) Run(ctx context.Context, output string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if h == nil || strings.TrimSpace(h.command) == "" {
		return nil
	}
	c, args, err := buildCommand(h.command)
	if err != nil {
		return fmt.Errorf("failed to build hook command: %w", err)
	}
	cmd := exec.CommandContext(ctx, c, args...)
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", EnvOutput, output))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	h.logger.Debug("running hook", slog.String("command", h.command))
	if err := cmd.Run(); err != nil {
		h.logger.Error("failed to run hook", slog.String("command", h.command), slog.String("error", err.Error()))
		return fmt.Errorf("failed to run hook command: %w\nstderr: %s", err, stderr.String())
	}
	h.logger.Info("ran hook", slog.String("command", h.command), slog.String("stdout", strings.TrimSpace(stdout.String())))
	return nil
}

// buildCommand wraps cmdStr so that it runs through the user shell.
func buildCommand(cmdStr string) (string, []string, error) {
	shell, err := DetectShell()
	if err != nil {
		return "", nil, err
	}
	return shell, []string{"-c", cmdStr}, nil
}

// DetectShell returns the shell used to run hooks.
func DetectShell() (string, error) {
	shells := []string{
		os.Getenv("SHELL"),
		"/bin/bash",
		"/bin/sh",
	}
	for _, shell := range shells {
		if shell == "" {
			continue
		}
		if _, err := os.Stat(shell); err == nil {
			return shell, nil
		}
	}
	return "", fmt.Errorf("failed to detect shell")
}
