// Package gitcmd runs external version-control tools and captures their output.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Invocation describes a single external tool call.
type Invocation struct {
	Program string
	Args    []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdin, when non-nil, is written in full to the process input and then closed.
	Stdin []byte
}

// String renders the invocation for logs and error messages.
func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Program
	}
	return inv.Program + " " + strings.Join(inv.Args, " ")
}

// Result holds everything captured from a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Success  bool
}

// Runner abstracts process execution so callers can be tested without git.
type Runner interface {
	// Run executes inv and waits for it. A non-zero exit is reported through
	// Result.Success, never as an error. Errors mean the process could not be
	// launched (*LaunchError) or the context ended.
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// LaunchError reports that a program could not be started at all.
type LaunchError struct {
	Program string
	Dir     string
	Err     error
}

func (e *LaunchError) Error() string {
	if e.Dir == "" {
		return fmt.Sprintf("launch %s: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("launch %s in %s: %v", e.Program, e.Dir, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// NewExecRunner returns a Runner that spawns real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if inv.Stdin != nil {
		// exec copies the reader into the pipe and closes it once drained,
		// so the child sees EOF before we block in Wait.
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	err := cmd.Run()
	res := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, &LaunchError{Program: inv.Program, Dir: inv.Dir, Err: err}
	}

	res.Success = true
	return res, nil
}
