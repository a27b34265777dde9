package repo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/worklog/internal/gitcmd"
	wlog "github.com/bartekus/worklog/internal/log"
)

// fakeRunner answers by working directory and is safe for concurrent use.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]gitcmd.Result
	errs    map[string]error
	calls   []gitcmd.Invocation

	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeRunner) Run(ctx context.Context, inv gitcmd.Invocation) (gitcmd.Result, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inv)
	if err, ok := f.errs[inv.Dir]; ok {
		return gitcmd.Result{}, err
	}
	if res, ok := f.results[inv.Dir]; ok {
		return res, nil
	}
	return gitcmd.Result{Success: true}, ctx.Err()
}

func quietLogger() *slog.Logger {
	return wlog.Discard()
}

func TestProber_Fetch(t *testing.T) {
	runner := &fakeRunner{}
	p := NewProber(runner, WithGitBinary("/usr/bin/git"), WithLogger(quietLogger()))

	require.NoError(t, p.Fetch(context.Background(), "/src/a"))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, gitcmd.Invocation{Program: "/usr/bin/git", Args: []string{"fetch", "--all"}, Dir: "/src/a"}, runner.calls[0])
}

func TestProber_FetchFailure(t *testing.T) {
	runner := &fakeRunner{results: map[string]gitcmd.Result{
		"/src/a": {ExitCode: 128, Stderr: []byte("fatal: unable to access remote\n")},
	}}
	p := NewProber(runner, WithLogger(quietLogger()))

	err := p.Fetch(context.Background(), "/src/a")

	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 128, cerr.ExitCode)
	assert.Equal(t, "fatal: unable to access remote", cerr.Stderr)
	assert.Equal(t, "git fetch --all in /src/a exited 128: fatal: unable to access remote", err.Error())
}

func TestProber_CheckUpdates(t *testing.T) {
	runner := &fakeRunner{results: map[string]gitcmd.Result{
		"/src/stale":  {Success: true, Stderr: []byte("From github.com:x/y\n   a..b  main -> origin/main\n")},
		"/src/fresh":  {Success: true},
		"/src/broken": {ExitCode: 1},
	}}
	p := NewProber(runner, WithLogger(quietLogger()))
	ctx := context.Background()

	updates, err := p.CheckUpdates(ctx, "/src/stale")
	require.NoError(t, err)
	assert.True(t, updates)

	updates, err = p.CheckUpdates(ctx, "/src/fresh")
	require.NoError(t, err)
	assert.False(t, updates)

	_, err = p.CheckUpdates(ctx, "/src/broken")
	var cerr *CommandError
	assert.True(t, errors.As(err, &cerr))

	assert.Equal(t, []string{"fetch", "--all", "--dry-run"}, runner.calls[0].Args)
}

func TestProber_LaunchErrorPassesThrough(t *testing.T) {
	launch := &gitcmd.LaunchError{Program: "git", Err: errors.New("not found")}
	runner := &fakeRunner{errs: map[string]error{"/src/a": launch}}
	p := NewProber(runner, WithLogger(quietLogger()))

	err := p.Fetch(context.Background(), "/src/a")

	var lerr *gitcmd.LaunchError
	assert.True(t, errors.As(err, &lerr))
}

func TestProber_FetchAllKeepsOrderAndSoftFails(t *testing.T) {
	runner := &fakeRunner{results: map[string]gitcmd.Result{
		"/src/b": {ExitCode: 1, Stderr: []byte("boom")},
	}}
	var done atomic.Int32
	p := NewProber(runner, WithLogger(quietLogger()), WithOnDone(func(Outcome) { done.Add(1) }))

	out, err := p.FetchAll(context.Background(), []string{"/src/a", "/src/b", "/src/c"})
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, "/src/a", out[0].Path)
	assert.NoError(t, out[0].Err)
	assert.Equal(t, "/src/b", out[1].Path)
	assert.Error(t, out[1].Err)
	assert.Equal(t, "/src/c", out[2].Path)
	assert.NoError(t, out[2].Err)
	assert.Equal(t, int32(3), done.Load())
}

func TestProber_CheckAll(t *testing.T) {
	runner := &fakeRunner{results: map[string]gitcmd.Result{
		"/src/a": {Success: true, Stderr: []byte("  x..y main -> origin/main")},
	}}
	p := NewProber(runner, WithLogger(quietLogger()))

	out, err := p.CheckAll(context.Background(), []string{"/src/a", "/src/b"})
	require.NoError(t, err)

	assert.True(t, out[0].Updates)
	assert.False(t, out[1].Updates)
}

func TestProber_ConcurrencyIsBounded(t *testing.T) {
	runner := &fakeRunner{delay: 20 * time.Millisecond}
	p := NewProber(runner, WithLogger(quietLogger()), WithConcurrency(2))

	paths := make([]string, 8)
	for i := range paths {
		paths[i] = "/src/" + strings.Repeat("r", i+1)
	}

	out, err := p.FetchAll(context.Background(), paths)
	require.NoError(t, err)

	assert.Len(t, out, 8)
	assert.LessOrEqual(t, runner.peak.Load(), int32(2))
	assert.Len(t, runner.calls, 8)
}

func TestProber_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProber(&fakeRunner{}, WithLogger(quietLogger()))
	_, err := p.FetchAll(ctx, []string{"/src/a"})

	assert.ErrorIs(t, err, context.Canceled)
}
