package schedule

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/locsync/internal/model"
	"github.com/gyeh/locsync/internal/transfer"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (r *countingRunner) Run(ctx context.Context) (*model.RunSummary, error) {
	r.calls.Add(1)
	time.Sleep(r.delay)
	if r.err != nil {
		return nil, r.err
	}
	return &model.RunSummary{RunID: "r"}, nil
}

func TestNew_RejectsBadSpec(t *testing.T) {
	_, err := New("every two hours", &countingRunner{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNext_EveryTwoHours(t *testing.T) {
	tr, err := New("0 */2 * * *", &countingRunner{}, zerolog.Nop())
	require.NoError(t, err)

	from := time.Date(2024, 7, 1, 3, 15, 0, 0, time.Local)
	next := tr.Next(from)
	assert.Equal(t, time.Date(2024, 7, 1, 4, 0, 0, 0, time.Local), next)
	assert.Equal(t, 2*time.Hour, tr.Next(next).Sub(next))
}

func TestStart_RunsImmediatelyAndOnSchedule(t *testing.T) {
	r := &countingRunner{}
	tr, err := New("@every 1s", r, zerolog.Nop())
	require.NoError(t, err)

	tr.Start(context.Background())
	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, time.Second, 10*time.Millisecond, "startup run")
	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 3*time.Second, 50*time.Millisecond, "scheduled run")
	tr.Stop()

	after := r.calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, r.calls.Load(), "no runs after Stop")
}

func TestStop_WaitsForInFlightRun(t *testing.T) {
	r := &countingRunner{delay: 300 * time.Millisecond}
	tr, err := New("0 */2 * * *", r, zerolog.Nop())
	require.NoError(t, err)

	tr.Start(context.Background())
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	start := time.Now()
	tr.Stop()
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestFire_SkipsWhenRunInProgress(t *testing.T) {
	var buf bytes.Buffer
	r := &countingRunner{err: transfer.ErrRunInProgress}
	tr, err := New("0 */2 * * *", r, zerolog.New(&buf))
	require.NoError(t, err)

	tr.fire("test")
	tr.fire("test")
	assert.Equal(t, int32(2), r.calls.Load())

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "previous run still in progress, skipping"))
	assert.Contains(t, out, `"level":"warn"`)
	assert.NotContains(t, out, "run failed")
}

func TestFire_LogsRunFailure(t *testing.T) {
	var buf bytes.Buffer
	r := &countingRunner{err: errors.New("store unreachable")}
	tr, err := New("0 */2 * * *", r, zerolog.New(&buf))
	require.NoError(t, err)

	tr.fire("test")
	out := buf.String()
	assert.Contains(t, out, "run failed")
	assert.Contains(t, out, "store unreachable")
	assert.NotContains(t, out, "skipping")
}
