package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakePurger) DeleteOrphanValues(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return f.n, f.err
}

func TestRunOnce(t *testing.T) {
	p := &fakePurger{n: 4}
	assert.Equal(t, int64(4), NewScheduler(p).RunOnce(context.Background()))

	p = &fakePurger{n: 4, err: errors.New("db down")}
	assert.Equal(t, int64(0), NewScheduler(p).RunOnce(context.Background()))
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&fakePurger{})
	assert.Error(t, s.Start("every night"))
}

func TestStartRunsJob(t *testing.T) {
	p := &fakePurger{}
	s := NewScheduler(p)
	require.NoError(t, s.Start("* * * * * *"))
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return p.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
