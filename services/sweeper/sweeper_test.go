package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stallion/native/bounty"
)

type fakeSettler struct {
	mu      sync.Mutex
	due     []uint32
	fail    map[uint32]bool
	settled []uint32
	calls   int
}

func (f *fakeSettler) Now() int64 { return 500 }

func (f *fakeSettler) DueBounties(int64) ([]uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]uint32(nil), f.due...), nil
}

func (f *fakeSettler) CheckJudgingDeadline(_ context.Context, id uint32) (*bounty.AutoSettlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[id] {
		return nil, errors.New("transfer failed")
	}
	for _, done := range f.settled {
		if done == id {
			return &bounty.AutoSettlement{}, nil
		}
	}
	f.settled = append(f.settled, id)
	return &bounty.AutoSettlement{Settled: true, Applicants: 1, Share: big.NewInt(1), Dust: big.NewInt(0)}, nil
}

func (f *fakeSettler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunOnceContinuesPastFailures(t *testing.T) {
	settler := &fakeSettler{due: []uint32{1, 2, 3}, fail: map[uint32]bool{2: true}}
	s, err := New(settler, time.Minute, quietLogger(), nil)
	require.NoError(t, err)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []uint32{1, 3}, settler.settled)

	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRunOnceHonoursCancellation(t *testing.T) {
	settler := &fakeSettler{due: []uint32{1}}
	s, err := New(settler, time.Minute, quietLogger(), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.RunOnce(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStartRunsImmediately(t *testing.T) {
	settler := &fakeSettler{due: []uint32{7}}
	s, err := New(settler, time.Hour, quietLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool { return settler.callCount() > 0 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, time.Second, nil, nil)
	require.Error(t, err)
	_, err = New(&fakeSettler{}, 0, nil, nil)
	require.Error(t, err)
}
