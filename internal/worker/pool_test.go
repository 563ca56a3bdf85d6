package worker

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolProcessAllSucceed(t *testing.T) {
	p := New(4, 4)
	var n int32
	for i := 0; i < 12; i++ {
		p.Submit(func() (any, error) {
			atomic.AddInt32(&n, 1)
			return i, nil
		})
	}
	results, err := p.Process()
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)

	count := 0
	for range results {
		count++
	}
	assert.Equal(t, 12, count)
}

func TestPoolProcessAggregatesFailures(t *testing.T) {
	p := New(2, 2)
	boom1 := errors.New("boom-1")
	boom2 := errors.New("boom-2")

	p.Submit(func() (any, error) { return nil, boom1 })
	p.Submit(func() (any, error) { return "ok", nil })
	p.Submit(func() (any, error) { return nil, boom2 })

	results, err := p.Process()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom1)
	assert.ErrorIs(t, err, boom2)

	count := 0
	for range results {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestPoolQueueBoundSmallerThanBatchStillCompletes(t *testing.T) {
	p := New(2, 1)
	const total = 50
	for i := 0; i < total; i++ {
		p.Submit(func() (any, error) { return 1, nil })
	}
	results, err := p.Process()
	require.NoError(t, err)

	count := 0
	for range results {
		count++
	}
	assert.Equal(t, total, count)
}
