package intercept

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_SettleOnce(t *testing.T) {
	f, settle := NewFuture()

	_, _, ok := f.Result()
	assert.False(t, ok)

	settle("first", nil)
	settle("second", errors.New("ignored"))

	v, err, ok := f.Result()
	require.True(t, ok)
	assert.Equal(t, "first", v)
	assert.NoError(t, err)
}

func TestFuture_CallbacksRunBeforeDone(t *testing.T) {
	f, settle := NewFuture()

	var order []string
	f.onSettle(func(v any, err error) {
		select {
		case <-f.Done():
			order = append(order, "done-too-early")
		default:
			order = append(order, "first")
		}
	})
	f.onSettle(func(any, error) { order = append(order, "second") })

	settle(1, nil)
	<-f.Done()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestFuture_OnSettleAfterSettled(t *testing.T) {
	f := Resolved("v", nil)
	var got any
	f.onSettle(func(v any, _ error) { got = v })
	assert.Equal(t, "v", got)
}

func TestGo(t *testing.T) {
	ctx := context.Background()

	f := Go(ctx, func(context.Context) (any, error) { return 7, nil })
	v, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	errBoom := errors.New("boom")
	f = Go(ctx, func(context.Context) (any, error) { return nil, errBoom })
	_, err = f.Await(ctx)
	assert.Same(t, errBoom, err)

	f = Go(ctx, func(context.Context) (any, error) { panic("bad") })
	_, err = f.Await(ctx)
	assert.True(t, errors.Is(err, ErrFuturePanicked))
}

func TestFuture_AwaitCancelled(t *testing.T) {
	f, settle := NewFuture()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	settle("late", nil)
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", v, "a cancelled wait leaves the future intact")
}
