package tx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventflow/pkg/eventflow"
	"github.com/randalmurphal/eventflow/pkg/eventflow/tx"
)

func TestExecutionContext_RecordEvent(t *testing.T) {
	execCtx := &tx.ExecutionContext{}
	assert.Nil(t, execCtx.LastEvent())

	first := eventflow.NewEvent("first")
	second := eventflow.NewEvent("second")

	execCtx.RecordEvent(first)
	assert.Equal(t, first, execCtx.LastEvent())

	execCtx.RecordEvent(nil)
	assert.Equal(t, first, execCtx.LastEvent(), "nil events are not recorded")

	execCtx.RecordEvent(second)
	assert.Equal(t, second, execCtx.LastEvent())
}

// orderInterceptor appends its tag on the way in.
type orderInterceptor struct {
	tag   string
	order *[]string
}

func (i *orderInterceptor) Execute(ctx context.Context, execCtx *tx.ExecutionContext, callback tx.Callback) (*eventflow.Event, error) {
	*i.order = append(*i.order, i.tag)
	return callback(ctx)
}

func TestChain_FirstInterceptorOutermost(t *testing.T) {
	var order []string
	callback := tx.Chain(
		func(context.Context) (*eventflow.Event, error) {
			order = append(order, "inner")
			return nil, nil
		},
		&tx.ExecutionContext{},
		&orderInterceptor{tag: "a", order: &order},
		&orderInterceptor{tag: "b", order: &order},
	)

	_, err := callback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "inner"}, order)
}

func TestCoordinatorFunc(t *testing.T) {
	called := false
	c := tx.CoordinatorFunc(func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, c.Resolve(context.Background()))
	assert.True(t, called)
}
