package log_test

import (
	"context"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/graph-gophers/bookshelf/log"
)

func TestNew(t *testing.T) {
	logger, err := log.New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = log.New("loud")
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", log.RequestID(context.Background()))

	ctx := log.WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", log.RequestID(ctx))
}

type panickingResolver struct{}

func (*panickingResolver) Hello() string {
	panic("something went wrong")
}

func TestPanicLogger(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	var calls int
	pl := &log.PanicLogger{Logger: zap.New(core), OnPanic: func() { calls++ }}

	schema := graphql.MustParseSchema(`
		type Query {
			hello: String!
		}
	`, &panickingResolver{}, graphql.Logger(pl))

	ctx := log.WithRequestID(context.Background(), "req-1")
	resp := schema.Exec(ctx, "{ hello }", "", nil)
	assert.NotEmpty(t, resp.Errors)

	entries := logs.FilterMessage("graphql: panic occurred").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "something went wrong", fields["panic"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, 1, calls)
}
