package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTrace(ctx))
	assert.Empty(t, GetRequestID(ctx))

	tc := &TraceContext{TraceID: "t-1", RequestID: "r-1"}
	ctx = WithTrace(ctx, tc)
	require.Same(t, tc, GetTrace(ctx))
	assert.Equal(t, "r-1", GetRequestID(ctx))
}

func TestSource(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetSource(ctx))

	ctx = WithSource(ctx, &Source{Channel: "whatsapp", ClientIP: "10.0.0.1"})
	require.NotNil(t, GetSource(ctx))
	assert.Equal(t, "whatsapp", GetSource(ctx).Channel)
	assert.Equal(t, "10.0.0.1", GetSource(ctx).ClientIP)
}
