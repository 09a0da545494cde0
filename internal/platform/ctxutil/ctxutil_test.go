package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLogFields(t *testing.T) {
	require.Empty(t, LogFields(context.Background()))
	require.Nil(t, GetTraceData(nil))
	require.Nil(t, GetRequestData(nil))

	user := uuid.New()
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	ctx = WithRequestData(ctx, &RequestData{UserID: user, TokenString: "tok"})
	require.Equal(t, []interface{}{"trace_id", "t1", "request_id", "r1", "user_id", user.String()}, LogFields(ctx))

	anon := WithRequestData(context.Background(), &RequestData{})
	require.Empty(t, LogFields(anon))
}
