package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_WithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, Config{ServiceName: "lendbook-test"})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "calculate")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}
