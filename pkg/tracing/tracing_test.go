package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return recorder
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan(t *testing.T) {
	recorder := installRecorder(t)

	t.Run("子Span继承TraceID", func(t *testing.T) {
		ctx, root := StartSpan(context.Background(), "bookshelf", "Checkout")
		_, child := StartSpan(ctx, "bookshelf", "CreateOrder")

		assert.Equal(t, root.SpanContext().TraceID(), child.SpanContext().TraceID())
		assert.NotEqual(t, root.SpanContext().SpanID(), child.SpanContext().SpanID())

		child.End()
		root.End()
	})

	t.Run("EndSpan记录错误", func(t *testing.T) {
		_, span := StartSpan(context.Background(), "bookshelf", "AddToCart")
		EndSpan(span, errors.New("库存不足"))

		ended := recorder.Ended()
		require.NotEmpty(t, ended)
		last := ended[len(ended)-1]
		assert.Equal(t, "AddToCart", last.Name())
		require.Len(t, last.Events(), 1)
		assert.Equal(t, "exception", last.Events()[0].Name)
	})
}

func TestExtractTraceID(t *testing.T) {
	installRecorder(t)

	t.Run("有效Context", func(t *testing.T) {
		ctx, span := StartSpan(context.Background(), "bookshelf", "ListBooks")
		defer span.End()
		assert.Len(t, ExtractTraceID(ctx), 32)
	})

	t.Run("无Span", func(t *testing.T) {
		assert.Equal(t, "", ExtractTraceID(context.Background()))
	})
}
