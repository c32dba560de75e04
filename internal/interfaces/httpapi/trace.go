package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("courtside-sync/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// Handler spans and the session gate are recorded; helpers only run inside them.
var tracedSpanPrefixes = []string{
	"httpapi.Handler.",
	"httpapi.RequireSession",
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	for _, prefix := range tracedSpanPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// annotateSync tags span with the target table and payload size of a sync call.
func annotateSync(span trace.Span, role, tableID string, records int) {
	if !span.IsRecording() {
		return
	}
	attrs := make([]attribute.KeyValue, 0, 3)
	if role != "" {
		attrs = append(attrs, attribute.String("bitable.role", role))
	}
	if tableID != "" {
		attrs = append(attrs, attribute.String("bitable.table_id", tableID))
	}
	attrs = append(attrs, attribute.Int("bitable.records", records))
	span.SetAttributes(attrs...)
}

func annotateMatch(span trace.Span, matchID string) {
	if matchID == "" || !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.String("game.match_id", matchID))
}
