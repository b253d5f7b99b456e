package restyutil

import (
	"log/slog"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentClient attaches debug-level logging of every outbound request
// and its response to a resty client. Bodies are not logged, they may carry
// credentials.
func InstrumentClient(client *resty.Client, name string) {
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		slog.Debug("outbound request",
			"client", name,
			"method", req.Method,
			"url", req.URL,
			"trace_id", traceID(req),
		)
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		slog.Debug("response",
			"client", name,
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"duration", res.Time(),
			"trace_id", traceID(res.Request),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		slog.Debug("request failed",
			"client", name,
			"method", req.Method,
			"url", req.URL,
			"err", err,
		)
	})
}

func traceID(req *resty.Request) string {
	span := trace.SpanContextFromContext(req.Context())
	if !span.HasTraceID() {
		return ""
	}
	return span.TraceID().String()
}
