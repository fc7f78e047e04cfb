package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/pkg/common/uuid"
	"go.opentelemetry.io/otel/trace"
)

const RequestIDHeader = "X-Request-Id"

// LogWithWriter logs one line per request and tags the response with a request id.
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		reqID := ctx.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewV4().String()
		}
		ctx.Header(RequestIDHeader, reqID)

		ctx.Next()

		traceID := ""
		if sc := trace.SpanContextFromContext(ctx.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}
		Infof(ctx, "%s %s status: %d latency: %s request_id: %s trace_id: %s",
			ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status(),
			time.Since(start), reqID, traceID)
	}
}
