package http

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/freekieb7/httpd/http"

type Middleware func(next Handler) Handler

func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(req *Request, res *Response) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.ErrorContext(req.Context(), "handler panic", "target", req.Target, "panic", fmt.Sprint(recovered))

					res.Reset()
					res.WithStatus(StatusInternalServerError).WithText("something went wrong")
				}
			}()

			next(req, res)
		}
	}
}

func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(req *Request, res *Response) {
			start := time.Now()

			next(req, res)

			logger.InfoContext(req.Context(), "request served",
				"method", req.Method,
				"target", req.Target,
				"status", int(res.Status),
				"bytes", len(res.Body),
				"duration", time.Since(start),
			)
		}
	}
}

// TracingMiddleware starts a server span per request, continuing any trace
// context found in the request headers.
func TracingMiddleware(provider trace.TracerProvider, propagator propagation.TextMapPropagator) Middleware {
	tracer := provider.Tracer(instrumentationName)

	return func(next Handler) Handler {
		return func(req *Request, res *Response) {
			ctx := propagator.Extract(req.Context(), HeaderCarrier(req.Headers))

			spanName := req.Method
			if spanName == "" {
				spanName = "HTTP"
			}

			ctx, span := tracer.Start(ctx, spanName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("url.path", req.Target),
					attribute.String("network.protocol.version", req.Protocol),
				),
			)
			defer span.End()

			req.WithContext(ctx)

			next(req, res)

			span.SetAttributes(attribute.Int("http.response.status_code", int(res.Status)))
			if res.Status >= StatusInternalServerError {
				span.SetStatus(codes.Error, "")
			}
		}
	}
}

func MetricsMiddleware(provider metric.MeterProvider) (Middleware, error) {
	meter := provider.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of requests served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time spent in request handlers"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return func(next Handler) Handler {
		return func(req *Request, res *Response) {
			start := time.Now()

			next(req, res)

			attrs := metric.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.Int("http.response.status_code", int(res.Status)),
			)
			requestCount.Add(req.Context(), 1, attrs)
			requestDuration.Record(req.Context(), time.Since(start).Seconds(), attrs)
		}
	}, nil
}

// HeaderCarrier adapts Headers to propagation.TextMapCarrier. Lookups ignore
// case since propagators use lower-case keys.
type HeaderCarrier Headers

func (c HeaderCarrier) Get(key string) string {
	v, _ := Headers(c).GetFold(key)
	return v
}

func (c HeaderCarrier) Set(key, value string) {
	c[key] = value
}

func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
