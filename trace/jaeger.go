package trace

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerzap "github.com/uber/jaeger-client-go/log/zap"
	"go.uber.org/zap"
)

// NewJaeger builds a Jaeger tracer from the JAEGER_* environment and installs it
// as the global OpenTracing tracer. serviceName is used unless JAEGER_SERVICE_NAME is set.
// The returned closer flushes buffered spans.
func NewJaeger(serviceName string, logger *zap.Logger) (opentracing.Tracer, io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, nil, errors.Wrap(err, "trace: read jaeger env")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	t, closer, err := cfg.NewTracer(jaegercfg.Logger(jaegerzap.NewLogger(logger)))
	if err != nil {
		return nil, nil, errors.Wrap(err, "trace: create jaeger tracer")
	}
	opentracing.SetGlobalTracer(t)
	return t, closer, nil
}
