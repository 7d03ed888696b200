// Package trace records GraphQL execution as Prometheus metrics and, optionally, Jaeger spans.
package trace

import (
	"context"
	"time"

	"github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"

	"github.com/graph-gophers/bookshelf/metrics"
)

// Tracer implements the graphql-go Tracer interface. It records operation and
// field metrics and hands every event on to Next, when set.
type Tracer struct {
	Metrics *metrics.Metrics
	Next    tracer.Tracer
}

var (
	_ tracer.Tracer           = (*Tracer)(nil)
	_ tracer.ValidationTracer = (*Tracer)(nil)
)

func (t *Tracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}, varTypes map[string]*introspection.Type) (context.Context, tracer.QueryFinishFunc) {
	var next tracer.QueryFinishFunc
	if t.Next != nil {
		ctx, next = t.Next.TraceQuery(ctx, queryString, operationName, variables, varTypes)
	}

	op := operationName
	if op == "" {
		op = "anonymous"
	}
	start := time.Now()

	return ctx, func(errs []*errors.QueryError) {
		status := "ok"
		if len(errs) > 0 {
			status = "error"
		}
		t.Metrics.Queries.WithLabelValues(op, status).Inc()
		t.Metrics.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if next != nil {
			next(errs)
		}
	}
}

func (t *Tracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	var next tracer.FieldFinishFunc
	if t.Next != nil {
		ctx, next = t.Next.TraceField(ctx, label, typeName, fieldName, trivial, args)
	}

	return ctx, func(err *errors.QueryError) {
		if err != nil {
			t.Metrics.FieldErrors.WithLabelValues(typeName, fieldName).Inc()
		}
		if next != nil {
			next(err)
		}
	}
}

func (t *Tracer) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	if vt, ok := t.Next.(tracer.ValidationTracer); ok {
		return vt.TraceValidation(ctx)
	}
	return func([]*errors.QueryError) {}
}
