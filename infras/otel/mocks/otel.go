// Package mocks provides a tracer that discards every span, for service and repository tests.
package mocks

import (
	"context"

	"boatbook/infras/otel"
)

type otelImpl struct{}

func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (o *otelImpl) Shutdown(context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return &otelImpl{}
}
