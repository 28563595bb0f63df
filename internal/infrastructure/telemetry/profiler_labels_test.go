package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestWithProfilingLabels(t *testing.T) {
	var route, method string
	var routeOK, emptyOK bool

	telemetry.WithProfilingLabels(context.Background(), map[string]string{
		telemetry.ProfilingLabelRoute:    "/api/v1/purchases/:id",
		telemetry.ProfilingLabelMethod:   "GET",
		telemetry.ProfilingLabelResource: "",
	}, func(ctx context.Context) {
		route, routeOK = pprof.Label(ctx, telemetry.ProfilingLabelRoute)
		method, _ = pprof.Label(ctx, telemetry.ProfilingLabelMethod)
		_, emptyOK = pprof.Label(ctx, telemetry.ProfilingLabelResource)
	})

	assert.True(t, routeOK)
	assert.Equal(t, "/api/v1/purchases/:id", route)
	assert.Equal(t, "GET", method)
	assert.False(t, emptyOK)
}

func TestWithProfilingLabels_TruncatesLongValues(t *testing.T) {
	var got string
	telemetry.WithProfilingLabels(context.Background(), map[string]string{
		telemetry.ProfilingLabelRoute: strings.Repeat("x", 300),
	}, func(ctx context.Context) {
		got, _ = pprof.Label(ctx, telemetry.ProfilingLabelRoute)
	})
	assert.Len(t, got, telemetry.MaxLabelValueLength)
}

func TestWithProfilingLabels_NoLabels(t *testing.T) {
	called := false
	telemetry.WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}
