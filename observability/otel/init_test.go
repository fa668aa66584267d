package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitRequiresServiceName(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true, Traces: true})
	require.Error(t, err)
}

func TestParseHeaders(t *testing.T) {
	headers := ParseHeaders("api-key=abc, tenant = stallion,broken,=x")
	require.Equal(t, map[string]string{"api-key": "abc", "tenant": "stallion"}, headers)
}

func TestTracerWithoutInit(t *testing.T) {
	_, span := Tracer("stallion/test").Start(context.Background(), "noop")
	span.End()
	require.False(t, span.SpanContext().IsValid())
}

func TestInitRejectsSampleRatio(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true, ServiceName: "stallond", SampleRatio: 1.5})
	require.Error(t, err)
}

func TestRunShutdownsKeepsFirstError(t *testing.T) {
	var order []int
	first := errors.New("first")
	err := runShutdowns(context.Background(), []ShutdownFunc{
		func(context.Context) error {
			order = append(order, 0)
			return errors.New("later")
		},
		func(context.Context) error {
			order = append(order, 1)
			return first
		},
	})
	require.ErrorIs(t, err, first)
	require.Equal(t, []int{1, 0}, order)
}
