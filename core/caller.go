package core

import (
	"context"

	"stallion/core/types"
)

type callerKey struct{}

// WithCaller attaches the verified caller identity to ctx.
func WithCaller(ctx context.Context, caller types.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller attached by WithCaller, or the zero address.
func CallerFrom(ctx context.Context) types.Address {
	if ctx == nil {
		return types.ZeroAddress
	}
	caller, _ := ctx.Value(callerKey{}).(types.Address)
	return caller
}
