package globals

import (
	"context"

	"neko-backend/internal/components/telemetry"
	"neko-backend/internal/scrapers/jkanime"
)

type key struct{}

type Value struct {
	Client *jkanime.Client
	// Tel is scoped to the cli, the client carries its own scope.
	Tel  telemetry.API
	Json bool
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
