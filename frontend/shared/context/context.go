package context

import (
	"context"
)

type pageSessionKey struct{}

func NewContextWithPageSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, pageSessionKey{}, id)
}

func GetPageSessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(pageSessionKey{}).(string)
	return id, ok && id != ""
}
