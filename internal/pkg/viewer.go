package pkg

import "context"

type viewerKey struct{}

// Viewer 当前请求的登录用户
type Viewer struct {
	ID       uint64
	Username string
}

func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFromContext returns the logged in user, if any.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(Viewer)
	return v, ok && v.ID != 0
}
