package service

import "context"

type requestMetaKey struct{}

// RequestMeta carries the client network details of the current request so
// audit entries can record them. Populated by the HTTP layer.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// WithRequestMeta returns a context carrying the given request metadata.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// MetaFromContext extracts request metadata from the context. Missing fields
// come back as "unknown" so audit rows are never empty.
func MetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)

	if meta.IP == "" {
		meta.IP = "unknown"
	}

	if meta.UserAgent == "" {
		meta.UserAgent = "unknown"
	}

	return meta
}
