package context

import "context"

// Source describes where an incoming order came from.
type Source struct {
	Channel  string // whatsapp, email, voice, web...
	ClientIP string
}

type sourceKey struct{}

// WithSource adds Source to context.
func WithSource(ctx context.Context, src *Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

// GetSource returns Source from context.
func GetSource(ctx context.Context) *Source {
	if v, ok := ctx.Value(sourceKey{}).(*Source); ok {
		return v
	}
	return nil
}
