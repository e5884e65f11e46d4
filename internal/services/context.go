package services

import "context"

type contextKey string

const (
	episodeKeyKey contextKey = "episode_key"
	componentKey  contextKey = "component"
	requestIDKey  contextKey = "request_id"
)

// WithEpisodeKey annotates context with the episode cache key.
func WithEpisodeKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, episodeKeyKey, key)
}

// EpisodeKeyFromContext extracts the episode cache key if present.
func EpisodeKeyFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(episodeKeyKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithComponent annotates context with the component handling the request.
func WithComponent(ctx context.Context, component string) context.Context {
	if component == "" {
		return ctx
	}
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext returns the component name if present.
func ComponentFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(componentKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
