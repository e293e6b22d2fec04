package utils

// ContextKey keys request-scoped values set by the middlewares.
type ContextKey string
