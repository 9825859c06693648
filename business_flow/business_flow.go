package businessflow

// RequestIDKey is the context key under which handlers propagate the
// correlation ID of the inbound HTTP request.
const RequestIDKey = "X-Request-ID"
