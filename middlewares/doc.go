// Package middlewares provides net/http middlewares for the control API.
//
// Every middleware has the func(http.Handler) http.Handler shape, so they
// plug into chi's r.Use as well as plain handler chains.
//
// # Request ID
//
// RequestID assigns each request an ID, reusing an incoming X-Request-ID
// when present and generating a ULID otherwise. The ID is stored in the
// request context and echoed in the response header.
//
//	r.Use(middlewares.RequestID())
//
// RequestIDExtractor adds request_id to every log entry written with the
// request context:
//
//	log := logger.New(middlewares.RequestIDExtractor(), logger.RunIDExtractor())
//
// # Recover
//
// Recover turns a handler panic into a logged PanicError and a JSON 500.
//
//	r.Use(middlewares.Recover(log))
//
// # Access log
//
// AccessLog writes one entry per request with method, path, status and
// duration.
//
// # CORS
//
// CORS lets a browser UI served from another origin call the API. It
// answers preflight requests and adds the Access-Control headers.
//
//	r.Use(middlewares.CORS(middlewares.WithAllowOrigins("http://localhost:3000")))
package middlewares
