// Package health provides liveness and readiness probes for the nfmailer
// server.
//
// Liveness always answers OK while the process runs. Readiness runs named
// checks (Redis, object storage, mail transport configuration) in parallel
// under a shared timeout and answers 503 when any of them fails.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis":   redis.Healthcheck(client),
//	    "storage": store.Healthcheck(),
//	}, health.WithLogger(log)))
//
// Plain text is returned by default; send Accept: application/json or
// ?format=json for the detailed report.
package health
