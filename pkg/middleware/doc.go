// Package middleware provides observability for the landing server.
//
// # OpenTelemetry
//
// OpenTelemetry traces every live client frame as a server span carrying
// the session id, event type and target. Tracing does the same for HTTP
// requests and names spans after the chi route pattern.
//
//	mgr := live.NewManager(page, cfg,
//	    live.WithMiddleware(middleware.OpenTelemetry()),
//	)
//	r.Use(middleware.Tracing())
//
// # Prometheus
//
// Metrics counts and times client frames, observes the session lifecycle
// and instruments HTTP handlers:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	mgr := live.NewManager(page, cfg,
//	    live.WithMiddleware(m.Middleware()),
//	    live.WithObserver(m),
//	)
//	r.Use(m.HTTP)
//	r.Handle("/metrics", middleware.Handler(reg))
package middleware
