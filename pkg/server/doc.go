// Package server exposes the formulation backend over a versioned JSON
// HTTP API.
//
// The server owns no domain state of its own: compliance and retrieval
// requests are answered by the current table bundle served by the
// policy manager, which may be hot-swapped between requests. Catalog,
// audit, signal simulation, and formula profiling endpoints are wired
// to their packages directly, and the catalog routes only exist when
// the catalog is enabled in configuration.
//
// # Endpoints
//
//	POST /api/v1/compliance/validate         validate a formula against the tables
//	GET  /api/v1/compliance/max-allowed      concentration cap lookup
//	GET  /api/v1/compliance/allergen         allergen predicate
//	POST /api/v1/rules/search                ranked physiological rule retrieval
//	POST /api/v1/rules/applicable            exact condition matches, uncapped
//	POST /api/v1/signals/eeg                 text to simulated valence/arousal
//	POST /api/v1/signals/ph                  RGB sample or skin type to pH
//	GET  /api/v1/catalog/ingredients         catalog listing (filterable)
//	GET  /api/v1/catalog/ingredients/{name}  catalog lookup
//	POST /api/v1/formula/profile             note pyramid and wear estimates
//	GET  /healthz                            liveness and table status
//	GET  /metrics                            Prometheus metrics (config-gated)
//
// # Lifecycle
//
// Run starts the HTTP listener, the table file watcher, and the audit
// retention scheduler under one errgroup and blocks until the context
// is cancelled or a worker fails. Shutdown is graceful within the
// configured timeout; in-flight requests get to finish.
//
//	srv, err := server.New(cfg, server.Dependencies{
//	    Manager: mgr,
//	    Metrics: collector,
//	    Logger:  logger,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
