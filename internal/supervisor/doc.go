// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package supervisor provides process supervision for Folio using suture v4.

The tree has two layers so that background cache work never interferes
with request serving:

	RootSupervisor ("folio")
	├── DataSupervisor ("data-layer")
	│   └── WarmerService (if WARM_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Usage in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewWarmerService(w, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)

# Failure Handling

Each layer counts failures independently. A counter decays over FailureDecay
seconds; above FailureThreshold the layer waits FailureBackoff before the
next restart. Services that finish their work return suture.ErrDoNotRestart.

Supervisor events are logged through sutureslog, bridged to zerolog by
logging.NewSlogLogger.

# Shutdown

Canceling the context passed to Serve stops every layer. Services that
outlive ShutdownTimeout are listed by UnstoppedServiceReport.

DuckDB and the cache backend are not supervised: they are libraries and
clients owned by main, closed after the tree stops.
*/
package supervisor
