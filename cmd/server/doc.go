// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package main is the entry point for the Folio server.

Folio serves content-based book recommendations from a prebuilt similarity
index, with a cache-aside layer in front of the engine and a DuckDB catalog
behind the /books endpoints.

# Startup

 1. Configuration: koanf v2 (defaults, optional YAML, environment)
 2. Logging: zerolog, with an slog bridge for the supervisor
 3. Index: JSON or msgpack artifact from INDEX_PATH (required)
 4. Catalog: DuckDB, seeded from the index when empty
 5. Cache: Redis, Badger or in-process memory; an unreachable Redis only
    degrades responses to uncached
 6. Supervisor tree: HTTP server in the api layer, one-shot warmer in the
    data layer

	RootSupervisor ("folio")
	├── DataSupervisor ("data-layer")
	│   └── WarmerService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server drains for up to 10s,
then the cache backend and the catalog are closed. Services that did not
stop in time are logged.

# Example

	export INDEX_PATH=./data/index.msgpack
	export REDIS_URL=redis://localhost:6379/0
	./folio
*/
package main
