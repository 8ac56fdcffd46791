// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

/*
Package supervisor provides process supervision for Wayfinder using suture v4.

The tree has two layers:

	RootSupervisor ("wayfinder")
	├── DataSupervisor ("data-layer")
	│   ├── PeriodicService "duckdb-checkpoint"
	│   └── PeriodicService "place-cache-gc"
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog, bridged to zerolog by logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewPeriodicService("duckdb-checkpoint", 5*time.Minute, db.Checkpoint))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
