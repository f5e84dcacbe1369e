// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

/*
Package supervisor runs the service's long-lived components under a suture v4
supervisor tree.

	townsquare (root)
	├── data-layer
	│   ├── store-health-monitor
	│   └── value-log-gc (badger backend only)
	└── api-layer
	    └── http-server

Supervisor events go to the zerolog-backed slog logger through sutureslog.
Service wrappers live in the services subpackage.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewHealthMonitorService(store, 15*time.Second, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	return tree.Serve(ctx)
*/
package supervisor
