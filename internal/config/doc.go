// Package config loads the dashboard's project configuration.
//
// The configuration lives in dashboard.json (or dashboard.yaml) at the
// project root. Besides server settings it declares the resource types
// and resources the console can edit, which the standalone server uses
// as its registry.
//
// # Configuration File Structure
//
//	{
//	  "name": "shop",
//	  "server": {
//	    "host": "localhost",
//	    "port": 2403,
//	    "mount": "/dashboard",
//	    "env": "development"
//	  },
//	  "auth": { "rootKeyEnv": "DASHBOARD_ROOT_KEY" },
//	  "log": { "level": "info", "format": "text" },
//	  "metrics": { "enabled": true, "path": "/metrics" },
//	  "static": { "cacheControl": "production" },
//	  "types": [
//	    { "id": "Collection", "dashboard": { "path": "types/collection/dashboard" } }
//	  ],
//	  "resources": [
//	    { "name": "users", "type": "Collection", "events": ["get", "post"] }
//	  ]
//	}
//
// Relative dashboard paths are resolved against the config file's
// directory. A resource without its own dashboard uses its type's.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Addr())
package config
