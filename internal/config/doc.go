// Package config provides configuration parsing for htoml projects.
//
// The configuration is optional and stored in htoml.json at the project
// root. Every value has a default, and command-line flags override what the
// file says.
//
// # Configuration File Structure
//
//	{
//	  "outDir": "public",
//	  "escape": false,
//	  "logLevel": "info",
//	  "serve": {
//	    "host": "localhost",
//	    "port": 4000,
//	    "root": "site",
//	    "hotReload": true,
//	    "ignore": ["drafts"],
//	    "cacheSize": 1000
//	  },
//	  "publish": {
//	    "bucket": "my-site",
//	    "prefix": "docs",
//	    "region": "eu-west-1",
//	    "endpoint": "http://localhost:9000",
//	    "pathStyle": true
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Serving on", cfg.ServeAddress())
package config
