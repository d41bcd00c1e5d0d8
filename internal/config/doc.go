// Package config provides configuration parsing for pagekit.
//
// The configuration is stored in pagekit.json in the working directory, or at
// the path named by the PAGEKIT_CONFIG environment variable. This package
// handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "classes": {
//	    "hidden": "hidden",
//	    "favorited": "favorited"
//	  },
//	  "favorite": {
//	    "button": "favorite-btn-{id}",
//	    "starIcon": "star-icon-{id}",
//	    "xIcon": "x-icon-{id}"
//	  },
//	  "storage": {
//	    "backend": "redis",
//	    "redis": { "addr": "localhost:6379", "keyPrefix": "pagekit:" }
//	  },
//	  "http": {
//	    "baseURL": "http://localhost:7070",
//	    "timeout": "10s"
//	  },
//	  "server": { "host": "localhost", "port": 7070, "page": "page.html" },
//	  "log": { "level": "info", "format": "text" }
//	}
//
// Every field is optional; New documents the defaults.
package config
