// Package config provides loading and environment overlay for Beacon gateway
// configuration. It exposes a Default() baseline, a JSON file loader and a
// BEACON_* env overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/beacon.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
