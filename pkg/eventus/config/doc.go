// Package config provides file-based configuration loading for eventus.
//
// Configuration is a flat map of settings loaded from YAML or JSON, with
// typed accessors that fall back to defaults on missing keys or wrong
// types. The bus itself is configured through eventus.Config; use
// eventus.FromConfig to bridge a loaded file into it.
//
// Example:
//
//	cfg, err := config.FromFile("bus.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bus := eventus.NewBus(eventus.FromConfig(cfg))
package config
