package proxy

type jsEngineConfig struct {
	cache ProgramCache
}

// JSOverrideOption configures a goja-backed computed override.
type JSOverrideOption func(*jsEngineConfig)

// JSWithProgramCache wires a ProgramCache into the JS engine.
func JSWithProgramCache(cache ProgramCache) JSOverrideOption {
	return func(cfg *jsEngineConfig) {
		cfg.cache = cache
	}
}

func applyJSOverrideOptions(opts []JSOverrideOption) jsEngineConfig {
	cfg := jsEngineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
