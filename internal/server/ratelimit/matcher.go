package ratelimit

import (
	"strings"
)

// unlimited lists "METHOD path" pairs that are never rate limited
var unlimited = map[string]bool{
	"GET /health": true,
}

// MatchEndpoint returns the configuration for a request, or nil when none
// applies. Exact paths win over prefixes (paths ending in "/"), and among
// prefixes the longest wins. An empty Method matches every method.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "" && cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
