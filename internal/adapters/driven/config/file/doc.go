// Package file provides a TOML-backed implementation of the config store
// port, stored at ~/.kbsync/config.toml.
//
// Keys use dot notation mirroring the TOML table structure:
//
//	api.base_url       service endpoint, e.g. "https://kb.example.com"
//	api.token          personal access token (auth.method = "token")
//	api.rate_limit     requests per second ceiling
//	auth.method        "none", "token", or "oauth"
//	oauth.client_id    OAuth client credentials
//	oauth.token_url    OAuth token endpoint
//	cache.backend      "sqlite", "redis", or "memory"
//	cache.redis_addr   host:port when cache.backend = "redis"
//	watch.interval     poll interval for processing documents, e.g. "3s"
//	search.debounce    debounce delay for live search, e.g. "300ms"
package file
