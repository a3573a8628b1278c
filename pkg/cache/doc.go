// Package cache provides the Redis-backed cache-aside store for Riot API data.
//
// The store has the following properties:
//
// - Deterministic, namespaced keys (one namespace per entity type)
// - Per-entry TTL enforced by Redis (SET ... EX)
// - Values are stored as JSON text; corrupt payloads read as misses
// - Set never returns an error, only whether the value was cached
// - Disabled (pass-through) mode when Redis is unreachable at startup
//
// # Basic Usage
//
//	store := cache.Connect(ctx, cache.Options{
//		Host: "localhost",
//		Port: 6379,
//	}, logger)
//
//	key := cache.MatchDetailKey("KR_7012345678")
//
//	detail, ok := cache.GetJSON[client.MatchDetail](ctx, store, key)
//	if !ok {
//		// Cache miss - fetch from upstream, then write through
//		cache.SetJSON(ctx, store, key, fetched, cache.MatchDetailTTL)
//	}
//
// # Disabled Mode
//
// If the PING at construction fails, Connect returns a store whose Get
// always misses and whose Set always reports false. The warning for this is
// emitted once per process, not once per store or per call.
//
// # Metrics
//
//   - riot_cache_hits_total{namespace} - Cache hits
//   - riot_cache_misses_total{namespace} - Cache misses
//   - riot_cache_errors_total{operation} - Backend and codec errors
//   - riot_cache_disabled - 1 while running without a backend
package cache
