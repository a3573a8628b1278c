package cache

import "time"

// TTLs per entity type.
const (
	// IdentityTTL: a puuid is stable, the Riot ID mapping rarely changes
	IdentityTTL = 24 * time.Hour

	// LeagueTTL: standings move with every ranked game
	LeagueTTL = 1 * time.Hour

	// MatchIDsTTL bounds how stale the full history may get
	MatchIDsTTL = 30 * time.Minute

	// RecentMatchIDsTTL is short so new games show up quickly
	RecentMatchIDsTTL = 10 * time.Minute

	// MatchDetailTTL: played matches are immutable
	MatchDetailTTL = 24 * time.Hour

	// TimelineTTL: same lifecycle as the match itself
	TimelineTTL = 24 * time.Hour

	// SummonerTTL: summoner ids are stable per puuid
	SummonerTTL = 24 * time.Hour
)
