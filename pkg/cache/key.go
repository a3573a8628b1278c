package cache

import (
	"strconv"
	"strings"
)

// Namespaces for cached Riot entities. Each entity type owns exactly one
// namespace so keys never collide across types.
const (
	NamespaceIdentity      = "puuid"
	NamespaceLeague        = "league"
	NamespaceMatchIDs      = "match_ids"
	NamespaceRecentMatches = "recent_matches"
	NamespaceMatchDetail   = "match_detail"
	NamespaceTimeline      = "match_timeline"
	NamespaceSummoner      = "summoner"
)

// Key identifies a cached value by namespace and an ordered tuple of fields.
type Key struct {
	// Namespace is the entity prefix (e.g., "match_detail")
	Namespace string

	// Parts are the identifying fields in a fixed order
	Parts []string
}

// String generates the deterministic key string.
// Format: namespace:part1:part2
//
// Example:
//
//	match_detail:KR_7012345678
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Namespace)
	for _, p := range k.Parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// NewKey builds a Key from a namespace and its identifying fields.
func NewKey(namespace string, parts ...string) Key {
	return Key{Namespace: namespace, Parts: parts}
}

// IdentityKey is the key for a Riot ID to puuid resolution.
func IdentityKey(gameName, tagLine string) Key {
	return NewKey(NamespaceIdentity, gameName, tagLine)
}

// LeagueKey is the key for a player's ranked standing.
func LeagueKey(puuid string) Key {
	return NewKey(NamespaceLeague, puuid)
}

// MatchIDsKey is the key for a player's full match id history.
// It intentionally ignores wins/losses: the history belongs to the player.
func MatchIDsKey(puuid string) Key {
	return NewKey(NamespaceMatchIDs, puuid)
}

// RecentMatchIDsKey is the key for the most recent count match ids.
func RecentMatchIDsKey(puuid string, count int) Key {
	return NewKey(NamespaceRecentMatches, puuid, strconv.Itoa(count))
}

// MatchDetailKey is the key for one match payload.
func MatchDetailKey(matchID string) Key {
	return NewKey(NamespaceMatchDetail, matchID)
}

// TimelineKey is the key for one match timeline.
func TimelineKey(matchID string) Key {
	return NewKey(NamespaceTimeline, matchID)
}

// SummonerKey is the key for the summoner profile of a puuid.
func SummonerKey(puuid string) Key {
	return NewKey(NamespaceSummoner, puuid)
}
