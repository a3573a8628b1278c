package client

import (
	"context"
	"fmt"

	"github.com/Sternrassler/riot-match-client/pkg/cache"
	"github.com/Sternrassler/riot-match-client/pkg/pagination"
)

// DefaultBatchLimit is the number of match details a consumer usually asks for.
const DefaultBatchLimit = 20

// Endpoint labels used for metrics and logs.
const (
	endpointAccount     = "/riot/account/v1/accounts/by-riot-id/{gameName}/{tagLine}"
	endpointLeague      = "/lol/league/v4/entries/by-puuid/{puuid}"
	endpointMatchIDs    = "/lol/match/v5/matches/by-puuid/{puuid}/ids"
	endpointMatchDetail = "/lol/match/v5/matches/{matchId}"
	endpointTimeline    = "/lol/match/v5/matches/{matchId}/timeline"
	endpointSummoner    = "/lol/summoner/v4/summoners/by-puuid/{puuid}"
	endpointActiveGame  = "/lol/spectator/v5/active-games/by-summoner/{puuid}"
)

// ResolveIdentity maps a Riot ID to a puuid.
func (c *Client) ResolveIdentity(ctx context.Context, gameName, tagLine string) (string, bool) {
	if gameName == "" || tagLine == "" {
		return "", false
	}

	puuid, err := cacheAside(ctx, c, cache.IdentityKey(gameName, tagLine), cache.IdentityTTL, func(ctx context.Context) (string, error) {
		var acct Account
		if err := c.get(ctx, endpointAccount, c.regional("/riot/account/v1/accounts/by-riot-id/%s/%s", gameName, tagLine), &acct); err != nil {
			return "", err
		}
		if acct.PUUID == "" {
			return "", &UpstreamError{Kind: FailureMalformedPayload, Class: ErrorClassDecode, StatusCode: 200, Endpoint: endpointAccount, Err: fmt.Errorf("empty puuid")}
		}
		return acct.PUUID, nil
	})
	if err != nil || puuid == "" {
		c.logAbsent("resolve identity", err)
		return "", false
	}
	return puuid, true
}

// LeagueStanding returns the player's ranked entries. A cached empty list
// is a hit.
func (c *Client) LeagueStanding(ctx context.Context, puuid string) []LeagueEntry {
	if puuid == "" {
		return nil
	}

	entries, err := cacheAside(ctx, c, cache.LeagueKey(puuid), cache.LeagueTTL, func(ctx context.Context) ([]LeagueEntry, error) {
		var entries []LeagueEntry
		if err := c.get(ctx, endpointLeague, c.platform("/lol/league/v4/entries/by-puuid/%s", puuid), &entries); err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []LeagueEntry{}
		}
		return entries, nil
	})
	if err != nil {
		c.logAbsent("league standing", err)
		return nil
	}
	return entries
}

// RecentMatchIDs returns at most count of the player's newest match ids.
// Counts above the page ceiling are split into pages.
func (c *Client) RecentMatchIDs(ctx context.Context, puuid string, count int) []string {
	if puuid == "" || count <= 0 {
		return nil
	}

	key := cache.RecentMatchIDsKey(puuid, count)
	if ids, ok := cache.GetJSON[[]string](ctx, c.cache, key); ok {
		return ids
	}

	ids, report := c.matchIDPages(ctx, puuid, pagination.Plan(count, pagination.MaxPageSize))
	if report.Complete() {
		cache.SetJSON(ctx, c.cache, key, ids, cache.RecentMatchIDsTTL)
	}
	return ids
}

// AllMatchIDs returns the player's ranked match history sized by the
// league record. The cache key ignores wins and losses. Pages that fail
// are dropped; a short result is returned but not cached.
func (c *Client) AllMatchIDs(ctx context.Context, puuid string, wins, losses int) []string {
	if puuid == "" {
		return nil
	}

	key := cache.MatchIDsKey(puuid)
	if ids, ok := cache.GetJSON[[]string](ctx, c.cache, key); ok {
		return ids
	}

	plan := pagination.Plan(wins+losses, pagination.MaxPageSize)
	if len(plan) == 0 {
		return nil
	}

	c.logger.Debug().
		Str("puuid", puuid).
		Int("total", wins+losses).
		Int("pages", len(plan)).
		Str("executor", c.exec.Name()).
		Msg("Planned match id pages")

	ids, report := c.matchIDPages(ctx, puuid, plan)
	if report.Complete() {
		cache.SetJSON(ctx, c.cache, key, ids, cache.MatchIDsTTL)
	}
	return ids
}

// matchIDPages fetches every window of plan and concatenates in plan order.
func (c *Client) matchIDPages(ctx context.Context, puuid string, plan []pagination.Window) ([]string, pagination.Report) {
	return pagination.FetchAll(ctx, c.exec, plan, func(ctx context.Context, w pagination.Window) ([]string, error) {
		var ids []string
		rawURL := c.regional("/lol/match/v5/matches/by-puuid/%s/ids", puuid) +
			fmt.Sprintf("?start=%d&count=%d", w.Offset, w.Count)
		if err := c.get(ctx, endpointMatchIDs, rawURL, &ids); err != nil {
			return nil, err
		}
		if len(ids) > w.Count {
			ids = ids[:w.Count]
		}
		return ids, nil
	})
}

// MatchDetail returns one normalized match.
func (c *Client) MatchDetail(ctx context.Context, matchID string) (*MatchDetail, bool) {
	m, err := c.matchDetail(ctx, matchID)
	if err != nil {
		c.logAbsent("match detail", err)
		return nil, false
	}
	return &m, true
}

func (c *Client) matchDetail(ctx context.Context, matchID string) (MatchDetail, error) {
	if matchID == "" {
		return MatchDetail{}, fmt.Errorf("empty match id")
	}

	return cacheAside(ctx, c, cache.MatchDetailKey(matchID), cache.MatchDetailTTL, func(ctx context.Context) (MatchDetail, error) {
		var raw matchDTO
		if err := c.get(ctx, endpointMatchDetail, c.regional("/lol/match/v5/matches/%s", matchID), &raw); err != nil {
			return MatchDetail{}, err
		}
		return normalizeMatch(matchID, raw)
	})
}

func normalizeMatch(matchID string, raw matchDTO) (MatchDetail, error) {
	if raw.Info == nil {
		return MatchDetail{}, &UpstreamError{Kind: FailureMalformedPayload, Class: ErrorClassDecode, StatusCode: 200, Endpoint: endpointMatchDetail, Err: fmt.Errorf("match %s has no info", matchID)}
	}

	id := raw.Metadata.MatchID
	if id == "" {
		id = matchID
	}
	return MatchDetail{
		MatchID:      id,
		GameMode:     raw.Info.GameMode,
		QueueID:      raw.Info.QueueID,
		GameDuration: raw.Info.GameDuration,
		Participants: raw.Info.Participants,
		Teams:        raw.Info.Teams,
	}, nil
}

// MatchDetailsBatch returns details for the first limit ids in input
// order. Each id is checked against the cache before it takes a gate
// permit, so ids past limit and cached ids never reach the upstream.
// Failed ids are skipped.
func (c *Client) MatchDetailsBatch(ctx context.Context, ids []string, limit int) []MatchDetail {
	if limit > len(ids) {
		limit = len(ids)
	}
	if limit <= 0 {
		return nil
	}
	ids = ids[:limit]

	results := pagination.Gather(ctx, c.exec, len(ids), func(ctx context.Context, i int) (MatchDetail, error) {
		return c.matchDetail(ctx, ids[i])
	})

	for _, r := range pagination.Failures(results) {
		c.logger.Warn().Err(r.Err).Str("match_id", ids[r.Index]).Msg("Skipping match detail")
	}

	report := pagination.Summarize(results)
	c.logger.Info().
		Int("requested", report.Attempted).
		Int("returned", report.Succeeded).
		Int("failed", report.Failed).
		Str("executor", c.exec.Name()).
		Msg("Match detail batch complete")

	return pagination.Successes(results)
}

// MatchTimeline returns the frame timeline of a match.
func (c *Client) MatchTimeline(ctx context.Context, matchID string) (*Timeline, bool) {
	if matchID == "" {
		return nil, false
	}

	tl, err := cacheAside(ctx, c, cache.TimelineKey(matchID), cache.TimelineTTL, func(ctx context.Context) (Timeline, error) {
		var raw timelineDTO
		if err := c.get(ctx, endpointTimeline, c.regional("/lol/match/v5/matches/%s/timeline", matchID), &raw); err != nil {
			return Timeline{}, err
		}
		if raw.Info == nil {
			return Timeline{}, &UpstreamError{Kind: FailureMalformedPayload, Class: ErrorClassDecode, StatusCode: 200, Endpoint: endpointTimeline, Err: fmt.Errorf("timeline %s has no info", matchID)}
		}
		id := raw.Metadata.MatchID
		if id == "" {
			id = matchID
		}
		return Timeline{MatchID: id, FrameInterval: raw.Info.FrameInterval, Frames: raw.Info.Frames}, nil
	})
	if err != nil {
		c.logAbsent("match timeline", err)
		return nil, false
	}
	return &tl, true
}

// Summoner returns the summoner profile of a puuid.
func (c *Client) Summoner(ctx context.Context, puuid string) (*Summoner, bool) {
	if puuid == "" {
		return nil, false
	}

	s, err := cacheAside(ctx, c, cache.SummonerKey(puuid), cache.SummonerTTL, func(ctx context.Context) (Summoner, error) {
		var s Summoner
		err := c.get(ctx, endpointSummoner, c.platform("/lol/summoner/v4/summoners/by-puuid/%s", puuid), &s)
		return s, err
	})
	if err != nil {
		c.logAbsent("summoner", err)
		return nil, false
	}
	return &s, true
}

// ActiveGame returns the live game of a player. It is never cached; a 404
// means the player is not in a game.
func (c *Client) ActiveGame(ctx context.Context, puuid string) (*ActiveGame, bool) {
	if puuid == "" {
		return nil, false
	}

	var g ActiveGame
	if err := c.get(ctx, endpointActiveGame, c.platform("/lol/spectator/v5/active-games/by-summoner/%s", puuid), &g); err != nil {
		if !IsNotFound(err) {
			c.logAbsent("active game", err)
		}
		return nil, false
	}
	return &g, true
}

func (c *Client) logAbsent(op string, err error) {
	c.logger.Debug().Err(err).Str("operation", op).Msg("Returning absent result")
}
