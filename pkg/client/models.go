package client

// Queue types reported by league-v4.
const (
	QueueSoloRanked = "RANKED_SOLO_5x5"
	QueueFlexRanked = "RANKED_FLEX_SR"
)

// Account is the account-v1 Riot ID resolution.
type Account struct {
	PUUID    string  `json:"puuid"`
	GameName *string `json:"gameName,omitempty"`
	TagLine  *string `json:"tagLine,omitempty"`
}

// LeagueEntry is a ranked standing in one queue.
type LeagueEntry struct {
	LeagueID     *string `json:"leagueId,omitempty"`
	PUUID        string  `json:"puuid"`
	QueueType    string  `json:"queueType"`
	Tier         *string `json:"tier,omitempty"`
	Rank         *string `json:"rank,omitempty"`
	LeaguePoints *int    `json:"leaguePoints,omitempty"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	HotStreak    *bool   `json:"hotStreak,omitempty"`
	Veteran      *bool   `json:"veteran,omitempty"`
	FreshBlood   *bool   `json:"freshBlood,omitempty"`
	Inactive     *bool   `json:"inactive,omitempty"`
}

// Games returns the number of ranked games played in the queue.
func (e LeagueEntry) Games() int {
	return e.Wins + e.Losses
}

// SoloQueueEntry picks the solo/duo standing out of a league list.
func SoloQueueEntry(entries []LeagueEntry) (LeagueEntry, bool) {
	for _, e := range entries {
		if e.QueueType == QueueSoloRanked {
			return e, true
		}
	}
	return LeagueEntry{}, false
}

// MatchDetail is the normalized match-v5 payload.
// Optional upstream values are pointers; nil means the field was absent.
type MatchDetail struct {
	MatchID      string        `json:"matchId"`
	GameMode     *string       `json:"gameMode,omitempty"`
	QueueID      *int          `json:"queueId,omitempty"`
	GameDuration *int64        `json:"gameDuration,omitempty"`
	Participants []Participant `json:"participants"`
	Teams        []Team        `json:"teams"`
}

// Participant returns the participant entry of puuid.
func (m *MatchDetail) Participant(puuid string) (*Participant, bool) {
	for i := range m.Participants {
		if p := m.Participants[i].PUUID; p != nil && *p == puuid {
			return &m.Participants[i], true
		}
	}
	return nil, false
}

// Participant is one player's line in a match.
type Participant struct {
	ParticipantID *int    `json:"participantId,omitempty"`
	PUUID         *string `json:"puuid,omitempty"`
	TeamID        *int    `json:"teamId,omitempty"`
	Win           *bool   `json:"win,omitempty"`
	ChampionName  *string `json:"championName,omitempty"`
	TeamPosition  *string `json:"teamPosition,omitempty"`
	SummonerName  *string `json:"summonerName,omitempty"`
	RiotIDName    *string `json:"riotIdGameName,omitempty"`
	RiotIDTagline *string `json:"riotIdTagline,omitempty"`

	Kills      *int        `json:"kills,omitempty"`
	Deaths     *int        `json:"deaths,omitempty"`
	Assists    *int        `json:"assists,omitempty"`
	Challenges *Challenges `json:"challenges,omitempty"`

	VisionScore   *int `json:"visionScore,omitempty"`
	WardsKilled   *int `json:"wardsKilled,omitempty"`
	WardsPlaced   *int `json:"wardsPlaced,omitempty"`
	MinionsKilled *int `json:"totalMinionsKilled,omitempty"`
	NeutralKilled *int `json:"neutralMinionsKilled,omitempty"`

	DamageToChampions *int `json:"totalDamageDealtToChampions,omitempty"`
	GoldEarned        *int `json:"goldEarned,omitempty"`

	Summoner1ID *int `json:"summoner1Id,omitempty"`
	Summoner2ID *int `json:"summoner2Id,omitempty"`

	Item0 *int `json:"item0,omitempty"`
	Item1 *int `json:"item1,omitempty"`
	Item2 *int `json:"item2,omitempty"`
	Item3 *int `json:"item3,omitempty"`
	Item4 *int `json:"item4,omitempty"`
	Item5 *int `json:"item5,omitempty"`
	Item6 *int `json:"item6,omitempty"` // trinket
}

// Items returns the seven item slots in order.
func (p *Participant) Items() [7]*int {
	return [7]*int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

// CS returns lane plus jungle minions. ok is false when the lane count is
// missing; a missing jungle count reads as zero.
func (p *Participant) CS() (int, bool) {
	if p.MinionsKilled == nil {
		return 0, false
	}
	cs := *p.MinionsKilled
	if p.NeutralKilled != nil {
		cs += *p.NeutralKilled
	}
	return cs, true
}

// Challenges holds the subset of challenge stats consumers read.
type Challenges struct {
	KDA               *float64 `json:"kda,omitempty"`
	KillParticipation *float64 `json:"killParticipation,omitempty"`
}

// Team is one side of a match.
type Team struct {
	TeamID     int                  `json:"teamId"`
	Win        *bool                `json:"win,omitempty"`
	Bans       []Ban                `json:"bans,omitempty"`
	Objectives map[string]Objective `json:"objectives,omitempty"`
}

// Ban is one champion ban.
type Ban struct {
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

// Objective is the per-team tally of one objective type.
type Objective struct {
	First *bool `json:"first,omitempty"`
	Kills *int  `json:"kills,omitempty"`
}

// Timeline is the frame-by-frame record of a match.
type Timeline struct {
	MatchID       string  `json:"matchId"`
	FrameInterval *int64  `json:"frameInterval,omitempty"`
	Frames        []Frame `json:"frames"`
}

// Frame is one timeline snapshot.
type Frame struct {
	Timestamp         int64                       `json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
	Events            []Event                     `json:"events"`
}

// ParticipantFrame is a participant's state at a frame.
type ParticipantFrame struct {
	ParticipantID *int      `json:"participantId,omitempty"`
	Position      *Position `json:"position,omitempty"`
	Level         *int      `json:"level,omitempty"`
	TotalGold     *int      `json:"totalGold,omitempty"`
}

// Position is a map coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Event is a timeline event such as CHAMPION_KILL.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	KillerID  *int   `json:"killerId,omitempty"`
	VictimID  *int   `json:"victimId,omitempty"`
}

// Summoner is the summoner-v4 profile of a puuid.
type Summoner struct {
	ID            *string `json:"id,omitempty"`
	PUUID         string  `json:"puuid"`
	ProfileIconID *int    `json:"profileIconId,omitempty"`
	SummonerLevel *int64  `json:"summonerLevel,omitempty"`
}

// ActiveGame is a live game from spectator-v5.
type ActiveGame struct {
	GameID        int64                   `json:"gameId"`
	GameMode      *string                 `json:"gameMode,omitempty"`
	GameQueueID   *int                    `json:"gameQueueConfigId,omitempty"`
	GameStartTime *int64                  `json:"gameStartTime,omitempty"`
	GameLength    *int64                  `json:"gameLength,omitempty"`
	Participants  []ActiveGameParticipant `json:"participants"`
}

// ActiveGameParticipant is one player in a live game.
type ActiveGameParticipant struct {
	PUUID      *string `json:"puuid,omitempty"`
	TeamID     *int    `json:"teamId,omitempty"`
	ChampionID *int    `json:"championId,omitempty"`
	Spell1ID   *int    `json:"spell1Id,omitempty"`
	Spell2ID   *int    `json:"spell2Id,omitempty"`
}

// matchDTO is the raw match-v5 shape.
type matchDTO struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info *struct {
		GameMode     *string       `json:"gameMode"`
		QueueID      *int          `json:"queueId"`
		GameDuration *int64        `json:"gameDuration"`
		Participants []Participant `json:"participants"`
		Teams        []Team        `json:"teams"`
	} `json:"info"`
}

// timelineDTO is the raw match-v5 timeline shape.
type timelineDTO struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info *struct {
		FrameInterval *int64  `json:"frameInterval"`
		Frames        []Frame `json:"frames"`
	} `json:"info"`
}
