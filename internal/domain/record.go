package domain

import "time"

// RawGame is one row of the Games table as read from disk. Index is the 0-based
// position of the row among the table's data rows; the duration patch table is
// keyed by it.
type RawGame struct {
	Index                int
	TeamIDsDate          string `json:"TeamIDsDate"`
	Date                 string `json:"date"`
	HomeName             string `json:"homename"`
	VisName              string `json:"visname"`
	MatchupFullTeamNames string `json:"Matchup_Full_TeamNames"`
	Stadium              string `json:"stadium"`
	Duration             string `json:"duration"`
	Attend               string `json:"attend"`
	ScoreHome            string `json:"score_home"`
	ScoreVis             string `json:"score_vis"`
	RushTDHome           string `json:"rush_td_home"`
	PassTDHome           string `json:"pass_td_home"`
	RushTDVis            string `json:"rush_td_vis"`
	PassTDVis            string `json:"pass_td_vis"`
	Weather              string `json:"weather"`
	RankHome             string `json:"rank_home"`
	RankVis              string `json:"rank_vis"`
}

// RawRating is one row of the Ratings table.
type RawRating struct {
	Index       int
	TeamIDsDate string `json:"TeamIDsDate"`
	Network     string `json:"Network"`
	Viewers     string `json:"VIEWERS"`
	Rating      string `json:"RATING"`
}

// RawCapacity is one row of the Capacity table.
type RawCapacity struct {
	Index    int
	HomeName string `json:"homename"`
	Stadium  string `json:"stadium"`
	Capacity string `json:"Capacity"`
}

// Tables bundles the three raw inputs handed to the preparation pipeline.
type Tables struct {
	Games    []RawGame
	Ratings  []RawRating
	Capacity []RawCapacity
}

// GameRecord is a Games row after duration patching and parsing. Attendance,
// scores, touchdowns and ranks stay raw until the row survives both joins;
// Enrich fills the typed fields.
type GameRecord struct {
	Index                int       `json:"-"`
	TeamIDsDate          string    `json:"team_ids_date"`
	RawDate              string    `json:"raw_date"`
	Date                 time.Time `json:"date"`
	HomeName             string    `json:"home_name"`
	VisName              string    `json:"vis_name"`
	MatchupFullTeamNames string    `json:"matchup_full_team_names"`
	Stadium              string    `json:"stadium"`
	Duration             string    `json:"duration"`
	DurationMinutes      int       `json:"duration_minutes"`
	Attend               int       `json:"attend"`
	ScoreHome            int       `json:"score_home"`
	ScoreVis             int       `json:"score_vis"`
	RushTDHome           int       `json:"rush_td_home"`
	PassTDHome           int       `json:"pass_td_home"`
	RushTDVis            int       `json:"rush_td_vis"`
	PassTDVis            int       `json:"pass_td_vis"`
	Weather              string    `json:"weather"`

	RawAttend     string `json:"-"`
	RawScoreHome  string `json:"-"`
	RawScoreVis   string `json:"-"`
	RawRushTDHome string `json:"-"`
	RawPassTDHome string `json:"-"`
	RawRushTDVis  string `json:"-"`
	RawPassTDVis  string `json:"-"`
	RawRankHome   string `json:"-"`
	RawRankVis    string `json:"-"`
}

// RatingRecord is a Ratings row keyed for the join. Viewers and Rating are
// parsed by Enrich.
type RatingRecord struct {
	Index       int
	TeamIDsDate string
	Network     string
	RawViewers  string
	RawRating   string
}

// CapacityRecord maps a (home team, stadium) pair to its seat count.
type CapacityRecord struct {
	HomeName string
	Stadium  string
	Capacity int
}

// EnrichedGame is one successfully joined game with every derived column the
// dashboard charts consume.
type EnrichedGame struct {
	GameRecord

	Network  string  `json:"network"`
	Viewers  float64 `json:"viewers"`
	Rating   float64 `json:"rating"`
	Capacity int     `json:"capacity"`

	PercentOfCapacity float64         `json:"percent_of_capacity"`
	TotalTouchdowns   int             `json:"total_touchdowns"`
	TotalPoints       int             `json:"total_points"`
	PointDifferential int             `json:"point_differential"`
	WeatherCategory   WeatherCategory `json:"weather_category"`
	RankHome          int             `json:"rank_home"`
	RankVis           int             `json:"rank_vis"`
	CombinedRank      int             `json:"combined_rank"`

	// Teams holds one membership flag per roster team.
	Teams map[string]bool `json:"teams"`
}

// TeamSummary aggregates a tracked team's games. A nil average means the team
// had no qualifying games, which is distinct from a legitimate zero.
type TeamSummary struct {
	Team                 string   `json:"team"`
	Games                int      `json:"games"`
	HomeGames            int      `json:"home_games"`
	AvgViewers           *float64 `json:"avg_viewers"`
	AvgPercentOfCapacity *float64 `json:"avg_percent_of_capacity"`
	AvgRating            *float64 `json:"avg_rating"`
}
