package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Table names used in errors, logs and metric labels.
const (
	TableGames    = "games"
	TableRatings  = "ratings"
	TableCapacity = "capacity"
)

const (
	// UnrankedSentinel is the rank text carried by teams outside the poll.
	UnrankedSentinel = "character(0)"
	// UnrankedPosition is one worse than the last ranked position (25).
	UnrankedPosition = 26

	// attendanceCeiling is above any real stadium; larger values are typos.
	attendanceCeiling = 200000
	// attendanceFix replaces every attendance above attendanceCeiling.
	attendanceFix = 71004
)

// durationPatches are the corrected duration strings for the Games rows whose
// source values are malformed, keyed by data row index.
var durationPatches = map[int]string{
	679: "3:07",
	579: "3:14",
	624: "3:05",
	773: "2:11",
	312: "0:00",
	483: "3:25",
	491: "0:00",
	781: "3:00",
}

// durationRe matches "H:MM" with minutes 00-59.
var durationRe = regexp.MustCompile(`^(\d+):([0-5]\d)$`)

// dateLayouts are tried in order when parsing the Games "date" column.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// DurationPatch returns the corrected duration for a Games row index, if any.
func DurationPatch(index int) (string, bool) {
	v, ok := durationPatches[index]
	return v, ok
}

// ApplyDurationPatches returns a copy of games with the known-bad durations
// overwritten, and the number of cells whose value changed. Applying it to its
// own output changes nothing.
func ApplyDurationPatches(games []RawGame) ([]RawGame, int) {
	out := make([]RawGame, len(games))
	copy(out, games)

	changed := 0
	for i := range out {
		fix, ok := durationPatches[out[i].Index]
		if !ok || out[i].Duration == fix {
			continue
		}
		out[i].Duration = fix
		changed++
	}
	return out, changed
}

// ParseDuration converts "H:MM" to total minutes.
func ParseDuration(s string) (int, error) {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.New("expected H:MM")
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, err
	}
	return hours*60 + minutes, nil
}

// CorrectAttendance replaces impossible attendance figures with 71004. The
// boolean reports whether a correction was made.
func CorrectAttendance(attend int) (int, bool) {
	if attend > attendanceCeiling {
		return attendanceFix, true
	}
	return attend, false
}

// NormalizeRank parses a poll position, mapping UnrankedSentinel to 26.
func NormalizeRank(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == UnrankedSentinel {
		s = strconv.Itoa(UnrankedPosition)
	}
	rank, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	if rank < 1 || rank > UnrankedPosition {
		return 0, fmt.Errorf("rank %d outside [1, %d]", rank, UnrankedPosition)
	}
	return rank, nil
}

// ParseGame parses the columns every Games row needs before the joins: the
// duration (already patched) and the date. The remaining numeric cells are
// kept raw for Enrich, so a bad cell on a row the joins drop is never an
// error. The boolean reports whether the attendance cell holds a figure
// CorrectAttendance will replace.
func ParseGame(raw RawGame) (GameRecord, bool, error) {
	minutes, err := ParseDuration(raw.Duration)
	if err != nil {
		return GameRecord{}, false, &FormatError{Table: TableGames, Row: raw.Index, Column: "duration", Value: raw.Duration, Err: err}
	}

	corrected := false
	if attend, err := parseInt(raw.Attend); err == nil {
		_, corrected = CorrectAttendance(attend)
	}

	return GameRecord{
		Index:                raw.Index,
		TeamIDsDate:          strings.TrimSpace(raw.TeamIDsDate),
		RawDate:              raw.Date,
		Date:                 parseDate(raw.Date),
		HomeName:             strings.TrimSpace(raw.HomeName),
		VisName:              strings.TrimSpace(raw.VisName),
		MatchupFullTeamNames: raw.MatchupFullTeamNames,
		Stadium:              strings.TrimSpace(raw.Stadium),
		Duration:             strings.TrimSpace(raw.Duration),
		DurationMinutes:      minutes,
		Weather:              raw.Weather,
		RawAttend:            raw.Attend,
		RawScoreHome:         raw.ScoreHome,
		RawScoreVis:          raw.ScoreVis,
		RawRushTDHome:        raw.RushTDHome,
		RawPassTDHome:        raw.PassTDHome,
		RawRushTDVis:         raw.RushTDVis,
		RawPassTDVis:         raw.PassTDVis,
		RawRankHome:          raw.RankHome,
		RawRankVis:           raw.RankVis,
	}, corrected, nil
}

// ParseRating keys a Ratings row for the join.
func ParseRating(raw RawRating) RatingRecord {
	return RatingRecord{
		Index:       raw.Index,
		TeamIDsDate: strings.TrimSpace(raw.TeamIDsDate),
		Network:     strings.TrimSpace(raw.Network),
		RawViewers:  raw.Viewers,
		RawRating:   raw.Rating,
	}
}

// ParseCapacity parses a Capacity row. Capacity must be at least one seat.
func ParseCapacity(raw RawCapacity) (CapacityRecord, error) {
	capacity, err := parseInt(raw.Capacity)
	if err == nil && capacity < 1 {
		err = errors.New("capacity must be positive")
	}
	if err != nil {
		return CapacityRecord{}, &FormatError{Table: TableCapacity, Row: raw.Index, Column: "Capacity", Value: raw.Capacity, Err: err}
	}
	return CapacityRecord{
		HomeName: strings.TrimSpace(raw.HomeName),
		Stadium:  strings.TrimSpace(raw.Stadium),
		Capacity: capacity,
	}, nil
}

// Enrich parses the joined row's numeric cells and derives every computed
// column. Blank or malformed attendance, score, viewer, rating and rank cells
// are a *FormatError; blank touchdown cells count as zero.
func Enrich(g GameRecord, r RatingRecord, c CapacityRecord, m TeamMatcher) (EnrichedGame, error) {
	if err := parseGameCells(&g); err != nil {
		return EnrichedGame{}, err
	}

	viewers, err := parseNumber(r.RawViewers)
	if err != nil {
		return EnrichedGame{}, &FormatError{Table: TableRatings, Row: r.Index, Column: "VIEWERS", Value: r.RawViewers, Err: err}
	}
	rating, err := parseNumber(r.RawRating)
	if err != nil {
		return EnrichedGame{}, &FormatError{Table: TableRatings, Row: r.Index, Column: "RATING", Value: r.RawRating, Err: err}
	}

	rankHome, err := NormalizeRank(g.RawRankHome)
	if err != nil {
		return EnrichedGame{}, &FormatError{Table: TableGames, Row: g.Index, Column: "rank_home", Value: g.RawRankHome, Err: err}
	}
	rankVis, err := NormalizeRank(g.RawRankVis)
	if err != nil {
		return EnrichedGame{}, &FormatError{Table: TableGames, Row: g.Index, Column: "rank_vis", Value: g.RawRankVis, Err: err}
	}

	diff := g.ScoreHome - g.ScoreVis
	if diff < 0 {
		diff = -diff
	}

	return EnrichedGame{
		GameRecord:        g,
		Network:           r.Network,
		Viewers:           viewers,
		Rating:            rating,
		Capacity:          c.Capacity,
		PercentOfCapacity: float64(g.Attend) / float64(c.Capacity),
		TotalTouchdowns:   g.RushTDHome + g.PassTDHome + g.RushTDVis + g.PassTDVis,
		TotalPoints:       g.ScoreHome + g.ScoreVis,
		PointDifferential: diff,
		WeatherCategory:   CategorizeWeather(g.Weather),
		RankHome:          rankHome,
		RankVis:           rankVis,
		CombinedRank:      rankHome + rankVis,
		Teams:             m.Flags(g),
	}, nil
}

// parseGameCells fills the typed attendance, score and touchdown fields from
// their raw cells, correcting attendance.
func parseGameCells(g *GameRecord) error {
	attend, err := parseInt(g.RawAttend)
	if err != nil {
		return &FormatError{Table: TableGames, Row: g.Index, Column: "attend", Value: g.RawAttend, Err: err}
	}
	g.Attend, _ = CorrectAttendance(attend)

	for _, cell := range []struct {
		col   string
		val   string
		dst   *int
		parse func(string) (int, error)
	}{
		{"score_home", g.RawScoreHome, &g.ScoreHome, parseInt},
		{"score_vis", g.RawScoreVis, &g.ScoreVis, parseInt},
		{"rush_td_home", g.RawRushTDHome, &g.RushTDHome, parseCount},
		{"pass_td_home", g.RawPassTDHome, &g.PassTDHome, parseCount},
		{"rush_td_vis", g.RawRushTDVis, &g.RushTDVis, parseCount},
		{"pass_td_vis", g.RawPassTDVis, &g.PassTDVis, parseCount},
	} {
		v, err := cell.parse(cell.val)
		if err != nil {
			return &FormatError{Table: TableGames, Row: g.Index, Column: cell.col, Value: cell.val, Err: err}
		}
		*cell.dst = v
	}
	return nil
}

// parseNumber parses a numeric cell, tolerating thousands separators.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

// parseInt parses an integer cell; integral float notation such as "71004.0"
// is accepted because spreadsheet exports write counts that way.
func parseInt(s string) (int, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if n, err := strconv.Atoi(clean); err == nil {
		return n, nil
	}
	v, err := parseNumber(clean)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, errors.New("not an integer")
	}
	return int(v), nil
}

// parseCount is parseInt with empty cells read as zero; touchdown columns are
// blank when a side scored none of that kind.
func parseCount(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseInt(s)
}

// parseDate tries each known layout and returns the zero time when none fits.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
