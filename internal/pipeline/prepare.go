package pipeline

import (
	"fmt"
	"time"

	"github.com/jake-tolleson/544Final/internal/domain"
)

// DefaultSeriesCacheSize bounds the per-dataset series memo when Options leave it unset.
const DefaultSeriesCacheSize = 64

// droppedKeySample caps how many dropped join keys a Report keeps.
const droppedKeySample = 10

// Options tune dataset preparation.
type Options struct {
	Matcher         domain.TeamMatcher
	SeriesCacheSize int

	// RefreshInterval is how often Pipeline.Watch rebuilds; zero disables refresh.
	RefreshInterval time.Duration
}

// JoinLoss records the games an inner join dropped. Keys holds at most ten of
// the unmatched keys, in input order.
type JoinLoss struct {
	Join    string   `json:"join"`
	Dropped int      `json:"dropped"`
	Keys    []string `json:"keys,omitempty"`
}

func (l *JoinLoss) add(key string) {
	l.Dropped++
	if len(l.Keys) < droppedKeySample {
		l.Keys = append(l.Keys, key)
	}
}

// Report describes what preparation read, corrected and dropped.
type Report struct {
	GamesRead    int `json:"games_read"`
	RatingsRead  int `json:"ratings_read"`
	CapacityRead int `json:"capacity_read"`

	DurationPatches   int `json:"duration_patches"`
	AttendancePatches int `json:"attendance_patches"`

	DroppedByRatings  JoinLoss `json:"dropped_by_ratings"`
	DroppedByCapacity JoinLoss `json:"dropped_by_capacity"`

	// EmptyTeams lists roster teams with no games; their averages are nil.
	EmptyTeams []string `json:"empty_teams,omitempty"`
}

// Prepare turns the three raw tables into an immutable Dataset. It is pure
// apart from stamping PreparedAt: identical tables give identical games, team
// summaries and report. Any *domain.FormatError aborts preparation.
func Prepare(tables domain.Tables, opts Options) (*Dataset, error) {
	return prepare(tables, opts, clock.Now())
}

func prepare(tables domain.Tables, opts Options, now time.Time) (*Dataset, error) {
	report := Report{
		GamesRead:         len(tables.Games),
		RatingsRead:       len(tables.Ratings),
		CapacityRead:      len(tables.Capacity),
		DroppedByRatings:  JoinLoss{Join: domain.TableRatings},
		DroppedByCapacity: JoinLoss{Join: domain.TableCapacity},
	}

	rawGames, patched := domain.ApplyDurationPatches(tables.Games)
	report.DurationPatches = patched

	games := make([]domain.GameRecord, 0, len(rawGames))
	for _, raw := range rawGames {
		g, corrected, err := domain.ParseGame(raw)
		if err != nil {
			return nil, fmt.Errorf("prepare games: %w", err)
		}
		if corrected {
			report.AttendancePatches++
		}
		games = append(games, g)
	}

	ratings := make([]domain.RatingRecord, 0, len(tables.Ratings))
	for _, raw := range tables.Ratings {
		ratings = append(ratings, domain.ParseRating(raw))
	}

	capacity := make([]domain.CapacityRecord, 0, len(tables.Capacity))
	for _, raw := range tables.Capacity {
		c, err := domain.ParseCapacity(raw)
		if err != nil {
			return nil, fmt.Errorf("prepare capacity: %w", err)
		}
		capacity = append(capacity, c)
	}

	enriched, err := join(games, ratings, capacity, opts.Matcher, &report)
	if err != nil {
		return nil, fmt.Errorf("prepare join: %w", err)
	}

	teams := summarize(enriched, opts.Matcher)
	for _, s := range teams {
		if s.Games == 0 {
			report.EmptyTeams = append(report.EmptyTeams, s.Team)
		}
	}

	return newDataset(enriched, teams, report, opts, now.UTC().Truncate(time.Second)), nil
}
