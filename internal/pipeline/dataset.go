package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jake-tolleson/544Final/internal/domain"
)

// ErrUnknownTeam is returned by the query methods for a name not on the roster.
var ErrUnknownTeam = errors.New("unknown team")

// Dataset is one prepared, read-only version of the dashboard data. Its query
// methods are safe for concurrent use.
type Dataset struct {
	// ID is assigned by Pipeline.Build when the dataset is published.
	ID         string                `json:"id,omitempty"`
	Games      []domain.EnrichedGame `json:"games"`
	Teams      []domain.TeamSummary  `json:"teams"`
	Report     Report                `json:"report"`
	PreparedAt time.Time             `json:"prepared_at"`

	matcher domain.TeamMatcher
	series  *lruCache[[]YearlyPoint]
}

// YearlyPoint is one year of a team's series. AvgPercentOfCapacity is nil in
// years without a home game.
type YearlyPoint struct {
	Year                 int      `json:"year"`
	Games                int      `json:"games"`
	HomeGames            int      `json:"home_games"`
	AvgViewers           *float64 `json:"avg_viewers"`
	AvgPercentOfCapacity *float64 `json:"avg_percent_of_capacity"`
}

// Averages are conference-wide means of the per-team averages, over teams
// where the value is defined.
type Averages struct {
	Viewers           *float64 `json:"viewers"`
	PercentOfCapacity *float64 `json:"percent_of_capacity"`
	Rating            *float64 `json:"rating"`
}

func newDataset(games []domain.EnrichedGame, teams []domain.TeamSummary, report Report, opts Options, preparedAt time.Time) *Dataset {
	size := opts.SeriesCacheSize
	if size <= 0 {
		size = DefaultSeriesCacheSize
	}
	return &Dataset{
		Games:      games,
		Teams:      teams,
		Report:     report,
		PreparedAt: preparedAt,
		matcher:    opts.Matcher,
		series:     newLRUCache[[]YearlyPoint](size),
	}
}

// Summary returns the aggregate row for team.
func (d *Dataset) Summary(team string) (domain.TeamSummary, error) {
	for _, s := range d.Teams {
		if s.Team == team {
			return s, nil
		}
	}
	return domain.TeamSummary{}, unknownTeam(team)
}

// GamesFor returns the team's games ordered by date ascending. Games on the
// same date keep their input order.
func (d *Dataset) GamesFor(team string) ([]domain.EnrichedGame, error) {
	if !domain.IsTracked(team) {
		return nil, unknownTeam(team)
	}
	var out []domain.EnrichedGame
	for i := range d.Games {
		if d.Games[i].Teams[team] {
			out = append(out, d.Games[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// TeamSeries returns the team's yearly means ordered by year: viewers over all
// of its games that year, percent of capacity over its home games. Games with
// an unknown date are left out.
func (d *Dataset) TeamSeries(team string) ([]YearlyPoint, error) {
	if !domain.IsTracked(team) {
		return nil, unknownTeam(team)
	}
	if d.series != nil {
		if cached, ok := d.series.get(team); ok {
			return copySeries(cached), nil
		}
	}

	type bucket struct {
		viewers []float64
		pct     []float64
	}
	years := map[int]*bucket{}
	for i := range d.Games {
		g := &d.Games[i]
		if !g.Teams[team] || g.Date.IsZero() {
			continue
		}
		b, ok := years[g.Date.Year()]
		if !ok {
			b = &bucket{}
			years[g.Date.Year()] = b
		}
		b.viewers = append(b.viewers, g.Viewers)
		if d.matcher.IsHome(team, g.GameRecord) {
			b.pct = append(b.pct, g.PercentOfCapacity)
		}
	}

	points := make([]YearlyPoint, 0, len(years))
	for year, b := range years {
		points = append(points, YearlyPoint{
			Year:                 year,
			Games:                len(b.viewers),
			HomeGames:            len(b.pct),
			AvgViewers:           mean(b.viewers),
			AvgPercentOfCapacity: mean(b.pct),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })

	if d.series != nil {
		d.series.put(team, points)
	}
	return copySeries(points), nil
}

// copySeries copies points and the averages they point to, so callers cannot
// reach the memoized series.
func copySeries(points []YearlyPoint) []YearlyPoint {
	out := make([]YearlyPoint, len(points))
	for i, p := range points {
		p.AvgViewers = copyFloat(p.AvgViewers)
		p.AvgPercentOfCapacity = copyFloat(p.AvgPercentOfCapacity)
		out[i] = p
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// CompareSeries returns the yearly series of two teams side by side.
func (d *Dataset) CompareSeries(teamA, teamB string) (a, b []YearlyPoint, err error) {
	if a, err = d.TeamSeries(teamA); err != nil {
		return nil, nil, err
	}
	if b, err = d.TeamSeries(teamB); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// ConferenceAverages averages the per-team averages.
func (d *Dataset) ConferenceAverages() Averages {
	var viewers, pct, rating []float64
	for _, s := range d.Teams {
		if s.AvgViewers != nil {
			viewers = append(viewers, *s.AvgViewers)
		}
		if s.AvgPercentOfCapacity != nil {
			pct = append(pct, *s.AvgPercentOfCapacity)
		}
		if s.AvgRating != nil {
			rating = append(rating, *s.AvgRating)
		}
	}
	return Averages{
		Viewers:           mean(viewers),
		PercentOfCapacity: mean(pct),
		Rating:            mean(rating),
	}
}

func unknownTeam(team string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTeam, team)
}
