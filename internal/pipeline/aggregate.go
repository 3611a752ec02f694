package pipeline

import (
	"sort"

	"github.com/jake-tolleson/544Final/internal/domain"
)

// summarize builds one TeamSummary per roster team, sorted by team name.
// Viewers and rating average over every game the team played; percent of
// capacity averages over its home games only.
func summarize(games []domain.EnrichedGame, m domain.TeamMatcher) []domain.TeamSummary {
	out := make([]domain.TeamSummary, 0, len(domain.Roster))
	for _, team := range domain.Roster {
		var viewers, ratings, pct []float64
		home := 0
		for i := range games {
			g := &games[i]
			if !g.Teams[team] {
				continue
			}
			viewers = append(viewers, g.Viewers)
			ratings = append(ratings, g.Rating)
			if m.IsHome(team, g.GameRecord) {
				home++
				pct = append(pct, g.PercentOfCapacity)
			}
		}
		out = append(out, domain.TeamSummary{
			Team:                 team,
			Games:                len(viewers),
			HomeGames:            home,
			AvgViewers:           mean(viewers),
			AvgPercentOfCapacity: mean(pct),
			AvgRating:            mean(ratings),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// mean returns nil for an empty slice.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}
