package pipeline

import (
	"github.com/jake-tolleson/544Final/internal/domain"
)

type stadiumKey struct {
	home    string
	stadium string
}

// join inner-joins games to ratings on TeamIDsDate and the result to capacity
// on (home team, stadium), then enriches every surviving row. A duplicate key
// on the right yields one row per match. Output follows games order.
func join(games []domain.GameRecord, ratings []domain.RatingRecord, capacity []domain.CapacityRecord, m domain.TeamMatcher, report *Report) ([]domain.EnrichedGame, error) {
	byKey := make(map[string][]domain.RatingRecord, len(ratings))
	for _, r := range ratings {
		byKey[r.TeamIDsDate] = append(byKey[r.TeamIDsDate], r)
	}
	byStadium := make(map[stadiumKey][]domain.CapacityRecord, len(capacity))
	for _, c := range capacity {
		k := stadiumKey{home: c.HomeName, stadium: c.Stadium}
		byStadium[k] = append(byStadium[k], c)
	}

	out := make([]domain.EnrichedGame, 0, len(games))
	for _, g := range games {
		matched, ok := byKey[g.TeamIDsDate]
		if !ok {
			report.DroppedByRatings.add(g.TeamIDsDate)
			continue
		}
		venues, ok := byStadium[stadiumKey{home: g.HomeName, stadium: g.Stadium}]
		if !ok {
			// Each rating match would have produced a row.
			for range matched {
				report.DroppedByCapacity.add(g.HomeName + " @ " + g.Stadium)
			}
			continue
		}
		for _, r := range matched {
			for _, c := range venues {
				e, err := domain.Enrich(g, r, c, m)
				if err != nil {
					return nil, err
				}
				out = append(out, e)
			}
		}
	}
	return out, nil
}
