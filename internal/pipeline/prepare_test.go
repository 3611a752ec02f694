package pipeline_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jake-tolleson/544Final/internal/domain"
	"github.com/jake-tolleson/544Final/internal/pipeline"
)

func prepareFixture(t *testing.T) *pipeline.Dataset {
	t.Helper()
	pipeline.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	t.Cleanup(func() { pipeline.SetClock(nil) })

	ds, err := pipeline.Prepare(fixtureTables(), pipeline.Options{})
	require.NoError(t, err)
	return ds
}

func TestPrepare_JoinsAndReport(t *testing.T) {
	ds := prepareFixture(t)

	require.Len(t, ds.Games, 3)
	assert.Equal(t, keyIronBowl, ds.Games[0].TeamIDsDate)
	assert.Equal(t, keyLSUAlabama, ds.Games[1].TeamIDsDate)
	assert.Equal(t, keyAlabamaLSU, ds.Games[2].TeamIDsDate)
	assert.Equal(t, fixtureTime, ds.PreparedAt)

	r := ds.Report
	assert.Equal(t, 5, r.GamesRead)
	assert.Equal(t, 4, r.RatingsRead)
	assert.Equal(t, 2, r.CapacityRead)
	assert.Zero(t, r.DurationPatches)
	assert.Equal(t, 1, r.AttendancePatches)

	assert.Equal(t, pipeline.JoinLoss{Join: "ratings", Dropped: 1, Keys: []string{keyCocktail}}, r.DroppedByRatings)
	assert.Equal(t, pipeline.JoinLoss{Join: "capacity", Dropped: 1, Keys: []string{"Florida @ Ben Hill Griffin Stadium"}}, r.DroppedByCapacity)
}

func TestPrepare_EndToEndScenario(t *testing.T) {
	ds := prepareFixture(t)
	g := ds.Games[1]

	assert.Equal(t, 187, g.DurationMinutes)
	assert.Equal(t, 71004, g.Attend)
	assert.Equal(t, 100000, g.Capacity)
	assert.InDelta(t, 0.71004, g.PercentOfCapacity, 1e-12)
	assert.Equal(t, domain.WeatherCloudy, g.WeatherCategory)
	assert.Equal(t, 26, g.RankHome)
	assert.Equal(t, 5, g.RankVis)
	assert.Equal(t, 31, g.CombinedRank)
	assert.Equal(t, "ESPN", g.Network)
	assert.InDelta(t, 5_000_000, g.Viewers, 0)
}

func TestPrepare_Invariants(t *testing.T) {
	ds := prepareFixture(t)

	for _, g := range ds.Games {
		assert.LessOrEqual(t, g.Attend, 200000)
		assert.InDelta(t, float64(g.Attend)/float64(g.Capacity), g.PercentOfCapacity, 1e-12)
		assert.Equal(t, g.RankHome+g.RankVis, g.CombinedRank)
		assert.GreaterOrEqual(t, g.RankHome, 1)
		assert.LessOrEqual(t, g.RankHome, 26)
		assert.GreaterOrEqual(t, g.RankVis, 1)
		assert.LessOrEqual(t, g.RankVis, 26)
		assert.True(t, g.WeatherCategory.Valid())
		assert.Equal(t, g.RushTDHome+g.PassTDHome+g.RushTDVis+g.PassTDVis, g.TotalTouchdowns)
		assert.Equal(t, g.ScoreHome+g.ScoreVis, g.TotalPoints)
		assert.GreaterOrEqual(t, g.PointDifferential, 0)
		assert.Len(t, g.Teams, len(domain.Roster))
	}
	assert.Equal(t, domain.WeatherUnknown, ds.Games[2].WeatherCategory)
}

func TestPrepare_Deterministic(t *testing.T) {
	pipeline.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer pipeline.SetClock(nil)

	first, err := pipeline.Prepare(fixtureTables(), pipeline.Options{})
	require.NoError(t, err)
	second, err := pipeline.Prepare(fixtureTables(), pipeline.Options{})
	require.NoError(t, err)

	if diff := cmp.Diff(first.Games, second.Games); diff != "" {
		t.Errorf("games mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Teams, second.Teams); diff != "" {
		t.Errorf("teams mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Report, second.Report); diff != "" {
		t.Errorf("report mismatch (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.PreparedAt, second.PreparedAt)
}

func TestPrepare_DurationPatches(t *testing.T) {
	tables := fixtureTables()
	base := tables.Games[0]

	games := make([]domain.RawGame, 700)
	for i := range games {
		games[i] = base
		games[i].Index = i
	}
	for _, idx := range []int{312, 483, 491, 579, 624, 679} {
		games[idx].Duration = "3:O7 OT"
	}
	tables.Games = games

	ds, err := pipeline.Prepare(tables, pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, 6, ds.Report.DurationPatches)
	require.Len(t, ds.Games, 700)

	want := map[int]int{312: 0, 483: 205, 491: 0, 579: 194, 624: 185, 679: 187}
	for idx, minutes := range want {
		assert.Equal(t, idx, ds.Games[idx].Index)
		assert.Equal(t, minutes, ds.Games[idx].DurationMinutes, "index %d", idx)
	}
	assert.Equal(t, 210, ds.Games[680].DurationMinutes)
}

func TestPrepare_FormatErrorIsFatal(t *testing.T) {
	tables := fixtureTables()
	tables.Games[3].Duration = "3:7"

	ds, err := pipeline.Prepare(tables, pipeline.Options{})
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, domain.ErrFormat))

	var fe *domain.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 3, fe.Row)
	assert.Equal(t, "duration", fe.Column)
}

func TestPrepare_BadRankOnJoinedGame(t *testing.T) {
	tables := fixtureTables()
	tables.Games[0].RankVis = "0"

	_, err := pipeline.Prepare(tables, pipeline.Options{})
	var fe *domain.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "rank_vis", fe.Column)
}

func TestPrepare_BlankCellsOnDroppedRows(t *testing.T) {
	tables := fixtureTables()
	// Game 2 has no rating and game 3 no capacity row.
	tables.Games[2].Attend = ""
	tables.Games[2].ScoreHome = ""
	tables.Games[3].Attend = ""
	tables.Games[3].PassTDVis = "n/a"
	// The rating for game 3 matches but the row is then dropped by capacity.
	tables.Ratings[2].Viewers = ""
	tables.Ratings[2].Rating = ""

	ds, err := pipeline.Prepare(tables, pipeline.Options{})
	require.NoError(t, err)

	assert.Len(t, ds.Games, 3)
	assert.Equal(t, 1, ds.Report.DroppedByRatings.Dropped)
	assert.Equal(t, 1, ds.Report.DroppedByCapacity.Dropped)
}

func TestPrepare_BlankCellOnJoinedRowIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Tables)
		table  string
		column string
	}{
		{"attend", func(tb *domain.Tables) { tb.Games[0].Attend = "" }, domain.TableGames, "attend"},
		{"viewers", func(tb *domain.Tables) { tb.Ratings[1].Viewers = "" }, domain.TableRatings, "VIEWERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := fixtureTables()
			tt.mutate(&tables)

			ds, err := pipeline.Prepare(tables, pipeline.Options{})
			assert.Nil(t, ds)
			var fe *domain.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.table, fe.Table)
			assert.Equal(t, tt.column, fe.Column)
		})
	}
}

func TestPrepare_BadCapacity(t *testing.T) {
	tables := fixtureTables()
	tables.Capacity[1].Capacity = "0"

	_, err := pipeline.Prepare(tables, pipeline.Options{})
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestPrepare_DuplicateRatingsFanOut(t *testing.T) {
	tables := fixtureTables()
	tables.Ratings = append(tables.Ratings, domain.RawRating{
		Index: 4, TeamIDsDate: keyIronBowl, Network: "CBSSN", Viewers: "100000", Rating: "0.1",
	})

	ds, err := pipeline.Prepare(tables, pipeline.Options{})
	require.NoError(t, err)

	require.Len(t, ds.Games, 4)
	assert.Equal(t, "CBS", ds.Games[0].Network)
	assert.Equal(t, "CBSSN", ds.Games[1].Network)
	assert.Equal(t, keyIronBowl, ds.Games[1].TeamIDsDate)
}

func TestPrepare_TeamSummaries(t *testing.T) {
	ds := prepareFixture(t)

	require.Len(t, ds.Teams, len(domain.Roster))
	for i := 1; i < len(ds.Teams); i++ {
		assert.Less(t, ds.Teams[i-1].Team, ds.Teams[i].Team)
	}

	alabama, err := ds.Summary("Alabama")
	require.NoError(t, err)
	assert.Equal(t, 3, alabama.Games)
	assert.Equal(t, 2, alabama.HomeGames)
	require.NotNil(t, alabama.AvgViewers)
	assert.InDelta(t, 29_540_000.0/3, *alabama.AvgViewers, 1e-6)
	require.NotNil(t, alabama.AvgPercentOfCapacity)
	assert.InDelta(t, 1.0, *alabama.AvgPercentOfCapacity, 1e-12)
	require.NotNil(t, alabama.AvgRating)
	assert.InDelta(t, 16.9/3, *alabama.AvgRating, 1e-9)

	lsu, err := ds.Summary("LSU")
	require.NoError(t, err)
	assert.Equal(t, 2, lsu.Games)
	assert.Equal(t, 1, lsu.HomeGames)
	assert.InDelta(t, 8_000_000, *lsu.AvgViewers, 1e-6)
	assert.InDelta(t, 0.71004, *lsu.AvgPercentOfCapacity, 1e-12)

	t.Run("no home games", func(t *testing.T) {
		auburn, err := ds.Summary("Auburn")
		require.NoError(t, err)
		assert.Equal(t, 1, auburn.Games)
		assert.NotNil(t, auburn.AvgViewers)
		assert.Nil(t, auburn.AvgPercentOfCapacity)
	})

	t.Run("team without games", func(t *testing.T) {
		vandy, err := ds.Summary("Vanderbilt")
		require.NoError(t, err)
		assert.Zero(t, vandy.Games)
		assert.Nil(t, vandy.AvgViewers)
		assert.Nil(t, vandy.AvgPercentOfCapacity)
		assert.Nil(t, vandy.AvgRating)
	})

	assert.Equal(t, []string{
		"Arkansas", "Florida", "Georgia", "Kentucky", "Mississippi State", "Missouri",
		"Ole Miss", "South Carolina", "Tennessee", "Texas A&M", "Vanderbilt",
	}, ds.Report.EmptyTeams)
}

func TestPrepare_ExactMatching(t *testing.T) {
	matcher, err := domain.NewTeamMatcher("exact")
	require.NoError(t, err)

	tables := fixtureTables()
	// A rival whose name contains a roster name.
	extra := rawGame(5, "999-333-2017-09-09", "2017-09-09", "Alabama", "Florida State",
		"Florida State Seminoles vs. Alabama Crimson Tide", bryantDenny)
	extra.Attend = "101821"
	tables.Games = append(tables.Games, extra)
	tables.Ratings = append(tables.Ratings, domain.RawRating{
		Index: 4, TeamIDsDate: extra.TeamIDsDate, Network: "ABC", Viewers: "9000000", Rating: "5.0",
	})

	substring, err := pipeline.Prepare(tables, pipeline.Options{})
	require.NoError(t, err)
	exact, err := pipeline.Prepare(tables, pipeline.Options{Matcher: matcher})
	require.NoError(t, err)

	sub, err := substring.Summary("Florida")
	require.NoError(t, err)
	assert.Equal(t, 1, sub.Games)

	ex, err := exact.Summary("Florida")
	require.NoError(t, err)
	assert.Zero(t, ex.Games)
	assert.Nil(t, ex.AvgViewers)
}
