package pipeline_test

import (
	"time"

	"github.com/jake-tolleson/544Final/internal/domain"
)

const (
	keyIronBowl   = "8-333-2014-11-29"
	keyLSUAlabama = "8-365-2015-11-07"
	keyCocktail   = "235-257-2015-10-31"
	keySunshine   = "235-234-2016-11-26"
	keyAlabamaLSU = "8-365-2013-09-05"

	bryantDenny  = "Bryant-Denny Stadium"
	tigerStadium = "Tiger Stadium"
)

var fixtureTime = time.Date(2018, time.December, 1, 12, 0, 0, 0, time.UTC)

func rawGame(index int, key, date, home, vis, matchup, stadium string) domain.RawGame {
	return domain.RawGame{
		Index:                index,
		TeamIDsDate:          key,
		Date:                 date,
		HomeName:             home,
		VisName:              vis,
		MatchupFullTeamNames: matchup,
		Stadium:              stadium,
		Duration:             "3:30",
		Attend:               "90000",
		ScoreHome:            "21",
		ScoreVis:             "14",
		RushTDHome:           "2",
		PassTDHome:           "1",
		RushTDVis:            "1",
		PassTDVis:            "1",
		Weather:              "Sunny",
		RankHome:             "10",
		RankVis:              "20",
	}
}

// fixtureTables holds five games: three survive both joins, one has no
// rating and one has no capacity row.
func fixtureTables() domain.Tables {
	g0 := rawGame(0, keyIronBowl, "2014-11-29", "Alabama", "Auburn", "Auburn Tigers vs. Alabama Crimson Tide", bryantDenny)
	g0.Attend = "101,821"
	g0.ScoreHome, g0.ScoreVis = "55", "44"

	g1 := rawGame(1, keyLSUAlabama, "2015-11-07", "LSU", "Alabama", "Alabama Crimson Tide vs. LSU Tigers", tigerStadium)
	g1.Duration = "3:07"
	g1.Attend = "300000"
	g1.Weather = "Partly Cloudy and Humid"
	g1.RankHome = domain.UnrankedSentinel
	g1.RankVis = "5"

	g2 := rawGame(2, keyCocktail, "2015-10-31", "Georgia", "Florida", "Florida Gators vs. Georgia Bulldogs", "EverBank Field")
	// Never joined, so its rank is never checked.
	g2.RankHome = "NR"

	g3 := rawGame(3, keySunshine, "2016-11-26", "Florida", "Florida State", "Florida State Seminoles vs. Florida Gators", "Ben Hill Griffin Stadium")

	g4 := rawGame(4, keyAlabamaLSU, "9/5/2013", "Alabama", "LSU", "LSU Tigers vs. Alabama Crimson Tide", bryantDenny)
	g4.Attend = "101821"
	g4.Weather = ""
	g4.RankHome, g4.RankVis = "1", "13"

	return domain.Tables{
		Games: []domain.RawGame{g0, g1, g2, g3, g4},
		Ratings: []domain.RawRating{
			{Index: 0, TeamIDsDate: keyIronBowl, Network: "CBS", Viewers: "13,540,000", Rating: "7.8"},
			{Index: 1, TeamIDsDate: keyLSUAlabama, Network: "ESPN", Viewers: "5000000", Rating: "3.1"},
			{Index: 2, TeamIDsDate: keySunshine, Network: "ABC", Viewers: "6000000", Rating: "3.5"},
			{Index: 3, TeamIDsDate: keyAlabamaLSU, Network: "CBS", Viewers: "11000000", Rating: "6.0"},
		},
		Capacity: []domain.RawCapacity{
			{Index: 0, HomeName: "Alabama", Stadium: bryantDenny, Capacity: "101821"},
			{Index: 1, HomeName: "LSU", Stadium: tigerStadium, Capacity: "100000"},
		},
	}
}
