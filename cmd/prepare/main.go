// Command prepare runs the dataset preparation once over the three input
// tables, writes the enriched games and team summaries as JSON fixtures, and
// prints the figures the dashboard charts are built from.
//
// Usage:
//
//	go run ./cmd/prepare \
//	  -games data/games_flat_xml_2012-2018.csv \
//	  -ratings data/TV_Ratings_onesheet.csv \
//	  -capacity data/capacity.csv \
//	  -out data/prepared/games.json \
//	  -teams-out data/prepared/teams.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jake-tolleson/544Final/internal/adapter/tabular"
	"github.com/jake-tolleson/544Final/internal/config"
	"github.com/jake-tolleson/544Final/internal/domain"
	"github.com/jake-tolleson/544Final/internal/pipeline"
)

// preparedAt is fixed so fixtures are reproducible.
var preparedAt = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	gamesPath := flag.String("games", "", "path to the Games table (.csv or .xlsx)")
	ratingsPath := flag.String("ratings", "", "path to the Ratings table (.csv or .xlsx)")
	capacityPath := flag.String("capacity", "", "path to the Capacity table (.csv or .xlsx)")
	match := flag.String("match", string(domain.MatchSubstring), "team match mode: substring or exact")
	gamesOut := flag.String("out", "", "output path for enriched games JSON")
	teamsOut := flag.String("teams-out", "", "output path for team summaries JSON")
	flag.Parse()

	if *gamesPath == "" || *ratingsPath == "" || *capacityPath == "" || *gamesOut == "" || *teamsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -games, -ratings, -capacity, -out, -teams-out")
	}

	matcher, err := domain.NewTeamMatcher(*match)
	if err != nil {
		return err
	}

	pipeline.SetClock(clockwork.NewFakeClockAt(preparedAt))
	defer pipeline.SetClock(nil)

	reader := tabular.NewReader(&config.Config{
		GamesPath:    *gamesPath,
		RatingsPath:  *ratingsPath,
		CapacityPath: *capacityPath,
	}, slog.Default())

	tables, err := reader.Load(context.Background())
	if err != nil {
		return err
	}

	ds, err := pipeline.Prepare(tables, pipeline.Options{Matcher: matcher})
	if err != nil {
		return err
	}

	if err := writeJSON(*gamesOut, ds.Games); err != nil {
		return fmt.Errorf("writing games fixture: %w", err)
	}
	log.Printf("wrote games fixture: %s", *gamesOut)

	if err := writeJSON(*teamsOut, ds.Teams); err != nil {
		return fmt.Errorf("writing teams fixture: %w", err)
	}
	log.Printf("wrote teams fixture: %s", *teamsOut)

	printStats(ds)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(ds *pipeline.Dataset) {
	r := ds.Report
	fmt.Println("\n=== Preparation report ===")
	fmt.Printf("Read: games=%d, ratings=%d, capacity=%d\n", r.GamesRead, r.RatingsRead, r.CapacityRead)
	fmt.Printf("Patched: duration=%d, attend=%d\n", r.DurationPatches, r.AttendancePatches)
	fmt.Printf("Dropped: no rating=%d, no capacity=%d\n", r.DroppedByRatings.Dropped, r.DroppedByCapacity.Dropped)
	for _, loss := range []pipeline.JoinLoss{r.DroppedByRatings, r.DroppedByCapacity} {
		for _, k := range loss.Keys {
			fmt.Printf("  %s: %s\n", loss.Join, k)
		}
	}
	fmt.Printf("Enriched games: %d\n", len(ds.Games))

	printWeather(ds.Games)
	printTeams(ds)
	printRanks(ds.Games)
}

func printWeather(games []domain.EnrichedGame) {
	counts := map[domain.WeatherCategory]int{}
	for i := range games {
		counts[games[i].WeatherCategory]++
	}
	fmt.Println("\nWeather categories:")
	for _, c := range domain.WeatherCategories {
		fmt.Printf("  %-8s %d\n", c, counts[c])
	}
}

func printTeams(ds *pipeline.Dataset) {
	fmt.Println("\nTeams:")
	fmt.Printf("  %-18s %5s %5s %14s %9s %7s\n", "team", "games", "home", "avg viewers", "capacity", "rating")
	for _, s := range ds.Teams {
		fmt.Printf("  %-18s %5d %5d %14s %9s %7s\n",
			s.Team, s.Games, s.HomeGames,
			formatFloat(s.AvgViewers, "%.0f"),
			formatFloat(s.AvgPercentOfCapacity, "%.3f"),
			formatFloat(s.AvgRating, "%.2f"),
		)
	}

	avg := ds.ConferenceAverages()
	fmt.Printf("  %-18s %5s %5s %14s %9s %7s\n", "Average", "", "",
		formatFloat(avg.Viewers, "%.0f"),
		formatFloat(avg.PercentOfCapacity, "%.3f"),
		formatFloat(avg.Rating, "%.2f"),
	)

	if len(ds.Report.EmptyTeams) > 0 {
		fmt.Printf("Teams without games: %v\n", ds.Report.EmptyTeams)
	}
}

// printRanks lists the five matchups with the lowest combined rank.
func printRanks(games []domain.EnrichedGame) {
	top := make([]domain.EnrichedGame, len(games))
	copy(top, games)
	sort.SliceStable(top, func(i, j int) bool { return top[i].CombinedRank < top[j].CombinedRank })

	fmt.Println("\nBest combined rank:")
	for _, g := range top[:min(5, len(top))] {
		fmt.Printf("  %3d  %s (%s, %s viewers)\n", g.CombinedRank, g.MatchupFullTeamNames, g.Network,
			formatFloat(&g.Viewers, "%.0f"))
	}
}

func formatFloat(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
