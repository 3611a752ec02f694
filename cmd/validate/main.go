// Command validate checks prepared JSON fixtures against the raw input tables.
// It re-runs preparation on the raw tables and verifies row accounting, the
// derived-column invariants, team summaries and determinism.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -games data/games_flat_xml_2012-2018.csv \
//	  -ratings data/TV_Ratings_onesheet.csv \
//	  -capacity data/capacity.csv \
//	  -games-json data/prepared/games.json \
//	  -teams-json data/prepared/teams.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/jake-tolleson/544Final/internal/adapter/tabular"
	"github.com/jake-tolleson/544Final/internal/config"
	"github.com/jake-tolleson/544Final/internal/domain"
	"github.com/jake-tolleson/544Final/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	gamesPath := flag.String("games", "", "path to the Games table")
	ratingsPath := flag.String("ratings", "", "path to the Ratings table")
	capacityPath := flag.String("capacity", "", "path to the Capacity table")
	match := flag.String("match", string(domain.MatchSubstring), "team match mode used for the fixtures")
	gamesJSON := flag.String("games-json", "", "path to the enriched games fixture")
	teamsJSON := flag.String("teams-json", "", "path to the team summaries fixture")
	flag.Parse()

	if *gamesPath == "" || *ratingsPath == "" || *capacityPath == "" || *gamesJSON == "" || *teamsJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := &config.Config{GamesPath: *gamesPath, RatingsPath: *ratingsPath, CapacityPath: *capacityPath}
	if code := run(cfg, *match, *gamesJSON, *teamsJSON); code != 0 {
		os.Exit(code)
	}
}

func run(cfg *config.Config, match, gamesJSONPath, teamsJSONPath string) int {
	// Any fixed time works; fixtures never carry PreparedAt.
	pipeline.SetClock(clockwork.NewFakeClockAt(time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer pipeline.SetClock(nil)

	fmt.Println("=== Gameday Dataset Validation ===")
	fmt.Println()

	matcher, err := domain.NewTeamMatcher(match)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	tables, err := tabular.NewReader(cfg, slog.Default()).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load tables: %v\n", err)
		return 1
	}

	fixtureGames, err := loadJSON[domain.EnrichedGame](gamesJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load games JSON: %v\n", err)
		return 1
	}
	fixtureTeams, err := loadJSON[domain.TeamSummary](teamsJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load teams JSON: %v\n", err)
		return 1
	}

	opts := pipeline.Options{Matcher: matcher}
	ds, err := pipeline.Prepare(tables, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: prepare: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateInputs(tables),
		validateDerivedColumns(fixtureGames),
		validateAgainstRaw(fixtureGames, ds),
		validateTeams(fixtureTeams, ds),
		validateDeterminism(tables, opts, ds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d games, %d ratings, %d capacity; %d enriched in fixture, %d re-derived\n",
		len(tables.Games), len(tables.Ratings), len(tables.Capacity), len(fixtureGames), len(ds.Games))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Inputs ──
// Every duration parses after patching and the patch table hits real rows.

func validateInputs(tables domain.Tables) *phase {
	p := &phase{name: "Phase 1: Input Tables (patch + parse)"}

	patched, _ := domain.ApplyDurationPatches(tables.Games)
	for _, g := range patched {
		if _, err := domain.ParseDuration(g.Duration); err != nil {
			p.errorf("games row %d: duration %q: %v", g.Index, g.Duration, err)
		}
		if _, corrected := domain.CorrectAttendance(mustAtoi(g.Attend)); corrected {
			fmt.Printf("  note: games row %d attendance %s will be corrected\n", g.Index, g.Attend)
		}
	}

	again, changed := domain.ApplyDurationPatches(patched)
	if changed != 0 || !cmp.Equal(again, patched) {
		p.errorf("duration patches are not idempotent (%d cells changed on second pass)", changed)
	}
	return p
}

// ── Phase 2: Derived columns ──
// Checks every fixture row in isolation.

func validateDerivedColumns(games []domain.EnrichedGame) *phase {
	p := &phase{name: "Phase 2: Derived Columns (fixture rows)"}

	for i := range games {
		g := &games[i]
		pf := func(format string, args ...any) {
			p.errorf("game %d (%s): "+format, append([]any{i, g.TeamIDsDate}, args...)...)
		}

		if g.Attend > 200000 {
			pf("attend %d above 200000", g.Attend)
		}
		if g.Capacity <= 0 {
			pf("capacity %d not positive", g.Capacity)
		} else if !floatEq(g.PercentOfCapacity, float64(g.Attend)/float64(g.Capacity)) {
			pf("percent_of_capacity %g != %d/%d", g.PercentOfCapacity, g.Attend, g.Capacity)
		}
		if g.CombinedRank != g.RankHome+g.RankVis {
			pf("combined_rank %d != %d+%d", g.CombinedRank, g.RankHome, g.RankVis)
		}
		for _, r := range []int{g.RankHome, g.RankVis} {
			if r < 1 || r > domain.UnrankedPosition {
				pf("rank %d outside [1, %d]", r, domain.UnrankedPosition)
			}
		}
		if !g.WeatherCategory.Valid() {
			pf("weather_category %q not in enumeration", g.WeatherCategory)
		} else if want := domain.CategorizeWeather(g.Weather); want != g.WeatherCategory {
			pf("weather %q categorized %q, want %q", g.Weather, g.WeatherCategory, want)
		}
		if g.TotalTouchdowns != g.RushTDHome+g.PassTDHome+g.RushTDVis+g.PassTDVis {
			pf("total_touchdowns %d mismatch", g.TotalTouchdowns)
		}
		if g.TotalPoints != g.ScoreHome+g.ScoreVis {
			pf("total_points %d mismatch", g.TotalPoints)
		}
		if g.PointDifferential != abs(g.ScoreHome-g.ScoreVis) {
			pf("point_differential %d mismatch", g.PointDifferential)
		}
		if minutes, err := domain.ParseDuration(g.Duration); err != nil || minutes != g.DurationMinutes {
			pf("duration %q gives %d minutes, fixture has %d", g.Duration, minutes, g.DurationMinutes)
		}
	}
	return p
}

// ── Phase 3: Raw cross-reference ──
// The fixture must equal what the raw tables prepare to today.

func validateAgainstRaw(fixture []domain.EnrichedGame, ds *pipeline.Dataset) *phase {
	p := &phase{name: "Phase 3: Fixture vs Raw Tables"}

	// Round-trip through JSON so both sides drop the same unexported detail.
	derived, err := roundTrip(ds.Games)
	if err != nil {
		p.errorf("re-encode derived games: %v", err)
		return p
	}
	if len(derived) != len(fixture) {
		p.errorf("game count: raw tables give %d, fixture has %d", len(derived), len(fixture))
		return p
	}
	for i := range derived {
		if diff := cmp.Diff(derived[i], fixture[i]); diff != "" {
			p.errorf("game %d (%s) differs (-raw +fixture):\n%s", i, derived[i].TeamIDsDate, diff)
		}
	}
	return p
}

// ── Phase 4: Team summaries ──

func validateTeams(fixture []domain.TeamSummary, ds *pipeline.Dataset) *phase {
	p := &phase{name: "Phase 4: Team Summaries"}

	if len(fixture) != len(domain.Roster) {
		p.errorf("team count: expected %d, got %d", len(domain.Roster), len(fixture))
	}
	for i := 1; i < len(fixture); i++ {
		if fixture[i-1].Team >= fixture[i].Team {
			p.errorf("teams not sorted: %q before %q", fixture[i-1].Team, fixture[i].Team)
		}
	}

	for _, got := range fixture {
		want, err := ds.Summary(got.Team)
		if err != nil {
			p.errorf("%s: %v", got.Team, err)
			continue
		}
		if got.Games != want.Games || got.HomeGames != want.HomeGames {
			p.errorf("%s: games %d/%d home, want %d/%d", got.Team, got.Games, got.HomeGames, want.Games, want.HomeGames)
		}
		if got.Games == 0 && (got.AvgViewers != nil || got.AvgRating != nil) {
			p.errorf("%s: no games but averages are set", got.Team)
		}
		if got.HomeGames == 0 && got.AvgPercentOfCapacity != nil {
			p.errorf("%s: no home games but percent of capacity is set", got.Team)
		}
		if !ptrFloatEq(got.AvgViewers, want.AvgViewers) ||
			!ptrFloatEq(got.AvgPercentOfCapacity, want.AvgPercentOfCapacity) ||
			!ptrFloatEq(got.AvgRating, want.AvgRating) {
			p.errorf("%s: averages differ from raw tables", got.Team)
		}
	}
	return p
}

// ── Phase 5: Determinism ──

func validateDeterminism(tables domain.Tables, opts pipeline.Options, first *pipeline.Dataset) *phase {
	p := &phase{name: "Phase 5: Determinism (prepare twice)"}

	second, err := pipeline.Prepare(tables, opts)
	if err != nil {
		p.errorf("second prepare failed: %v", err)
		return p
	}
	if diff := cmp.Diff(first.Games, second.Games); diff != "" {
		p.errorf("games differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(first.Teams, second.Teams); diff != "" {
		p.errorf("teams differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(first.Report, second.Report); diff != "" {
		p.errorf("report differs between runs:\n%s", diff)
	}
	return p
}

// ── Helpers ──

func roundTrip(games []domain.EnrichedGame) ([]domain.EnrichedGame, error) {
	data, err := json.Marshal(games)
	if err != nil {
		return nil, err
	}
	var out []domain.EnrichedGame
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return math.Abs(*a-*b) <= 1e-9*math.Max(1, math.Abs(*b))
}

// mustAtoi returns zero for cells that do not parse; Enrich reports those on joined rows.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
