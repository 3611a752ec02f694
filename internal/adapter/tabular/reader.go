package tabular

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jake-tolleson/544Final/internal/config"
	"github.com/jake-tolleson/544Final/internal/domain"
)

// Column names required from each input table.
var (
	GamesColumns = []string{
		"TeamIDsDate", "date", "homename", "visname", "Matchup_Full_TeamNames", "stadium",
		"duration", "attend", "score_home", "score_vis",
		"rush_td_home", "pass_td_home", "rush_td_vis", "pass_td_vis",
		"weather", "rank_home", "rank_vis",
	}
	RatingsColumns  = []string{"TeamIDsDate", "VIEWERS", "RATING", "Network"}
	CapacityColumns = []string{"homename", "stadium", "Capacity"}
)

// Reader loads the Games, Ratings and Capacity tables from disk.
// It implements pipeline.Source.
type Reader struct {
	gamesPath    string
	ratingsPath  string
	capacityPath string
	logger       *slog.Logger
}

// NewReader creates a Reader for the configured input paths.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	return &Reader{
		gamesPath:    cfg.GamesPath,
		ratingsPath:  cfg.RatingsPath,
		capacityPath: cfg.CapacityPath,
		logger:       logger,
	}
}

// Load reads the three tables concurrently.
func (r *Reader) Load(ctx context.Context) (domain.Tables, error) {
	var tables domain.Tables
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		tables.Games, err = ReadGames(ctx, r.gamesPath)
		return err
	})
	g.Go(func() error {
		var err error
		tables.Ratings, err = ReadRatings(ctx, r.ratingsPath)
		return err
	})
	g.Go(func() error {
		var err error
		tables.Capacity, err = ReadCapacity(ctx, r.capacityPath)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Tables{}, err
	}

	r.logger.Debug("tables loaded",
		"games", len(tables.Games),
		"ratings", len(tables.Ratings),
		"capacity", len(tables.Capacity),
	)
	return tables, nil
}

// ReadGames reads the Games table. Index is the data record position: blank
// lines do not count, delimiter-only records count but are not returned.
func ReadGames(ctx context.Context, path string) ([]domain.RawGame, error) {
	t, err := readTable(ctx, domain.TableGames, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(GamesColumns...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	games := make([]domain.RawGame, len(t.rows))
	for i, row := range t.rows {
		games[i] = domain.RawGame{
			Index:                row.index,
			TeamIDsDate:          t.cell(row, "TeamIDsDate"),
			Date:                 t.cell(row, "date"),
			HomeName:             t.cell(row, "homename"),
			VisName:              t.cell(row, "visname"),
			MatchupFullTeamNames: t.cell(row, "Matchup_Full_TeamNames"),
			Stadium:              t.cell(row, "stadium"),
			Duration:             t.cell(row, "duration"),
			Attend:               t.cell(row, "attend"),
			ScoreHome:            t.cell(row, "score_home"),
			ScoreVis:             t.cell(row, "score_vis"),
			RushTDHome:           t.cell(row, "rush_td_home"),
			PassTDHome:           t.cell(row, "pass_td_home"),
			RushTDVis:            t.cell(row, "rush_td_vis"),
			PassTDVis:            t.cell(row, "pass_td_vis"),
			Weather:              t.cell(row, "weather"),
			RankHome:             t.cell(row, "rank_home"),
			RankVis:              t.cell(row, "rank_vis"),
		}
	}
	return games, nil
}

// ReadRatings reads the Ratings table.
func ReadRatings(ctx context.Context, path string) ([]domain.RawRating, error) {
	t, err := readTable(ctx, domain.TableRatings, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(RatingsColumns...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ratings := make([]domain.RawRating, len(t.rows))
	for i, row := range t.rows {
		ratings[i] = domain.RawRating{
			Index:       row.index,
			TeamIDsDate: t.cell(row, "TeamIDsDate"),
			Network:     t.cell(row, "Network"),
			Viewers:     t.cell(row, "VIEWERS"),
			Rating:      t.cell(row, "RATING"),
		}
	}
	return ratings, nil
}

// ReadCapacity reads the Capacity table.
func ReadCapacity(ctx context.Context, path string) ([]domain.RawCapacity, error) {
	t, err := readTable(ctx, domain.TableCapacity, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(CapacityColumns...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	capacity := make([]domain.RawCapacity, len(t.rows))
	for i, row := range t.rows {
		capacity[i] = domain.RawCapacity{
			Index:    row.index,
			HomeName: t.cell(row, "homename"),
			Stadium:  t.cell(row, "stadium"),
			Capacity: t.cell(row, "Capacity"),
		}
	}
	return capacity, nil
}
