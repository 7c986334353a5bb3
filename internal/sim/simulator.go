package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/game"
	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

// MaxConsecutiveFailures aborts a batch whose games keep failing.
const MaxConsecutiveFailures = 1000

// Options configures a simulation batch.
type Options struct {
	Games       int
	CatchErrors bool
	Seed        int64 // 0 for a time-based seed
	Players     []game.PlayerSpec

	PerAllyCommitment bool
	MaxEncounters     int

	// GameLogger returns the event logger for the n-th game attempt. nil
	// discards all events.
	GameLogger func(n int) log.EventLogger
	// Snapshot receives a table rendering at every phase boundary.
	Snapshot func(phase game.Phase, snapshot string)
}

// GameResult is the outcome of one completed game.
type GameResult struct {
	ID         string            `json:"id"`
	Winners    []string          `json:"winners"`
	Powers     map[string]string `json:"powers"` // player name → power
	Encounters int               `json:"encounters"`
	Duration   time.Duration     `json:"duration_ns"`
}

// Simulator plays batches of games and keeps running aggregates: wins per
// player and per power, plays per power and pairwise ELO per power.
type Simulator struct {
	catalog *game.PowerCatalog
	opts    Options
	logger  *zap.Logger
	rng     *rand.Rand

	playerWins map[string]int
	powerWins  map[string]int
	powerPlays map[string]int
	ratings    Ratings
	results    []GameResult
	exceptions int
	attempts   int
	elapsed    time.Duration
}

// NewSimulator validates opts and prepares empty aggregates.
func NewSimulator(catalog *game.PowerCatalog, opts Options, logger *zap.Logger) (*Simulator, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: simulator needs a power catalog", game.ErrConfig)
	}
	if opts.Games < 0 {
		return nil, fmt.Errorf("%w: games must be >= 0, got %d", game.ErrConfig, opts.Games)
	}
	if len(opts.Players) < game.MinPlayers {
		return nil, fmt.Errorf("%w: need at least %d players, got %d", game.ErrConfig, game.MinPlayers, len(opts.Players))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		catalog:    catalog,
		opts:       opts,
		logger:     logger,
		rng:        rand.New(rand.NewSource(seed)),
		playerWins: make(map[string]int),
		powerWins:  make(map[string]int),
		powerPlays: make(map[string]int),
		ratings:    make(Ratings),
	}, nil
}

// Run plays opts.Games completed games. With CatchErrors a failed game is
// counted, logged and replayed with fresh randomness; otherwise the first
// failure aborts the batch. Configuration errors are never retried.
func (s *Simulator) Run(ctx context.Context) (*Summary, error) {
	s.logger.Info("simulation started",
		zap.Int("games", s.opts.Games),
		zap.Int("players", len(s.opts.Players)),
		zap.Bool("catch_errors", s.opts.CatchErrors))

	start := time.Now()
	err := s.play(ctx)
	s.elapsed += time.Since(start)
	if err != nil {
		return nil, err
	}

	summary := s.Summary()
	s.logger.Info("simulation finished",
		zap.Int("games", summary.Games),
		zap.Int("exceptions", summary.Exceptions),
		zap.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// play runs the retry loop until opts.Games games have completed.
func (s *Simulator) play(ctx context.Context) error {
	consecutive := 0
	for completed := 0; completed < s.opts.Games; {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := s.PlayGame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, game.ErrConfig) || !s.opts.CatchErrors {
				return err
			}
			s.exceptions++
			consecutive++
			s.logger.Warn("game failed, retrying",
				zap.Int("game", completed+1),
				zap.Int("exceptions", s.exceptions),
				zap.Error(err))
			if consecutive >= MaxConsecutiveFailures {
				return fmt.Errorf("%d consecutive failed games: %w", consecutive, err)
			}
			continue
		}

		consecutive = 0
		s.record(result)
		completed++
		s.logger.Debug("game finished",
			zap.Int("game", completed),
			zap.String("id", result.ID),
			zap.Strings("winners", result.Winners),
			zap.Int("encounters", result.Encounters),
			zap.Duration("duration", result.Duration))
	}
	return nil
}

// PlayGame plays a single game without touching the aggregates. A panic
// inside the engine is reported as an invariant violation.
func (s *Simulator) PlayGame(ctx context.Context) (result GameResult, err error) {
	id := "(not started)"
	defer func() {
		if r := recover(); r != nil {
			result = GameResult{}
			err = fmt.Errorf("%w: game %s panicked: %v", game.ErrInvariant, id, r)
		}
	}()

	s.attempts++
	logger := log.EventLogger(log.DiscardLogger{})
	if s.opts.GameLogger != nil {
		logger = s.opts.GameLogger(s.attempts)
	}

	g, err := game.NewGame(game.GameConfig{
		Players:           s.opts.Players,
		Catalog:           s.catalog,
		Logger:            logger,
		Seed:              s.gameSeed(),
		MaxEncounters:     s.opts.MaxEncounters,
		PerAllyCommitment: s.opts.PerAllyCommitment,
		Snapshot:          s.opts.Snapshot,
	})
	if err != nil {
		return GameResult{}, err
	}
	id = g.ID

	start := time.Now()
	winners, err := g.Run(ctx)
	if err != nil {
		return GameResult{}, err
	}

	result = GameResult{
		ID:         g.ID,
		Powers:     make(map[string]string, len(g.Players)),
		Encounters: g.EncounterCount,
		Duration:   time.Since(start),
	}
	for _, p := range winners {
		result.Winners = append(result.Winners, p.Name)
	}
	for _, p := range g.Players {
		result.Powers[p.Name] = p.PowerName()
	}
	return result, nil
}

// gameSeed draws a fresh, non-zero seed for the next game.
func (s *Simulator) gameSeed() int64 {
	for {
		if seed := s.rng.Int63(); seed != 0 {
			return seed
		}
	}
}

// record folds a completed game into the aggregates.
func (s *Simulator) record(result GameResult) {
	won := make(map[string]bool, len(result.Winners))
	for _, name := range result.Winners {
		won[name] = true
		s.playerWins[name]++
	}

	entrants := make([]string, 0, len(result.Powers))
	powerWon := make(map[string]bool, len(result.Powers))
	for _, spec := range s.opts.Players {
		power := result.Powers[spec.Name]
		entrants = append(entrants, power)
		s.powerPlays[power]++
		if won[spec.Name] {
			s.powerWins[power]++
			powerWon[power] = true
		}
	}
	s.ratings.ApplyGame(entrants, powerWon)
	s.results = append(s.results, result)
}

// Ratings returns a copy of the current ELO table.
func (s *Simulator) Ratings() Ratings {
	out := make(Ratings, len(s.ratings))
	for k, v := range s.ratings {
		out[k] = v
	}
	return out
}

// Exceptions returns how many games failed and were retried.
func (s *Simulator) Exceptions() int {
	return s.exceptions
}
