package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/game"
)

// RosterFile is the top-level YAML structure of a roster file.
type RosterFile struct {
	Players           []game.PlayerSpec `yaml:"players"`
	Games             *int              `yaml:"games,omitempty"`
	CatchErrors       *bool             `yaml:"catch_errors,omitempty"`
	Seed              int64             `yaml:"seed,omitempty"`
	PerAllyCommitment bool              `yaml:"per_ally_commitment,omitempty"`
	Expansions        []string          `yaml:"expansions,omitempty"`
}

// LoadRoster reads a roster file from disk.
func LoadRoster(path string) (*RosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRoster(data)
}

// ParseRoster parses roster YAML.
func ParseRoster(data []byte) (*RosterFile, error) {
	var rf RosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster YAML: %w", err)
	}
	if len(rf.Players) < game.MinPlayers {
		return nil, fmt.Errorf("%w: roster needs at least %d players, got %d", game.ErrConfig, game.MinPlayers, len(rf.Players))
	}
	if rf.Games != nil && *rf.Games < 0 {
		return nil, fmt.Errorf("%w: roster games must be >= 0", game.ErrConfig)
	}
	return &rf, nil
}

// Apply copies the roster's settings onto opts. Fields the file leaves out
// keep their current values.
func (rf *RosterFile) Apply(opts *Options) {
	opts.Players = append([]game.PlayerSpec(nil), rf.Players...)
	if rf.Games != nil {
		opts.Games = *rf.Games
	}
	if rf.CatchErrors != nil {
		opts.CatchErrors = *rf.CatchErrors
	}
	if rf.Seed != 0 {
		opts.Seed = rf.Seed
	}
	if rf.PerAllyCommitment {
		opts.PerAllyCommitment = true
	}
}

// DefaultRoster returns n anonymous players with random colors and powers.
func DefaultRoster(n int) []game.PlayerSpec {
	specs := make([]game.PlayerSpec, n)
	for i := range specs {
		specs[i] = game.PlayerSpec{Name: fmt.Sprintf("Player %d", i+1)}
	}
	return specs
}
