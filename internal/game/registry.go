package game

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed powers.yaml
var defaultPowerTable []byte

// PowerFile is the top-level YAML structure of a power table.
type PowerFile struct {
	Powers []PowerEntry `yaml:"powers"`
}

// PowerEntry is one row of the power table.
type PowerEntry struct {
	Name        string   `yaml:"name"`
	Expansion   string   `yaml:"expansion"`
	Description string   `yaml:"description"`
	Bonus       int      `yaml:"bonus"`
	Condition   string   `yaml:"condition"`
	Tags        []string `yaml:"tags"`
}

// Win thresholds for the counter-based alternate victories.
const (
	MasochistWarpTarget = StartingShips
	HoarderHandTarget   = 20
	TickTockTarget      = 10
)

// powerTags maps behaviour tags in the power table to the flags and hooks
// they switch on.
var powerTags = map[string]func(pw *Power){
	"commits-four": func(pw *Power) { pw.CommitsFour = true },
	"tripler": func(pw *Power) {
		pw.Tripler = true
		pw.OffenseSelect = SelectTriplePolicy
		pw.DefenseSelect = SelectTriplePolicy
	},
	"virus":    func(pw *Power) { pw.MultipliesByShips = true },
	"warpish":  func(pw *Power) { pw.WarpBonus = true },
	"ties":     func(pw *Power) { pw.WinsTies = true },
	"filch":    func(pw *Power) { pw.CompensationTakesBest = true },
	"zombie":   func(pw *Power) { pw.NoShipsLost = true },
	"chronos":  func(pw *Power) { pw.ExtraEncounter = true },
	"mirror":   func(pw *Power) { pw.ReversesDigits = true },
	"sorcerer": func(pw *Power) { pw.SwapsCards = true },
	"warrior": func(pw *Power) {
		pw.WarriorBonus = true
		pw.OnEncounterEnd = func(g *Game, p *Player, role Role, won bool) {
			if !role.IsMain() {
				return
			}
			gain := 2
			if won {
				gain = 1
			}
			p.WarriorTokens += gain
			g.powerLog(p, fmt.Sprintf("gains %d token(s), now %d", gain, p.WarriorTokens))
		}
	},
	"loser": func(pw *Power) {
		pw.DeclaresUpset = true
		pw.OffenseSelect = SelectMinPolicy
		pw.DefenseSelect = SelectMinPolicy
	},
	"pacifist": func(pw *Power) {
		pw.WinsByNegotiating = true
		pw.OffenseSelect = SelectNegotiatePolicy
		pw.DefenseSelect = SelectNegotiatePolicy
	},
	"macron": func(pw *Power) {
		pw.ModifyShipCount = func(g *Game, p *Player, ships int, side Side) int {
			return ships * 4
		}
	},
	"masochist": func(pw *Power) {
		pw.ActiveExempt = true
		pw.WinCondition = func(g *Game, p *Player) (bool, string) {
			if g.Warp[p.Name] >= MasochistWarpTarget {
				return true, fmt.Sprintf("%d ships in the warp", g.Warp[p.Name])
			}
			return false, ""
		}
	},
	"hoarder": func(pw *Power) {
		pw.OnTurnStart = func(g *Game, p *Player) {
			if g.Offense != p {
				return
			}
			if err := g.drawCards(p, 1, g.Deck); err == nil {
				g.powerLog(p, fmt.Sprintf("draws a card, hand is %d", len(p.Hand)))
			}
		}
		pw.WinCondition = func(g *Game, p *Player) (bool, string) {
			if len(p.Hand) >= HoarderHandTarget {
				return true, fmt.Sprintf("%d cards in hand", len(p.Hand))
			}
			return false, ""
		}
	},
	"tick-tock": func(pw *Power) {
		pw.OnEncounterEnd = func(g *Game, p *Player, role Role, won bool) {
			if g.Enc == nil || (!g.Enc.Deal && g.Enc.WinningSide != SideDefense) {
				return
			}
			p.TickTockTokens++
			g.powerLog(p, fmt.Sprintf("ticks to %d", p.TickTockTokens))
		}
		pw.WinCondition = func(g *Game, p *Player) (bool, string) {
			if p.TickTockTokens >= TickTockTarget {
				return true, fmt.Sprintf("%d tick-tock tokens", p.TickTockTokens)
			}
			return false, ""
		}
	},
	"will": func(pw *Power) {
		pw.RedirectDestiny = func(g *Game, p *Player, candidate *Player) *Player {
			var leader *Player
			for _, other := range g.Players {
				if other == p || !g.hasOpenPlanet(p, other) {
					continue
				}
				if leader == nil || len(other.ForeignColonies) > len(leader.ForeignColonies) {
					leader = other
				}
			}
			if leader != nil && leader != candidate {
				g.powerLog(p, "redirects destiny to "+leader.Name)
			}
			return leader
		}
	},
	"trader": func(pw *Power) {
		pw.BeforePlanning = func(g *Game, p *Player, role Role) {
			opp := g.Enc.Opponent(p)
			if opp == nil || len(opp.Hand) <= len(p.Hand) {
				return
			}
			p.Hand, opp.Hand = opp.Hand, p.Hand
			g.powerLog(p, "trades hands with "+opp.Name)
		}
	},
	"healer": func(pw *Power) {
		pw.OnRegroup = func(g *Game, p *Player, role Role) {
			if g.retrieveFromWarp(p, 1) > 0 {
				g.powerLog(p, "retrieves a ship from the warp")
			}
		}
	},
	"sniveler": func(pw *Power) {
		pw.OnTurnStart = func(g *Game, p *Player) {
			if !bonusApplies(BonusBehind, g, p, SideNone) {
				return
			}
			if err := g.drawCards(p, 1, g.Deck); err == nil {
				g.powerLog(p, "whines and draws a card")
			}
		}
	},
}

// PowerCatalog is the set of powers available to a simulation. It is
// immutable once built and safe to share between games.
type PowerCatalog struct {
	powers map[string]*Power
	names  []string
}

// NewPowerCatalog builds a catalog from ready-made power records.
func NewPowerCatalog(powers ...*Power) (*PowerCatalog, error) {
	c := &PowerCatalog{powers: make(map[string]*Power, len(powers))}
	for _, pw := range powers {
		if pw.Name == "" {
			return nil, fmt.Errorf("%w: power without a name", ErrConfig)
		}
		if _, dup := c.powers[pw.Name]; dup {
			return nil, fmt.Errorf("%w: power %q defined twice", ErrConfig, pw.Name)
		}
		c.powers[pw.Name] = pw
		c.names = append(c.names, pw.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// DefaultCatalog returns the catalog built from the embedded power table.
func DefaultCatalog() (*PowerCatalog, error) {
	return ParsePowerTable(defaultPowerTable)
}

// LoadPowerFile reads a YAML power table from disk.
func LoadPowerFile(path string) (*PowerCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePowerTable(data)
}

// ParsePowerTable parses a YAML power table into a catalog.
func ParsePowerTable(data []byte) (*PowerCatalog, error) {
	var pf PowerFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse power YAML: %w", err)
	}

	powers := make([]*Power, 0, len(pf.Powers))
	for _, entry := range pf.Powers {
		pw, err := entry.build()
		if err != nil {
			return nil, err
		}
		powers = append(powers, pw)
	}
	return NewPowerCatalog(powers...)
}

func (e PowerEntry) build() (*Power, error) {
	pw := &Power{
		Name:        e.Name,
		Expansion:   e.Expansion,
		Description: e.Description,
		Bonus:       e.Bonus,
		Condition:   BonusCondition(e.Condition),
	}
	if pw.Expansion == "" {
		pw.Expansion = "base"
	}
	if !validCondition(pw.Condition) {
		return nil, fmt.Errorf("%w: power %q has unknown bonus condition %q", ErrConfig, e.Name, e.Condition)
	}
	for _, tag := range e.Tags {
		apply, ok := powerTags[tag]
		if !ok {
			return nil, fmt.Errorf("%w: power %q has unknown tag %q", ErrConfig, e.Name, tag)
		}
		apply(pw)
	}
	withBonus(pw)
	return pw, nil
}

// Lookup returns the named power.
func (c *PowerCatalog) Lookup(name string) (*Power, bool) {
	pw, ok := c.powers[name]
	return pw, ok
}

// Names returns every power name in sorted order.
func (c *PowerCatalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of powers in the catalog.
func (c *PowerCatalog) Len() int {
	return len(c.names)
}

// Powers returns every power in name order.
func (c *PowerCatalog) Powers() []*Power {
	result := make([]*Power, 0, len(c.names))
	for _, name := range c.names {
		result = append(result, c.powers[name])
	}
	return result
}

// Expansions returns the distinct expansion names in sorted order.
func (c *PowerCatalog) Expansions() []string {
	seen := make(map[string]bool)
	var result []string
	for _, pw := range c.powers {
		if !seen[pw.Expansion] {
			seen[pw.Expansion] = true
			result = append(result, pw.Expansion)
		}
	}
	sort.Strings(result)
	return result
}

// Filter returns a catalog restricted to the given expansions. With no
// arguments the catalog itself is returned.
func (c *PowerCatalog) Filter(expansions ...string) *PowerCatalog {
	if len(expansions) == 0 {
		return c
	}
	keep := make(map[string]bool, len(expansions))
	for _, e := range expansions {
		keep[e] = true
	}
	filtered := &PowerCatalog{powers: make(map[string]*Power)}
	for _, name := range c.names {
		pw := c.powers[name]
		if keep[pw.Expansion] {
			filtered.powers[name] = pw
			filtered.names = append(filtered.names, name)
		}
	}
	return filtered
}
