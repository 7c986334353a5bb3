package game

import "fmt"

// --- Enums ---

type Phase int

const (
	PhaseNone Phase = iota
	PhaseStartTurn
	PhaseDestiny
	PhaseLaunch
	PhaseAlliance
	PhasePlanning
	PhaseReveal
	PhaseResolution
	PhaseHousekeeping
)

func (p Phase) String() string {
	switch p {
	case PhaseStartTurn:
		return "Start Turn"
	case PhaseDestiny:
		return "Destiny"
	case PhaseLaunch:
		return "Launch"
	case PhaseAlliance:
		return "Alliance"
	case PhasePlanning:
		return "Planning"
	case PhaseReveal:
		return "Reveal"
	case PhaseResolution:
		return "Resolution"
	case PhaseHousekeeping:
		return "Housekeeping"
	default:
		return "None"
	}
}

// Side identifies which side of an encounter a player fights on.
type Side int

const (
	SideNone Side = iota
	SideOffense
	SideDefense
)

func (s Side) String() string {
	switch s {
	case SideOffense:
		return "offense"
	case SideDefense:
		return "defense"
	default:
		return "none"
	}
}

// Opposite returns the other side of the encounter.
func (s Side) Opposite() Side {
	switch s {
	case SideOffense:
		return SideDefense
	case SideDefense:
		return SideOffense
	default:
		return SideNone
	}
}

// Role is a player's part in the current encounter.
type Role int

const (
	RoleBystander Role = iota
	RoleOffense
	RoleDefense
	RoleOffensiveAlly
	RoleDefensiveAlly
)

func (r Role) String() string {
	switch r {
	case RoleOffense:
		return "offense"
	case RoleDefense:
		return "defense"
	case RoleOffensiveAlly:
		return "offensive ally"
	case RoleDefensiveAlly:
		return "defensive ally"
	default:
		return "bystander"
	}
}

// Side returns the encounter side a role fights on.
func (r Role) Side() Side {
	switch r {
	case RoleOffense, RoleOffensiveAlly:
		return SideOffense
	case RoleDefense, RoleDefensiveAlly:
		return SideDefense
	default:
		return SideNone
	}
}

// IsMain reports whether the role is the offense or defense itself.
func (r Role) IsMain() bool {
	return r == RoleOffense || r == RoleDefense
}

// Strategy is the roster tag that picks default card-selection policies.
type Strategy string

const (
	StrategyDefault    Strategy = "default"
	StrategyAggressive Strategy = "aggressive"
	StrategyCautious   Strategy = "cautious"
	StrategyNegotiator Strategy = "negotiator"
)

// ParseStrategy maps a roster tag to a Strategy. Empty means default.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyDefault:
		return StrategyDefault, nil
	case StrategyAggressive, StrategyCautious, StrategyNegotiator:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrConfig, s)
}

// --- Table constants ---

const (
	PlanetsPerPlayer    = 5
	ShipsPerPlanet      = 4
	StartingShips       = PlanetsPerPlayer * ShipsPerPlanet
	HandSize            = 8
	DestinyCardsPerSeat = 3
	WildDestinyCards    = 2
	ColoniesToWin       = 5
	MinHomeColonies     = 3
	BaseOffenseShips    = 3
	BaseAllyShips       = 2
	BoostedShips        = 4
	MinPlayers          = 2
	MaxPlayers          = 8
)

// Colors lists the available player colors in assignment order.
var Colors = []string{"Red", "Blue", "Yellow", "Green", "Purple", "Black", "White", "Orange"}
