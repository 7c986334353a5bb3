package log

// EventType enumerates all observable encounter events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventDestiny
	EventDefensePlanet
	EventLaunch
	EventInvite
	EventAllyJoin
	EventNewHand
	EventSelectCard
	EventReveal
	EventTotals
	EventEncounterWin
	EventDeal
	EventCompensation
	EventRewards
	EventWarp
	EventRetrieve
	EventLandShips
	EventPowerTrigger
	EventShuffle
	EventSecondEncounter
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventDestiny:
		return "Destiny"
	case EventDefensePlanet:
		return "DefensePlanet"
	case EventLaunch:
		return "Launch"
	case EventInvite:
		return "Invite"
	case EventAllyJoin:
		return "AllyJoin"
	case EventNewHand:
		return "NewHand"
	case EventSelectCard:
		return "SelectCard"
	case EventReveal:
		return "Reveal"
	case EventTotals:
		return "Totals"
	case EventEncounterWin:
		return "EncounterWin"
	case EventDeal:
		return "Deal"
	case EventCompensation:
		return "Compensation"
	case EventRewards:
		return "Rewards"
	case EventWarp:
		return "Warp"
	case EventRetrieve:
		return "Retrieve"
	case EventLandShips:
		return "LandShips"
	case EventPowerTrigger:
		return "PowerTrigger"
	case EventShuffle:
		return "Shuffle"
	case EventSecondEncounter:
		return "SecondEncounter"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq       int       // monotonic sequence number
	Encounter int       // global encounter counter (1-based)
	Phase     string    // current phase name (e.g. "Alliance")
	Player    string    // acting player name, empty for table events
	Type      EventType // event type
	Card      string    // card description (if applicable)
	Details   string    // human-readable detail string
}
