package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- DiscardLogger: drops everything, used for bulk simulation ---

// DiscardLogger satisfies EventLogger without retaining events. Batch runs
// of thousands of games use it so event history does not pile up.
type DiscardLogger struct{}

func (DiscardLogger) Log(GameEvent) {}
func (DiscardLogger) Events() []GameEvent { return nil }

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 12 chars for alignment
	for len(phase) < 12 {
		phase += " "
	}

	return fmt.Sprintf("E%-3d %s| %s", e.Encounter, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(encounter int, phase string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     phase,
		Type:      EventPhaseChange,
		Details:   fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(encounter int, player string, order []string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Start Turn",
		Player:    player,
		Type:      EventNewTurn,
		Details:   fmt.Sprintf("=== %s's turn (order: %s) ===", player, strings.Join(order, ", ")),
	}
}

func NewDestinyEvent(encounter int, offense, card, defense string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Destiny",
		Player:    offense,
		Type:      EventDestiny,
		Card:      card,
		Details:   fmt.Sprintf("%s draws %s, defense is %s", offense, card, defense),
	}
}

func NewDefensePlanetEvent(encounter int, offense string, planet int, owner string, ships int) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Launch",
		Player:    offense,
		Type:      EventDefensePlanet,
		Details:   fmt.Sprintf("%s targets %s's planet %d (%d defending ships)", offense, owner, planet, ships),
	}
}

func NewLaunchEvent(encounter int, phase, player string, ships int, role string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     phase,
		Player:    player,
		Type:      EventLaunch,
		Details:   fmt.Sprintf("%s commits %d ship(s) as %s", player, ships, role),
	}
}

func NewInviteEvent(encounter int, inviter string, invitees []string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Alliance",
		Player:    inviter,
		Type:      EventInvite,
		Details:   fmt.Sprintf("%s invites [%s]", inviter, strings.Join(invitees, ", ")),
	}
}

func NewAllyJoinEvent(encounter int, ally, side string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Alliance",
		Player:    ally,
		Type:      EventAllyJoin,
		Details:   fmt.Sprintf("%s allies with the %s", ally, side),
	}
}

func NewHandEvent(encounter int, player string, size int) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Planning",
		Player:    player,
		Type:      EventNewHand,
		Details:   fmt.Sprintf("%s has no encounter card and draws a new hand of %d", player, size),
	}
}

func NewSelectCardEvent(encounter int, player, card string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Planning",
		Player:    player,
		Type:      EventSelectCard,
		Card:      card,
		Details:   fmt.Sprintf("%s places an encounter card face down", player),
	}
}

func NewRevealEvent(encounter int, offense, offenseCard, defense, defenseCard string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Reveal",
		Type:      EventReveal,
		Details:   fmt.Sprintf("%s reveals %s, %s reveals %s", offense, offenseCard, defense, defenseCard),
	}
}

func NewTotalsEvent(encounter int, offenseTotal, defenseTotal int, upset bool) GameEvent {
	details := fmt.Sprintf("Offense total %d vs defense total %d", offenseTotal, defenseTotal)
	if upset {
		details += " (lower total wins)"
	}
	return GameEvent{
		Encounter: encounter,
		Phase:     "Resolution",
		Type:      EventTotals,
		Details:   details,
	}
}

func NewEncounterWinEvent(encounter int, winner, side, reason string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Resolution",
		Player:    winner,
		Type:      EventEncounterWin,
		Details:   fmt.Sprintf("%s wins the encounter for the %s (%s)", winner, side, reason),
	}
}

func NewDealEvent(encounter int, offense, defense string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Resolution",
		Player:    offense,
		Type:      EventDeal,
		Details:   fmt.Sprintf("%s and %s both negotiate and trade colonies", offense, defense),
	}
}

func NewCompensationEvent(encounter int, taker, from string, cards int) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Resolution",
		Player:    taker,
		Type:      EventCompensation,
		Details:   fmt.Sprintf("%s takes %d card(s) from %s as compensation", taker, cards, from),
	}
}

func NewRewardsEvent(encounter int, player string, cards int) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Resolution",
		Player:    player,
		Type:      EventRewards,
		Details:   fmt.Sprintf("%s collects %d defensive reward card(s)", player, cards),
	}
}

func NewWarpEvent(encounter int, phase, player string, ships int) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     phase,
		Player:    player,
		Type:      EventWarp,
		Details:   fmt.Sprintf("%d of %s's ships go to the warp", ships, player),
	}
}

func NewRetrieveEvent(encounter int, phase, player string, ships int) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     phase,
		Player:    player,
		Type:      EventRetrieve,
		Details:   fmt.Sprintf("%s retrieves %d ship(s) from the warp", player, ships),
	}
}

func NewLandShipsEvent(encounter int, player string, ships int, planet int, owner string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Resolution",
		Player:    player,
		Type:      EventLandShips,
		Details:   fmt.Sprintf("%s lands %d ship(s) on %s's planet %d", player, ships, owner, planet),
	}
}

func NewPowerTriggerEvent(encounter int, phase, player, power, details string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     phase,
		Player:    player,
		Type:      EventPowerTrigger,
		Details:   fmt.Sprintf("[%s] %s: %s", power, player, details),
	}
}

func NewShuffleEvent(encounter int, phase, deck string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     phase,
		Type:      EventShuffle,
		Details:   fmt.Sprintf("%s deck reshuffled from its discard pile", deck),
	}
}

func NewSecondEncounterEvent(encounter int, player string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Housekeeping",
		Player:    player,
		Type:      EventSecondEncounter,
		Details:   fmt.Sprintf("%s takes a second encounter", player),
	}
}

func NewWinEvent(encounter int, winner, reason string) GameEvent {
	return GameEvent{
		Encounter: encounter,
		Phase:     "Housekeeping",
		Player:    winner,
		Type:      EventWin,
		Details:   fmt.Sprintf("%s wins the game! (%s)", winner, reason),
	}
}
