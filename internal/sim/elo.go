package sim

import "math"

const (
	// InitialRating seeds every power entering the rating pool.
	InitialRating = 1500.0
	// PairK scales each pairwise update within one game.
	PairK = 8.0
	// K is the head-to-head factor used by UpdateElo.
	K = 32.0
)

// ExpectedScore is the logistic expectation of self scoring against
// opponent.
func ExpectedScore(self, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-self)/400))
}

// UpdateElo applies a single head-to-head result with K=32. scoreA is 1 for
// an A win, 0 for a loss and 0.5 for a draw.
func UpdateElo(ra, rb, scoreA float64) (float64, float64) {
	ea := ExpectedScore(ra, rb)
	eb := ExpectedScore(rb, ra)
	return ra + K*(scoreA-ea), rb + K*((1-scoreA)-eb)
}

// Ratings maps a power name to its ELO rating.
type Ratings map[string]float64

// Get returns the rating for name, InitialRating if unseen.
func (r Ratings) Get(name string) float64 {
	if v, ok := r[name]; ok {
		return v
	}
	return InitialRating
}

// PairwiseDeltas scores every unordered pair of entrants from one game. A
// winner beats a loser; two winners or two losers draw. Ratings are read,
// never written.
func (r Ratings) PairwiseDeltas(entrants []string, won map[string]bool) map[string]float64 {
	deltas := make(map[string]float64, len(entrants))
	for i, a := range entrants {
		for _, b := range entrants[i+1:] {
			score := 0.5
			switch {
			case won[a] && !won[b]:
				score = 1
			case !won[a] && won[b]:
				score = 0
			}
			ea := ExpectedScore(r.Get(a), r.Get(b))
			d := PairK * (score - ea)
			deltas[a] += d
			deltas[b] -= d
		}
	}
	return deltas
}

// ApplyGame seeds new entrants, then applies every pairwise delta at once.
// Returns the deltas applied.
func (r Ratings) ApplyGame(entrants []string, won map[string]bool) map[string]float64 {
	for _, name := range entrants {
		if _, ok := r[name]; !ok {
			r[name] = InitialRating
		}
	}
	deltas := r.PairwiseDeltas(entrants, won)
	for name, d := range deltas {
		r[name] += d
	}
	return deltas
}
