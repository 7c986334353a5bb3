package sim

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// Summary is the batch report handed to the CLI and MCP layers.
type Summary struct {
	Games       int            `json:"games"`
	Exceptions  int            `json:"exceptions"`
	PlayerWins  map[string]int `json:"player_wins"`
	Powers      []PowerStats   `json:"powers"`
	TotalTime   time.Duration  `json:"total_time_ns"`
	AverageTime time.Duration  `json:"average_time_ns"`
	Results     []GameResult   `json:"results,omitempty"`
}

// PowerStats is one row of the power table.
type PowerStats struct {
	Name    string  `json:"name"`
	Plays   int     `json:"plays"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
	Elo     float64 `json:"elo"`
}

// Summary snapshots the aggregates. Powers are ordered by rating, highest
// first.
func (s *Simulator) Summary() *Summary {
	sum := &Summary{
		Games:      len(s.results),
		Exceptions: s.exceptions,
		PlayerWins: make(map[string]int, len(s.playerWins)),
		TotalTime:  s.elapsed,
		Results:    append([]GameResult(nil), s.results...),
	}
	for name, n := range s.playerWins {
		sum.PlayerWins[name] = n
	}
	if sum.Games > 0 {
		sum.AverageTime = s.elapsed / time.Duration(sum.Games)
	}

	for name, plays := range s.powerPlays {
		st := PowerStats{
			Name:  name,
			Plays: plays,
			Wins:  s.powerWins[name],
			Elo:   s.ratings.Get(name),
		}
		if plays > 0 {
			st.WinRate = float64(st.Wins) / float64(plays)
		}
		sum.Powers = append(sum.Powers, st)
	}
	sort.Slice(sum.Powers, func(i, j int) bool {
		if sum.Powers[i].Elo != sum.Powers[j].Elo {
			return sum.Powers[i].Elo > sum.Powers[j].Elo
		}
		return sum.Powers[i].Name < sum.Powers[j].Name
	})
	return sum
}

// WriteTable renders the summary as aligned text.
func (s *Summary) WriteTable(w io.Writer) error {
	fmt.Fprintf(w, "Games: %s  Exceptions: %s  Time: %s (avg %s)\n\n",
		humanize.Comma(int64(s.Games)), humanize.Comma(int64(s.Exceptions)),
		s.TotalTime.Round(time.Millisecond), s.AverageTime.Round(time.Microsecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tWINS")
	players := make([]string, 0, len(s.PlayerWins))
	for name := range s.PlayerWins {
		players = append(players, name)
	}
	sort.Strings(players)
	for _, name := range players {
		fmt.Fprintf(tw, "%s\t%s\n", name, humanize.Comma(int64(s.PlayerWins[name])))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "POWER\tPLAYS\tWINS\tWIN%\tELO")
	for _, p := range s.Powers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.1f\n",
			p.Name, humanize.Comma(int64(p.Plays)), humanize.Comma(int64(p.Wins)), p.WinRate*100, p.Elo)
	}
	return tw.Flush()
}
