package game

// Result is the win/loss outcome derived from final scores.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	// ResultUnknown is used for teams missing from teamScores.
	ResultUnknown Result = ""
)

// Results maps team name to outcome.
type Results map[string]Result

// ClassifyResults marks every team holding the top score as a winner and the
// rest as losers. A tie at the top produces several winners.
func ClassifyResults(scores TeamScores) Results {
	out := make(Results, len(scores))
	if len(scores) == 0 {
		return out
	}

	best := scores[0].Score
	for _, item := range scores[1:] {
		if item.Score > best {
			best = item.Score
		}
	}

	for _, item := range scores {
		if item.Score == best {
			out[item.Team] = ResultWin
		} else {
			out[item.Team] = ResultLoss
		}
	}
	return out
}

func (r Results) Of(team string) Result {
	return r[team]
}
