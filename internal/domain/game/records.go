package game

// PlayerRecord is one row of the per-player box score.
type PlayerRecord struct {
	MatchID         any    `json:"matchId"`
	Team            string `json:"team"`
	Name            string `json:"name"`
	Number          any    `json:"number"`
	PlayTimeSeconds int64  `json:"playTimeSeconds"`
	Score           any    `json:"score"`
	Fouls           any    `json:"fouls"`
	PlusMinus       any    `json:"plusMinus"`
	MatchTimestamp  int64  `json:"matchTimestamp"`
	Result          Result `json:"result"`
}

type TeamRecord struct {
	MatchID        any     `json:"matchId"`
	Team           string  `json:"team"`
	Score          float64 `json:"score"`
	MatchTimestamp int64   `json:"matchTimestamp"`
	Result         Result  `json:"result"`
}

// DetailRecord is one play-by-play event. Team, Number and Value are
// normalized; the other fields pass through.
type DetailRecord struct {
	MatchID            any   `json:"matchId"`
	MatchTimestamp     int64 `json:"matchTimestamp"`
	Period             any   `json:"period"`
	GameTime           any   `json:"gameTime"`
	Type               any   `json:"type"`
	Team               any   `json:"team"`
	Player             any   `json:"player"`
	Number             int64 `json:"number"`
	Value              any   `json:"value"`
	OperationTimestamp any   `json:"operationTimestamp"`
}

// Records holds the three record sets produced from one document.
type Records struct {
	MatchID        any            `json:"matchId"`
	MatchTimestamp int64          `json:"matchTimestamp"`
	Players        []PlayerRecord `json:"players"`
	Teams          []TeamRecord   `json:"teams"`
	Details        []DetailRecord `json:"details"`
}
