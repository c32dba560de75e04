package game

import (
	"errors"
	"fmt"

	sonic "github.com/bytedance/sonic"
)

var ErrEmptyDocument = errors.New("game document is empty")

// Document is the raw telemetry export for one game.
type Document struct {
	Game    []Info   `json:"game"`
	Details []Detail `json:"details"`
}

// Info is a single game entry. Only the first entry of a document is read.
type Info struct {
	ID         MatchID    `json:"id"`
	TeamScores TeamScores `json:"teamScores"`
	Players    []Player   `json:"players"`
	Details    []Detail   `json:"details"`
}

type Player struct {
	Team        string  `json:"team"`
	Name        string  `json:"name"`
	Number      any     `json:"number"`
	TotalTime   float64 `json:"totalTime"`
	CurrentTime float64 `json:"currentTime"`
	Score       any     `json:"score"`
	Fouls       any     `json:"fouls"`
	PlusMinus   any     `json:"plusMinus"`
}

// Detail is one play-by-play event. Fields stay untyped because the exporter
// mixes numbers, strings and nulls freely.
type Detail struct {
	Period    any `json:"period"`
	GameTime  any `json:"gameTime"`
	Type      any `json:"type"`
	Team      any `json:"team"`
	Player    any `json:"player"`
	Number    any `json:"number"`
	Value     any `json:"value"`
	Timestamp any `json:"timestamp"`
}

// Decode parses a raw game document.
func Decode(raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, ErrEmptyDocument
	}

	var doc Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode game document: %w", err)
	}
	return doc, nil
}

// Primary returns the first game entry.
func (d Document) Primary() (Info, bool) {
	if len(d.Game) == 0 {
		return Info{}, false
	}
	return d.Game[0], true
}

// MatchID resolves the game id, falling back to DefaultMatchID.
func (d Document) MatchID() MatchID {
	info, _ := d.Primary()
	return info.ID
}

func (d Document) TeamScores() TeamScores {
	info, _ := d.Primary()
	return info.TeamScores
}

func (d Document) Players() []Player {
	info, _ := d.Primary()
	return info.Players
}

// Events returns the play-by-play list. The exporter writes it at the top
// level; older exports nest it under the first game entry.
func (d Document) Events() []Detail {
	if len(d.Details) > 0 {
		return d.Details
	}
	info, _ := d.Primary()
	return info.Details
}
