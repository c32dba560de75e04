package game

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MissingNumber replaces absent numeric detail fields.
const MissingNumber = -999

// Mapper turns a game document into flat records. The zero value is not
// usable; build one with NewMapper.
type Mapper struct {
	now func() time.Time
	loc *time.Location
}

type MapperOption func(*Mapper)

func WithClock(now func() time.Time) MapperOption {
	return func(m *Mapper) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLocation sets the zone whose calendar date and 19:30 are used.
func WithLocation(loc *time.Location) MapperOption {
	return func(m *Mapper) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchTimestamp returns the document's match time in epoch milliseconds.
func (m *Mapper) MatchTimestamp(doc Document) int64 {
	ref, ok := FirstOperationTime(doc.Events())
	if !ok {
		ref = m.now()
	}
	return MatchTimestamp(ref, m.loc).UnixMilli()
}

func (m *Mapper) MapPlayers(doc Document) []PlayerRecord {
	return mapPlayers(doc, doc.MatchID().Value(), m.MatchTimestamp(doc))
}

func (m *Mapper) MapTeams(doc Document) []TeamRecord {
	return mapTeams(doc, doc.MatchID().Value(), m.MatchTimestamp(doc))
}

func (m *Mapper) MapDetails(doc Document) []DetailRecord {
	return mapDetails(doc, doc.MatchID().Value(), m.MatchTimestamp(doc))
}

// MapAll builds all three record sets from a single timestamp reading.
func (m *Mapper) MapAll(doc Document) Records {
	matchID := doc.MatchID().Value()
	ts := m.MatchTimestamp(doc)
	return Records{
		MatchID:        matchID,
		MatchTimestamp: ts,
		Players:        mapPlayers(doc, matchID, ts),
		Teams:          mapTeams(doc, matchID, ts),
		Details:        mapDetails(doc, matchID, ts),
	}
}

func mapPlayers(doc Document, matchID any, ts int64) []PlayerRecord {
	players := doc.Players()
	results := ClassifyResults(doc.TeamScores())

	out := make([]PlayerRecord, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerRecord{
			MatchID:         matchID,
			Team:            p.Team,
			Name:            p.Name,
			Number:          p.Number,
			PlayTimeSeconds: roundHalfUp(p.TotalTime + p.CurrentTime),
			Score:           p.Score,
			Fouls:           p.Fouls,
			PlusMinus:       p.PlusMinus,
			MatchTimestamp:  ts,
			Result:          results.Of(p.Team),
		})
	}
	return out
}

func mapTeams(doc Document, matchID any, ts int64) []TeamRecord {
	scores := doc.TeamScores()
	results := ClassifyResults(scores)

	out := make([]TeamRecord, 0, len(scores))
	for _, item := range scores {
		out = append(out, TeamRecord{
			MatchID:        matchID,
			Team:           item.Team,
			Score:          item.Score,
			MatchTimestamp: ts,
			Result:         results.Of(item.Team),
		})
	}
	return out
}

func mapDetails(doc Document, matchID any, ts int64) []DetailRecord {
	events := doc.Events()

	out := make([]DetailRecord, 0, len(events))
	for _, event := range events {
		out = append(out, DetailRecord{
			MatchID:            matchID,
			MatchTimestamp:     ts,
			Period:             event.Period,
			GameTime:           event.GameTime,
			Type:               event.Type,
			Team:               NormalizeTeam(event.Team),
			Player:             event.Player,
			Number:             NormalizeNumber(event.Number),
			Value:              NormalizeValue(event.Value),
			OperationTimestamp: event.Timestamp,
		})
	}
	return out
}

// NormalizeTeam maps a missing team to the empty string.
func NormalizeTeam(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// NormalizeValue maps a missing value to MissingNumber.
func NormalizeValue(v any) any {
	if v == nil {
		return MissingNumber
	}
	return v
}

// NormalizeNumber reads a jersey number as an integer. Floats are truncated,
// strings are read up to the first non-digit, and anything without a leading
// integer becomes MissingNumber. A jersey number of 0 is a real number and
// stays 0; it is not treated as missing.
func NormalizeNumber(v any) int64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) >= 1e18 {
			return MissingNumber
		}
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	case string:
		return leadingInt(n)
	default:
		return MissingNumber
	}
}

func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return MissingNumber
	}

	out, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return MissingNumber
	}
	return out
}

func roundHalfUp(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Floor(v + 0.5))
}
