package game

import (
	"testing"
	"time"
)

const sampleGame = `{
	"game": [{
		"id": 1001,
		"teamScores": {"A": 80, "B": 75},
		"players": [
			{"team":"A","name":"Lin","number":7,"totalTime":600,"currentTime":120.5,"score":21,"fouls":2,"plusMinus":9},
			{"team":"B","name":"Zhou","number":"11","totalTime":10.2,"currentTime":5.2,"score":14,"fouls":4,"plusMinus":-9},
			{"team":"C","name":"Guest","number":null,"totalTime":0,"currentTime":0,"score":0,"fouls":0,"plusMinus":0}
		]
	}],
	"details": [
		{"period":1,"gameTime":"10:00","type":"start","team":null,"player":null,"number":null,"value":null,"timestamp":null},
		{"period":1,"gameTime":"09:41","type":"2pt","team":"A","player":"Lin","number":"7","value":2,"timestamp":1710412345000},
		{"period":1,"gameTime":"09:12","type":"foul","team":"B","player":"Zhou","number":11.9,"value":1,"timestamp":1710412399000},
		{"period":2,"gameTime":"08:00","type":"note","player":"Lin","number":"abc","value":0}
	]
}`

func fixedMapper(t *testing.T) *Mapper {
	t.Helper()
	now := time.Date(2025, 11, 2, 8, 15, 0, 0, time.UTC)
	return NewMapper(WithClock(func() time.Time { return now }), WithLocation(time.UTC))
}

func decodeSample(t *testing.T, raw string) Document {
	t.Helper()
	doc, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

func TestMapper_MapTeams(t *testing.T) {
	doc := decodeSample(t, sampleGame)
	teams := fixedMapper(t).MapTeams(doc)

	if len(teams) != 2 {
		t.Fatalf("expected two team records, got %d", len(teams))
	}
	if teams[0].Team != "A" || teams[0].Result != ResultWin || teams[0].Score != 80 {
		t.Fatalf("unexpected first team record: %+v", teams[0])
	}
	if teams[1].Team != "B" || teams[1].Result != ResultLoss || teams[1].Score != 75 {
		t.Fatalf("unexpected second team record: %+v", teams[1])
	}
	if teams[0].MatchID != float64(1001) {
		t.Fatalf("unexpected match id %v", teams[0].MatchID)
	}
}

func TestMapper_MapPlayers(t *testing.T) {
	doc := decodeSample(t, sampleGame)
	players := fixedMapper(t).MapPlayers(doc)

	if len(players) != 3 {
		t.Fatalf("expected three player records, got %d", len(players))
	}
	if players[0].PlayTimeSeconds != 721 {
		t.Fatalf("expected play time 721, got %d", players[0].PlayTimeSeconds)
	}
	if players[1].PlayTimeSeconds != 15 {
		t.Fatalf("expected play time 15, got %d", players[1].PlayTimeSeconds)
	}
	if players[0].Result != ResultWin || players[1].Result != ResultLoss {
		t.Fatalf("unexpected results: %q %q", players[0].Result, players[1].Result)
	}
	if players[2].Result != ResultUnknown {
		t.Fatalf("expected empty result for team missing from scores, got %q", players[2].Result)
	}
	if players[1].Number != "11" {
		t.Fatalf("expected player number to pass through, got %v", players[1].Number)
	}
}

func TestMapper_MapDetails_Normalization(t *testing.T) {
	doc := decodeSample(t, sampleGame)
	details := fixedMapper(t).MapDetails(doc)

	if len(details) != 4 {
		t.Fatalf("expected four detail records, got %d", len(details))
	}

	first := details[0]
	if first.Team != "" || first.Number != MissingNumber || first.Value != MissingNumber {
		t.Fatalf("unexpected null normalization: %+v", first)
	}
	if first.OperationTimestamp != nil {
		t.Fatalf("expected null operation timestamp to pass through, got %v", first.OperationTimestamp)
	}

	second := details[1]
	if second.Number != 7 || second.Value != float64(2) || second.Team != "A" {
		t.Fatalf("unexpected scoring detail: %+v", second)
	}

	if details[2].Number != 11 {
		t.Fatalf("expected truncated float number 11, got %d", details[2].Number)
	}

	last := details[3]
	if last.Team != "" || last.Number != MissingNumber {
		t.Fatalf("expected missing team and non-numeric number to normalize, got %+v", last)
	}
	if last.Value != float64(0) {
		t.Fatalf("expected zero value to pass through, got %v", last.Value)
	}
}

func TestMapper_DetailScenario(t *testing.T) {
	doc := decodeSample(t, `{"game":[{"id":5}],"details":[{"number":"7","value":2}]}`)
	details := fixedMapper(t).MapDetails(doc)

	if len(details) != 1 {
		t.Fatalf("expected one detail record, got %d", len(details))
	}
	got := details[0]
	if got.Number != 7 || got.Value != float64(2) || got.Team != "" {
		t.Fatalf("unexpected detail record: %+v", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{nil, "7", "abc", float64(12.8), "", " 23 ", "-4x", true}
	for _, in := range inputs {
		once := NormalizeNumber(in)
		if twice := NormalizeNumber(once); twice != once {
			t.Fatalf("NormalizeNumber not idempotent for %v: %d then %d", in, once, twice)
		}
	}

	if got := NormalizeTeam(NormalizeTeam(nil)); got != "" {
		t.Fatalf("NormalizeTeam not idempotent: %v", got)
	}
	if got := NormalizeValue(NormalizeValue(nil)); got != MissingNumber {
		t.Fatalf("NormalizeValue not idempotent: %v", got)
	}
}

func TestMapper_SharedMatchTimestamp(t *testing.T) {
	doc := decodeSample(t, sampleGame)
	mapper := fixedMapper(t)

	want := time.Date(2024, 3, 14, 19, 30, 0, 0, time.UTC).UnixMilli()
	players := mapper.MapPlayers(doc)
	teams := mapper.MapTeams(doc)
	details := mapper.MapDetails(doc)

	for _, p := range players {
		if p.MatchTimestamp != want {
			t.Fatalf("player timestamp=%d want=%d", p.MatchTimestamp, want)
		}
	}
	for _, tr := range teams {
		if tr.MatchTimestamp != want {
			t.Fatalf("team timestamp=%d want=%d", tr.MatchTimestamp, want)
		}
	}
	for _, d := range details {
		if d.MatchTimestamp != want {
			t.Fatalf("detail timestamp=%d want=%d", d.MatchTimestamp, want)
		}
	}

	all := mapper.MapAll(doc)
	if all.MatchTimestamp != want || all.MatchID != float64(1001) {
		t.Fatalf("unexpected MapAll header: ts=%d id=%v", all.MatchTimestamp, all.MatchID)
	}
	if len(all.Players) != 3 || len(all.Teams) != 2 || len(all.Details) != 4 {
		t.Fatalf("unexpected MapAll sizes: %d/%d/%d", len(all.Players), len(all.Teams), len(all.Details))
	}
}

func TestMapper_EmptyDetailsFallsBackToClock(t *testing.T) {
	doc := decodeSample(t, `{"game":[{"id":"G-1","teamScores":{"A":1}}],"details":[]}`)
	mapper := fixedMapper(t)

	got := mapper.MatchTimestamp(doc)
	want := time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC).UnixMilli()
	if got != want {
		t.Fatalf("fallback timestamp=%d want=%d", got, want)
	}

	ts := time.UnixMilli(got).UTC()
	if ts.Hour() != 19 || ts.Minute() != 30 || ts.Second() != 0 || ts.Nanosecond() != 0 {
		t.Fatalf("unexpected time of day %s", ts)
	}
}

func TestNormalizeNumber_ZeroIsAJerseyNumber(t *testing.T) {
	cases := map[string]struct {
		in   any
		want int64
	}{
		"float zero":  {in: float64(0), want: 0},
		"string zero": {in: "0", want: 0},
		"null":        {in: nil, want: MissingNumber},
		"word":        {in: "bench", want: MissingNumber},
	}
	for name, tc := range cases {
		if got := NormalizeNumber(tc.in); got != tc.want {
			t.Fatalf("%s: NormalizeNumber(%v)=%d want=%d", name, tc.in, got, tc.want)
		}
	}
}
