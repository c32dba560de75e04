package bitable

import (
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
)

// Field names as defined in the remote tables.
const (
	FieldMatchID        = "比赛id"
	FieldTeam           = "球队"
	FieldPlayerName     = "球员姓名"
	FieldJerseyNumber   = "球衣号码"
	FieldPlayTime       = "出场时间(s)"
	FieldScore          = "得分"
	FieldFouls          = "犯规次数"
	FieldPlusMinus      = "正负值"
	FieldMatchTime      = "比赛时间"
	FieldResult         = "比赛结果"
	FieldPeriod         = "当前节"
	FieldGameClock      = "比赛进行时间"
	FieldEventType      = "类型"
	FieldEventPlayer    = "球员"
	FieldEventNumber    = "号码"
	FieldOperationTime  = "操作时间"
	resultLabelWin      = "胜"
	resultLabelLoss     = "负"
	attachmentTextField = "text"
)

// Fields is one record's field map as sent to the remote store.
type Fields map[string]any

// ResultLabel renders a result as the table's option label.
func ResultLabel(r game.Result) string {
	switch r {
	case game.ResultWin:
		return resultLabelWin
	case game.ResultLoss:
		return resultLabelLoss
	default:
		return ""
	}
}

func PlayerFields(r game.PlayerRecord) Fields {
	return Fields{
		FieldMatchID:      r.MatchID,
		FieldTeam:         r.Team,
		FieldPlayerName:   r.Name,
		FieldJerseyNumber: r.Number,
		FieldPlayTime:     r.PlayTimeSeconds,
		FieldScore:        r.Score,
		FieldFouls:        r.Fouls,
		FieldPlusMinus:    r.PlusMinus,
		FieldMatchTime:    r.MatchTimestamp,
		FieldResult:       ResultLabel(r.Result),
	}
}

func TeamFields(r game.TeamRecord) Fields {
	return Fields{
		FieldMatchID:   r.MatchID,
		FieldTeam:      r.Team,
		FieldScore:     r.Score,
		FieldMatchTime: r.MatchTimestamp,
		FieldResult:    ResultLabel(r.Result),
	}
}

func DetailFields(r game.DetailRecord) Fields {
	return Fields{
		FieldMatchID:       r.MatchID,
		FieldMatchTime:     r.MatchTimestamp,
		FieldPeriod:        r.Period,
		FieldGameClock:     r.GameTime,
		FieldEventType:     r.Type,
		FieldTeam:          r.Team,
		FieldEventPlayer:   r.Player,
		FieldEventNumber:   r.Number,
		FieldScore:         r.Value,
		FieldOperationTime: r.OperationTimestamp,
	}
}

// RecordFields converts all record sets of a game, keyed by table role.
func RecordFields(records game.Records) map[TableRole][]Fields {
	players := make([]Fields, 0, len(records.Players))
	for _, r := range records.Players {
		players = append(players, PlayerFields(r))
	}
	teams := make([]Fields, 0, len(records.Teams))
	for _, r := range records.Teams {
		teams = append(teams, TeamFields(r))
	}
	details := make([]Fields, 0, len(records.Details))
	for _, r := range records.Details {
		details = append(details, DetailFields(r))
	}

	return map[TableRole][]Fields{
		RolePlayer: players,
		RoleTeam:   teams,
		RoleDetail: details,
	}
}

// MatchIDOf returns the match id of the first record that carries one.
// Values read back from the store arrive as [{"text": ...}] and are unwrapped.
func MatchIDOf(records []Fields) (any, bool) {
	for _, record := range records {
		v := record[FieldMatchID]
		if !game.Truthy(v) {
			continue
		}
		return MatchIDValue(v), true
	}
	return nil, false
}

// MatchIDValue unwraps a stored [{"text": ...}] match id cell; other values
// are returned unchanged.
func MatchIDValue(v any) any {
	if text, ok := attachmentText(v); ok {
		return text
	}
	return v
}

func attachmentText(v any) (any, bool) {
	var first any
	switch items := v.(type) {
	case []any:
		if len(items) == 0 {
			return nil, false
		}
		first = items[0]
	case []map[string]any:
		if len(items) == 0 {
			return nil, false
		}
		first = items[0]
	default:
		return nil, false
	}

	obj, ok := first.(map[string]any)
	if !ok {
		return nil, false
	}
	text := obj[attachmentTextField]
	if !game.Truthy(text) {
		return nil, false
	}
	return text, true
}
