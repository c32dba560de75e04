package game

import (
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/valyala/bytebufferpool"
)

type TeamScore struct {
	Team  string
	Score float64
}

// TeamScores is the teamScores object in document order. A repeated key
// keeps its first position and its last score.
type TeamScores []TeamScore

func (s *TeamScores) UnmarshalJSON(data []byte) error {
	root, err := sonic.Get(data)
	if err != nil {
		return fmt.Errorf("parse teamScores: %w", err)
	}

	switch root.Type() {
	case ast.V_NULL:
		*s = nil
		return nil
	case ast.V_OBJECT:
	default:
		return fmt.Errorf("teamScores must be an object")
	}

	out := make(TeamScores, 0, 2)
	index := make(map[string]int, 2)
	var scanErr error
	err = root.ForEach(func(path ast.Sequence, node *ast.Node) bool {
		if path.Key == nil {
			return true
		}
		team := *path.Key

		score := 0.0
		switch node.Type() {
		case ast.V_NULL:
		case ast.V_NUMBER:
			score, scanErr = node.Float64()
			if scanErr != nil {
				scanErr = fmt.Errorf("team %q score: %w", team, scanErr)
				return false
			}
		default:
			scanErr = fmt.Errorf("team %q score must be a number", team)
			return false
		}

		if i, ok := index[team]; ok {
			out[i].Score = score
			return true
		}
		index[team] = len(out)
		out = append(out, TeamScore{Team: team, Score: score})
		return true
	})
	if scanErr != nil {
		return scanErr
	}
	if err != nil {
		return fmt.Errorf("scan teamScores: %w", err)
	}

	*s = out
	return nil
}

func (s TeamScores) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('{')
	for i, item := range s {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		key, err := sonic.Marshal(item.Team)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(key)
		_ = buf.WriteByte(':')
		_, _ = buf.WriteString(strconv.FormatFloat(item.Score, 'f', -1, 64))
	}
	_ = buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// ScoreOf returns the score recorded for team.
func (s TeamScores) ScoreOf(team string) (float64, bool) {
	for _, item := range s {
		if item.Team == team {
			return item.Score, true
		}
	}
	return 0, false
}
