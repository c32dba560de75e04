package game

import (
	sonic "github.com/bytedance/sonic"
)

// DefaultMatchID is used when a document carries no usable game id.
const DefaultMatchID = 3

// MatchID keeps the id exactly as exported so numeric ids stay numeric on
// the wire.
type MatchID struct {
	raw any
}

func NewMatchID(v any) MatchID {
	return MatchID{raw: v}
}

func (m *MatchID) UnmarshalJSON(data []byte) error {
	var v any
	if err := sonic.Unmarshal(data, &v); err != nil {
		return err
	}
	m.raw = v
	return nil
}

func (m MatchID) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(m.Value())
}

// Value returns the exported id, or DefaultMatchID when it is null, zero or
// empty.
func (m MatchID) Value() any {
	if Truthy(m.raw) {
		return m.raw
	}
	return DefaultMatchID
}

// IsDefault reports whether Value falls back to DefaultMatchID.
func (m MatchID) IsDefault() bool {
	return !Truthy(m.raw)
}

func (m MatchID) String() string {
	return FormatValue(m.Value())
}
