package bitable

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTable  = errors.New("unknown bitable table")
	ErrInvalidTables = errors.New("invalid bitable table configuration")
)

// TableRole is the kind of records a table holds.
type TableRole string

const (
	RolePlayer TableRole = "player"
	RoleTeam   TableRole = "team"
	RoleDetail TableRole = "detail"
)

var AllRoles = []TableRole{RolePlayer, RoleTeam, RoleDetail}

func ParseTableRole(v string) (TableRole, error) {
	role := TableRole(strings.ToLower(strings.TrimSpace(v)))
	switch role {
	case RolePlayer, RoleTeam, RoleDetail:
		return role, nil
	default:
		return "", fmt.Errorf("%w: role %q", ErrUnknownTable, v)
	}
}

// Table addresses one bitable table and the view searches are scoped to.
type Table struct {
	Role   TableRole
	ID     string
	ViewID string
}

// Tables is the closed set of configured tables.
type Tables struct {
	byRole map[TableRole]Table
	byID   map[string]Table
}

// NewTables validates that each role is configured exactly once with a
// distinct table id and a view id.
func NewTables(tables ...Table) (Tables, error) {
	out := Tables{
		byRole: make(map[TableRole]Table, len(AllRoles)),
		byID:   make(map[string]Table, len(AllRoles)),
	}

	for _, table := range tables {
		if _, err := ParseTableRole(string(table.Role)); err != nil {
			return Tables{}, fmt.Errorf("%w: %v", ErrInvalidTables, err)
		}
		table.ID = strings.TrimSpace(table.ID)
		table.ViewID = strings.TrimSpace(table.ViewID)
		if table.ID == "" {
			return Tables{}, fmt.Errorf("%w: %s table id is empty", ErrInvalidTables, table.Role)
		}
		if table.ViewID == "" {
			return Tables{}, fmt.Errorf("%w: %s view id is empty", ErrInvalidTables, table.Role)
		}
		if _, dup := out.byRole[table.Role]; dup {
			return Tables{}, fmt.Errorf("%w: %s table configured twice", ErrInvalidTables, table.Role)
		}
		if other, dup := out.byID[table.ID]; dup {
			return Tables{}, fmt.Errorf("%w: table id %s used by %s and %s", ErrInvalidTables, table.ID, other.Role, table.Role)
		}
		out.byRole[table.Role] = table
		out.byID[table.ID] = table
	}

	for _, role := range AllRoles {
		if _, ok := out.byRole[role]; !ok {
			return Tables{}, fmt.Errorf("%w: %s table is missing", ErrInvalidTables, role)
		}
	}

	return out, nil
}

func (t Tables) ByRole(role TableRole) (Table, error) {
	table, ok := t.byRole[role]
	if !ok {
		return Table{}, fmt.Errorf("%w: role %q", ErrUnknownTable, role)
	}
	return table, nil
}

// Resolve maps a raw table id to its table. An empty id means the player
// table; ids outside the configured set are rejected.
func (t Tables) Resolve(tableID string) (Table, error) {
	tableID = strings.TrimSpace(tableID)
	if tableID == "" {
		return t.ByRole(RolePlayer)
	}
	table, ok := t.byID[tableID]
	if !ok {
		return Table{}, fmt.Errorf("%w: table id %q", ErrUnknownTable, tableID)
	}
	return table, nil
}

func (t Tables) All() []Table {
	out := make([]Table, 0, len(AllRoles))
	for _, role := range AllRoles {
		if table, ok := t.byRole[role]; ok {
			out = append(out, table)
		}
	}
	return out
}
