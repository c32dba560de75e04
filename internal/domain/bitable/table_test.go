package bitable

import (
	"errors"
	"testing"
)

func defaultTestTables(t *testing.T) Tables {
	t.Helper()
	tables, err := NewTables(
		Table{Role: RolePlayer, ID: "tblK0ZVeOvXnzaLe", ViewID: "vewiURewir"},
		Table{Role: RoleTeam, ID: "tblK9ypDJ2sFyC6i", ViewID: "vewiURewir"},
		Table{Role: RoleDetail, ID: "tblZwxf96Tw1EC71", ViewID: "vewq4i29ck"},
	)
	if err != nil {
		t.Fatalf("new tables: %v", err)
	}
	return tables
}

func TestTables_Resolve(t *testing.T) {
	tables := defaultTestTables(t)

	tests := []struct {
		name     string
		tableID  string
		wantRole TableRole
		wantView string
		wantErr  error
	}{
		{name: "empty id defaults to player", tableID: "", wantRole: RolePlayer, wantView: "vewiURewir"},
		{name: "player table", tableID: "tblK0ZVeOvXnzaLe", wantRole: RolePlayer, wantView: "vewiURewir"},
		{name: "team table", tableID: "tblK9ypDJ2sFyC6i", wantRole: RoleTeam, wantView: "vewiURewir"},
		{name: "detail table", tableID: " tblZwxf96Tw1EC71 ", wantRole: RoleDetail, wantView: "vewq4i29ck"},
		{name: "unknown table", tableID: "tblUnknown", wantErr: ErrUnknownTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tables.Resolve(tt.tableID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got.Role != tt.wantRole || got.ViewID != tt.wantView {
				t.Fatalf("resolve(%q)=%+v", tt.tableID, got)
			}
		})
	}
}

func TestNewTables_Validation(t *testing.T) {
	tests := []struct {
		name   string
		tables []Table
	}{
		{
			name: "missing detail role",
			tables: []Table{
				{Role: RolePlayer, ID: "p", ViewID: "v"},
				{Role: RoleTeam, ID: "t", ViewID: "v"},
			},
		},
		{
			name: "duplicate table id",
			tables: []Table{
				{Role: RolePlayer, ID: "same", ViewID: "v"},
				{Role: RoleTeam, ID: "same", ViewID: "v"},
				{Role: RoleDetail, ID: "d", ViewID: "v"},
			},
		},
		{
			name: "empty view",
			tables: []Table{
				{Role: RolePlayer, ID: "p", ViewID: ""},
				{Role: RoleTeam, ID: "t", ViewID: "v"},
				{Role: RoleDetail, ID: "d", ViewID: "v"},
			},
		},
		{
			name: "unknown role",
			tables: []Table{
				{Role: "coach", ID: "c", ViewID: "v"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTables(tt.tables...); !errors.Is(err, ErrInvalidTables) {
				t.Fatalf("expected ErrInvalidTables, got %v", err)
			}
		})
	}
}

func TestParseTableRole(t *testing.T) {
	if role, err := ParseTableRole(" Team "); err != nil || role != RoleTeam {
		t.Fatalf("unexpected parse result: %q %v", role, err)
	}
	if _, err := ParseTableRole("coach"); !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}
