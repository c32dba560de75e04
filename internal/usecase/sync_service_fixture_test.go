package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
)

func testTables(t *testing.T) bitable.Tables {
	t.Helper()
	tables, err := bitable.NewTables(
		bitable.Table{Role: bitable.RolePlayer, ID: "tblPlayer", ViewID: "vewPlayer"},
		bitable.Table{Role: bitable.RoleTeam, ID: "tblTeam", ViewID: "vewPlayer"},
		bitable.Table{Role: bitable.RoleDetail, ID: "tblDetail", ViewID: "vewDetail"},
	)
	if err != nil {
		t.Fatalf("new tables: %v", err)
	}
	return tables
}

// memoryBitable is an in-process stand-in for the remote store.
type memoryBitable struct {
	mu          sync.Mutex
	rows        map[string][]bitable.Fields
	searchDelay time.Duration
	searches    int
	inserts     int
	failInsert  map[string]error
	panicInsert map[string]string
}

func newMemoryBitable() *memoryBitable {
	return &memoryBitable{rows: make(map[string][]bitable.Fields)}
}

func (m *memoryBitable) SearchByMatchID(_ context.Context, table bitable.Table, matchID any) (bitable.SearchResult, error) {
	if m.searchDelay > 0 {
		time.Sleep(m.searchDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++

	want := game.FormatValue(matchID)
	var items []bitable.Record
	for i, row := range m.rows[table.ID] {
		if game.FormatValue(row[bitable.FieldMatchID]) == want {
			items = append(items, bitable.Record{ID: fmt.Sprintf("rec%d", i), Fields: row})
			break
		}
	}
	return bitable.SearchResult{Items: items, Total: len(items)}, nil
}

func (m *memoryBitable) BatchCreate(_ context.Context, table bitable.Table, records []bitable.Fields) (bitable.BatchCreateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msg, ok := m.panicInsert[table.ID]; ok {
		panic(msg)
	}
	if err := m.failInsert[table.ID]; err != nil {
		return bitable.BatchCreateResult{}, err
	}
	m.inserts++

	out := make([]bitable.Record, 0, len(records))
	for _, record := range records {
		m.rows[table.ID] = append(m.rows[table.ID], record)
		out = append(out, bitable.Record{ID: fmt.Sprintf("rec%d", len(m.rows[table.ID])), Fields: record})
	}
	return bitable.BatchCreateResult{Records: out, Raw: []byte(`{"code":0,"msg":"success"}`)}, nil
}

func (m *memoryBitable) rowCount(tableID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[tableID])
}

func (m *memoryBitable) counts() (searches, inserts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searches, m.inserts
}
