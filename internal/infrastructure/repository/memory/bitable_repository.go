package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
	idgen "github.com/riskibarqy/courtside-sync/internal/platform/id"
)

const recordIDSize = 8

// BitableRepository keeps rows per table id in process memory. It answers with
// bodies shaped like the remote API so callers can run without credentials.
type BitableRepository struct {
	mu      sync.RWMutex
	rows    map[string][]bitable.Record
	records idgen.Generator
}

var _ bitable.Repository = (*BitableRepository)(nil)

func NewBitableRepository() *BitableRepository {
	return &BitableRepository{
		rows:    make(map[string][]bitable.Record),
		records: idgen.NewSizedGenerator(recordIDSize),
	}
}

type remoteBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

type searchData struct {
	Items   []bitable.Record `json:"items"`
	Total   int              `json:"total"`
	HasMore bool             `json:"has_more"`
}

type batchCreateData struct {
	Records []bitable.Record `json:"records"`
}

func (r *BitableRepository) SearchByMatchID(_ context.Context, table bitable.Table, matchID any) (bitable.SearchResult, error) {
	want := game.FormatValue(matchID)

	r.mu.RLock()
	var items []bitable.Record
	total := 0
	for _, row := range r.rows[table.ID] {
		if game.FormatValue(bitable.MatchIDValue(row.Fields[bitable.FieldMatchID])) != want {
			continue
		}
		total++
		if len(items) == 0 {
			items = append(items, copyRecord(row))
		}
	}
	r.mu.RUnlock()

	data := searchData{Items: items, Total: total, HasMore: total > len(items)}
	raw, err := sonic.Marshal(remoteBody{Msg: "success", Data: data})
	if err != nil {
		return bitable.SearchResult{}, fmt.Errorf("encode search response: %w", err)
	}

	return bitable.SearchResult{
		Items:   items,
		Total:   total,
		HasMore: data.HasMore,
		Raw:     raw,
	}, nil
}

func (r *BitableRepository) BatchCreate(_ context.Context, table bitable.Table, records []bitable.Fields) (bitable.BatchCreateResult, error) {
	created := make([]bitable.Record, 0, len(records))
	for _, fields := range records {
		id, err := r.records.NewID()
		if err != nil {
			return bitable.BatchCreateResult{}, fmt.Errorf("generate record id: %w", err)
		}
		created = append(created, bitable.Record{ID: "rec" + id, Fields: maps.Clone(fields)})
	}

	raw, err := sonic.Marshal(remoteBody{Msg: "success", Data: batchCreateData{Records: created}})
	if err != nil {
		return bitable.BatchCreateResult{}, fmt.Errorf("encode batch create response: %w", err)
	}

	r.mu.Lock()
	r.rows[table.ID] = append(r.rows[table.ID], created...)
	r.mu.Unlock()

	out := make([]bitable.Record, 0, len(created))
	for _, record := range created {
		out = append(out, copyRecord(record))
	}
	return bitable.BatchCreateResult{Records: out, Raw: raw}, nil
}

// Rows returns a copy of everything stored for tableID.
func (r *BitableRepository) Rows(tableID string) []bitable.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.rows[tableID]
	out := make([]bitable.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, copyRecord(row))
	}
	return out
}

func copyRecord(in bitable.Record) bitable.Record {
	return bitable.Record{ID: in.ID, Fields: maps.Clone(in.Fields)}
}
