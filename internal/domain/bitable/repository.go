package bitable

import "context"

// Record is a stored row as returned by the remote store.
type Record struct {
	ID     string `json:"record_id"`
	Fields Fields `json:"fields"`
}

// SearchResult carries the parsed items and the untouched response body.
type SearchResult struct {
	Items   []Record
	Total   int
	HasMore bool
	Raw     []byte
}

func (r SearchResult) Found() bool {
	return len(r.Items) > 0 || r.Total > 0
}

type BatchCreateResult struct {
	Records []Record
	Raw     []byte
}

// Repository describes the remote bitable operations used by sync.
type Repository interface {
	SearchByMatchID(ctx context.Context, table Table, matchID any) (SearchResult, error)
	BatchCreate(ctx context.Context, table Table, records []Fields) (BatchCreateResult, error)
}
