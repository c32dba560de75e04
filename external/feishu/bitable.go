package feishu

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"

	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
)

var _ bitable.Repository = (*Client)(nil)

type searchRequest struct {
	ViewID string       `json:"view_id,omitempty"`
	Filter searchFilter `json:"filter"`
}

type searchFilter struct {
	Conjunction string            `json:"conjunction"`
	Conditions  []searchCondition `json:"conditions"`
}

type searchCondition struct {
	FieldName string `json:"field_name"`
	Operator  string `json:"operator"`
	Value     []any  `json:"value"`
}

type searchResponse struct {
	envelope
	Data struct {
		Items   []bitable.Record `json:"items"`
		Total   int              `json:"total"`
		HasMore bool             `json:"has_more"`
	} `json:"data"`
}

type batchCreateRequest struct {
	Records []createRecord `json:"records"`
}

type createRecord struct {
	Fields bitable.Fields `json:"fields"`
}

type batchCreateResponse struct {
	envelope
	Data struct {
		Records []bitable.Record `json:"records"`
	} `json:"data"`
}

func (c *Client) recordsPath(tableID, action string) string {
	return fmt.Sprintf("/bitable/v1/apps/%s/tables/%s/records/%s", url.PathEscape(c.appToken), url.PathEscape(tableID), action)
}

// SearchByMatchID looks for at most one row in the table's view whose match
// id field equals matchID.
func (c *Client) SearchByMatchID(ctx context.Context, table bitable.Table, matchID any) (bitable.SearchResult, error) {
	body := searchRequest{
		ViewID: table.ViewID,
		Filter: searchFilter{
			Conjunction: "and",
			Conditions: []searchCondition{{
				FieldName: bitable.FieldMatchID,
				Operator:  "is",
				Value:     []any{game.FormatValue(matchID)},
			}},
		},
	}
	query := url.Values{}
	query.Set("page_size", "1")

	raw, err := c.authorizedPost(ctx, opSearch, c.recordsPath(table.ID, "search"), query, body)
	if err != nil {
		return bitable.SearchResult{}, err
	}

	var out searchResponse
	if err := decodeEnvelope(opSearch, raw.body, raw.status, &out); err != nil {
		return bitable.SearchResult{}, err
	}
	return bitable.SearchResult{
		Items:   out.Data.Items,
		Total:   out.Data.Total,
		HasMore: out.Data.HasMore,
		Raw:     raw.body,
	}, nil
}

// BatchCreate inserts records as one batch.
func (c *Client) BatchCreate(ctx context.Context, table bitable.Table, records []bitable.Fields) (bitable.BatchCreateResult, error) {
	body := batchCreateRequest{Records: make([]createRecord, 0, len(records))}
	for _, fields := range records {
		body.Records = append(body.Records, createRecord{Fields: fields})
	}

	raw, err := c.authorizedPost(ctx, opBatchCreate, c.recordsPath(table.ID, "batch_create"), nil, body)
	if err != nil {
		return bitable.BatchCreateResult{}, err
	}

	var out batchCreateResponse
	if err := decodeEnvelope(opBatchCreate, raw.body, raw.status, &out); err != nil {
		c.logger.ErrorContext(ctx, "batch create rejected", "table_id", table.ID, "records", len(records), "error", err)
		return bitable.BatchCreateResult{Raw: raw.body}, err
	}
	return bitable.BatchCreateResult{Records: out.Data.Records, Raw: raw.body}, nil
}

type rawResponse struct {
	body   []byte
	status int
}

// authorizedPost sends a bearer-authenticated request. A response rejecting
// the token drops the cached one so the next call exchanges a fresh token.
func (c *Client) authorizedPost(ctx context.Context, op, path string, query url.Values, payload any) (rawResponse, error) {
	token, err := c.TenantAccessToken(ctx)
	if err != nil {
		return rawResponse{}, err
	}

	body, status, err := c.postJSON(ctx, op, path, query, token, payload)
	if err != nil {
		return rawResponse{}, err
	}

	if decodeErr := decodeEnvelope(op, body, status, nil); decodeErr != nil {
		var apiErr *APIError
		if stderrors.As(decodeErr, &apiErr) && isTokenRejected(apiErr.Code) {
			c.logger.WarnContext(ctx, "tenant access token rejected, dropping cached token", "op", op, "code", apiErr.Code)
			c.InvalidateTenantToken()
		}
	}
	return rawResponse{body: body, status: status}, nil
}
