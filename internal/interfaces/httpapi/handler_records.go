package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
	"github.com/riskibarqy/courtside-sync/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

// AddRecords runs the duplicate-guarded insert for one table and returns the
// remote response verbatim.
func (h *Handler) AddRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddRecords")
	defer span.End()

	var req addRecordsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.addRecords(w, r, req)
}

// AddPlayerRecords is the legacy route that always targets the player table.
func (h *Handler) AddPlayerRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayerRecords")
	defer span.End()

	var req addRecordsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	req.TableID = ""
	req.Table = string(bitable.RolePlayer)
	h.addRecords(w, r.WithContext(ctx), req)
}

func (h *Handler) addRecords(w http.ResponseWriter, r *http.Request, req addRecordsRequest) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	fields := toFields(req.Records)
	annotateSync(span, req.Table, req.TableID, len(fields))

	var (
		result usecase.SubmitResult
		err    error
	)
	if req.Table != "" && req.TableID == "" {
		result, err = h.syncService.Submit(ctx, bitable.TableRole(req.Table), fields)
	} else {
		result, err = h.syncService.SubmitToTable(ctx, req.TableID, fields)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "add records failed", "table", req.Table, "table_id", req.TableID, "records", len(fields), "error", err)
		writeError(ctx, w, err)
		return
	}
	annotateSync(span, string(result.Table.Role), result.Table.ID, len(result.Created.Records))
	annotateMatch(span, game.FormatValue(result.MatchID))

	writeSuccess(ctx, w, http.StatusOK, rawOrNull(result.Created.Raw))
}

func (h *Handler) SearchRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchRecords")
	defer span.End()

	var req searchRecordsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tableID := req.TableID
	if tableID == "" && req.Table != "" {
		table, err := h.syncService.Tables().ByRole(bitable.TableRole(req.Table))
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err))
			return
		}
		tableID = table.ID
	}

	annotateSync(span, req.Table, tableID, 0)
	annotateMatch(span, game.FormatValue(req.GameID))

	out, err := h.syncService.Search(ctx, tableID, req.GameID)
	if err != nil {
		h.logger.WarnContext(ctx, "search records failed", "table_id", tableID, "game_id", game.FormatValue(req.GameID), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rawOrNull(out.Raw))
}
