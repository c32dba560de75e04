package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/riskibarqy/courtside-sync/internal/domain/game"
	"github.com/riskibarqy/courtside-sync/internal/usecase"
)

func (h *Handler) ParseGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ParseGame")
	defer span.End()

	raw, err := readGameDocument(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	records, err := h.gameService.Parse(ctx, raw)
	if err != nil {
		h.logger.WarnContext(ctx, "parse game failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	annotateMatch(span, game.FormatValue(records.MatchID))
	h.logger.InfoContext(ctx, "game parsed", recordsSummary(records)...)

	writeSuccess(ctx, w, http.StatusOK, records)
}

// SyncGame answers 200 when every table was written or skipped and 207 when
// at least one table was rejected or failed; the body carries the per-table
// outcome either way.
func (h *Handler) SyncGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncGame")
	defer span.End()

	raw, err := readGameDocument(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.gameService.Sync(ctx, raw)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMatch(span, game.FormatValue(report.MatchID))
	inserted := 0
	for _, item := range report.Tables {
		inserted += item.Inserted
	}
	annotateSync(span, "", "", inserted)

	status := http.StatusOK
	if !report.Succeeded() {
		status = http.StatusMultiStatus
	}
	writeSuccess(ctx, w, status, gameSyncToDTO(report))
}

func readGameDocument(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxGameDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read game document: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxGameDocumentBytes {
		return nil, fmt.Errorf("%w: game document exceeds %d bytes", usecase.ErrInvalidInput, maxGameDocumentBytes)
	}
	return raw, nil
}
