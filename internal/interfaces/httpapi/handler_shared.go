package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
	"github.com/riskibarqy/courtside-sync/internal/usecase"
)

// maxGameDocumentBytes bounds raw game uploads.
const maxGameDocumentBytes = 16 << 20

type Handler struct {
	authService *usecase.AuthService
	syncService *usecase.SyncService
	gameService *usecase.GameService
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	syncService *usecase.SyncService,
	gameService *usecase.GameService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService: authService,
		syncService: syncService,
		gameService: gameService,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

type addRecordsRequest struct {
	Records []map[string]any `json:"records" validate:"required,min=1,max=500"`
	TableID string           `json:"tableId" validate:"omitempty,max=64"`
	Table   string           `json:"table" validate:"omitempty,oneof=player team detail"`
}

type searchRecordsRequest struct {
	TableID string `json:"tableId" validate:"omitempty,max=64"`
	Table   string `json:"table" validate:"omitempty,oneof=player team detail"`
	// ViewID is accepted for compatibility; the configured view is used.
	ViewID string `json:"viewId" validate:"omitempty,max=64"`
	GameID any    `json:"gameId"`
}

type loginDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionCheckDTO struct {
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty"`
}

type logoutDTO struct {
	LoggedOut bool `json:"loggedOut"`
}

type tableSyncDTO struct {
	Role     string          `json:"role"`
	TableID  string          `json:"tableId,omitempty"`
	Status   string          `json:"status"`
	Inserted int             `json:"inserted"`
	Error    string          `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

type gameSyncDTO struct {
	MatchID        any            `json:"matchId"`
	MatchTimestamp int64          `json:"matchTimestamp"`
	Succeeded      bool           `json:"succeeded"`
	Tables         []tableSyncDTO `json:"tables"`
}

func toFields(records []map[string]any) []bitable.Fields {
	out := make([]bitable.Fields, 0, len(records))
	for _, record := range records {
		out = append(out, bitable.Fields(record))
	}
	return out
}

// rawOrNull keeps a remote response verbatim inside the envelope.
func rawOrNull(raw []byte) json.RawMessage {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	return json.RawMessage(raw)
}

func gameSyncToDTO(report usecase.GameSyncReport) gameSyncDTO {
	out := gameSyncDTO{
		MatchID:        report.MatchID,
		MatchTimestamp: report.MatchTimestamp,
		Succeeded:      report.Succeeded(),
		Tables:         make([]tableSyncDTO, 0, len(report.Tables)),
	}
	for _, item := range report.Tables {
		dto := tableSyncDTO{
			Role:     string(item.Role),
			TableID:  item.TableID,
			Status:   string(item.Status),
			Inserted: item.Inserted,
			Response: rawOrNull(item.Raw),
		}
		if item.Err != nil {
			dto.Error = item.Err.Error()
		}
		out.Tables = append(out.Tables, dto)
	}
	return out
}

func recordsSummary(records game.Records) []any {
	return []any{
		"match_id", game.FormatValue(records.MatchID),
		"players", len(records.Players),
		"teams", len(records.Teams),
		"details", len(records.Details),
	}
}
