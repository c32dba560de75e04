package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/courtside-sync/internal/domain/game"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
)

type GameService struct {
	mapper *game.Mapper
	sync   *SyncService
	logger *logging.Logger
}

func NewGameService(mapper *game.Mapper, syncService *SyncService, logger *logging.Logger) *GameService {
	if logger == nil {
		logger = logging.Default()
	}
	if mapper == nil {
		mapper = game.NewMapper()
	}

	return &GameService{
		mapper: mapper,
		sync:   syncService,
		logger: logger,
	}
}

// Parse decodes a raw telemetry export into flat records.
func (s *GameService) Parse(ctx context.Context, raw []byte) (game.Records, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Parse")
	defer span.End()

	doc, err := game.Decode(raw)
	if err != nil {
		return game.Records{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if doc.MatchID().IsDefault() {
		s.logger.WarnContext(ctx, "game document has no id, using default match id", "match_id", game.DefaultMatchID)
	}
	return s.mapper.MapAll(doc), nil
}

// Sync parses raw and writes every record set to its table.
func (s *GameService) Sync(ctx context.Context, raw []byte) (GameSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Sync")
	defer span.End()

	if s.sync == nil {
		return GameSyncReport{}, fmt.Errorf("%w: sync is not configured", ErrDependencyUnavailable)
	}

	records, err := s.Parse(ctx, raw)
	if err != nil {
		return GameSyncReport{}, err
	}

	s.logger.InfoContext(ctx, "syncing game",
		"match_id", game.FormatValue(records.MatchID),
		"players", len(records.Players),
		"teams", len(records.Teams),
		"details", len(records.Details),
	)
	return s.sync.SyncGame(ctx, records)
}
