package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
	"github.com/riskibarqy/courtside-sync/internal/platform/resilience"
	"github.com/sourcegraph/conc/panics"
)

// SubmitResult describes a successful insert.
type SubmitResult struct {
	Table   bitable.Table
	MatchID any
	Created bitable.BatchCreateResult
}

type TableSyncStatus string

const (
	TableSyncInserted  TableSyncStatus = "inserted"
	TableSyncDuplicate TableSyncStatus = "duplicate"
	TableSyncFailed    TableSyncStatus = "failed"
	TableSyncSkipped   TableSyncStatus = "skipped"
)

type TableSyncResult struct {
	Role     bitable.TableRole
	TableID  string
	Status   TableSyncStatus
	Inserted int
	Err      error
	Raw      []byte
}

// GameSyncReport is the per-table outcome of syncing one game. Tables are
// synced independently, so a report can mix successes and failures.
type GameSyncReport struct {
	MatchID        any
	MatchTimestamp int64
	Tables         []TableSyncResult
}

func (r GameSyncReport) Succeeded() bool {
	for _, item := range r.Tables {
		if item.Status == TableSyncFailed || item.Status == TableSyncDuplicate {
			return false
		}
	}
	return true
}

// SyncService writes record sets to the remote bitable, refusing a set
// whose match id is already present in the target table.
type SyncService struct {
	repo   bitable.Repository
	tables bitable.Tables
	locks  *resilience.KeyedMutex
	logger *logging.Logger
}

func NewSyncService(repo bitable.Repository, tables bitable.Tables, logger *logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		repo:   repo,
		tables: tables,
		locks:  resilience.NewKeyedMutex(),
		logger: logger,
	}
}

func (s *SyncService) Tables() bitable.Tables {
	return s.tables
}

// Submit inserts records into the table configured for role.
func (s *SyncService) Submit(ctx context.Context, role bitable.TableRole, records []bitable.Fields) (SubmitResult, error) {
	table, err := s.tables.ByRole(role)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.submit(ctx, table, records)
}

// SubmitToTable inserts records into a table addressed by its remote id.
// An empty id targets the player table.
func (s *SyncService) SubmitToTable(ctx context.Context, tableID string, records []bitable.Fields) (SubmitResult, error) {
	table, err := s.tables.Resolve(tableID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.submit(ctx, table, records)
}

func (s *SyncService) submit(ctx context.Context, table bitable.Table, records []bitable.Fields) (SubmitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Submit")
	defer span.End()

	if len(records) == 0 {
		return SubmitResult{}, fmt.Errorf("%w: records are required", ErrInvalidInput)
	}

	matchID, hasMatchID := bitable.MatchIDOf(records)
	result := SubmitResult{Table: table, MatchID: matchID}

	if hasMatchID {
		// Search and insert for one match id must not interleave.
		unlock := s.locks.Lock(string(table.Role) + ":" + game.FormatValue(matchID))
		defer unlock()

		existing, err := s.repo.SearchByMatchID(ctx, table, matchID)
		if err != nil {
			markSpanError(span, err)
			return result, fmt.Errorf("check existing %s records match_id=%s: %w", table.Role, game.FormatValue(matchID), err)
		}
		if existing.Found() {
			s.logger.WarnContext(ctx, "duplicate game rejected",
				"table", table.Role,
				"table_id", table.ID,
				"match_id", game.FormatValue(matchID),
			)
			return result, fmt.Errorf("%w: table=%s match_id=%s", ErrDuplicateGame, table.Role, game.FormatValue(matchID))
		}
	} else {
		s.logger.InfoContext(ctx, "records carry no match id, skipping duplicate check", "table", table.Role, "records", len(records))
	}

	created, err := s.repo.BatchCreate(ctx, table, records)
	if err != nil {
		markSpanError(span, err)
		return result, fmt.Errorf("insert %d %s records: %w", len(records), table.Role, err)
	}
	result.Created = created

	s.logger.InfoContext(ctx, "records inserted",
		"table", table.Role,
		"table_id", table.ID,
		"match_id", game.FormatValue(matchID),
		"records", len(records),
	)
	return result, nil
}

// Search runs the existence query used before inserts.
func (s *SyncService) Search(ctx context.Context, tableID string, matchID any) (bitable.SearchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Search")
	defer span.End()

	if !game.Truthy(matchID) {
		return bitable.SearchResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	table, err := s.tables.Resolve(tableID)
	if err != nil {
		return bitable.SearchResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	out, err := s.repo.SearchByMatchID(ctx, table, matchID)
	if err != nil {
		markSpanError(span, err)
		return bitable.SearchResult{}, fmt.Errorf("search %s records match_id=%s: %w", table.Role, game.FormatValue(matchID), err)
	}
	return out, nil
}

// SyncGame submits the player, team and detail sets of one game in parallel.
// Empty sets are skipped.
func (s *SyncService) SyncGame(ctx context.Context, records game.Records) (GameSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncGame")
	defer span.End()

	fieldsByRole := bitable.RecordFields(records)
	report := GameSyncReport{
		MatchID:        records.MatchID,
		MatchTimestamp: records.MatchTimestamp,
		Tables:         make([]TableSyncResult, len(bitable.AllRoles)),
	}

	pool, err := ants.NewPool(len(bitable.AllRoles))
	if err != nil {
		return GameSyncReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, role := range bitable.AllRoles {
		i, role := i, role
		fields := fieldsByRole[role]
		report.Tables[i] = TableSyncResult{Role: role, Status: TableSyncSkipped}
		if table, tableErr := s.tables.ByRole(role); tableErr == nil {
			report.Tables[i].TableID = table.ID
		}
		if len(fields) == 0 {
			continue
		}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			var catcher panics.Catcher
			catcher.Try(func() {
				report.Tables[i] = s.syncTable(ctx, role, fields)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				s.logger.ErrorContext(ctx, "table sync panicked", "role", role, "panic", recovered.Value)
				report.Tables[i] = TableSyncResult{Role: role, TableID: report.Tables[i].TableID, Status: TableSyncFailed, Err: recovered.AsError()}
			}
		}); err != nil {
			workers.Done()
			report.Tables[i] = TableSyncResult{Role: role, Status: TableSyncFailed, Err: fmt.Errorf("schedule %s sync: %w", role, err)}
		}
	}
	workers.Wait()

	if !report.Succeeded() {
		s.logger.WarnContext(ctx, "game sync finished with failures", "match_id", game.FormatValue(records.MatchID))
	}
	return report, nil
}

func (s *SyncService) syncTable(ctx context.Context, role bitable.TableRole, fields []bitable.Fields) TableSyncResult {
	out := TableSyncResult{Role: role}

	result, err := s.Submit(ctx, role, fields)
	out.TableID = result.Table.ID
	switch {
	case err == nil:
		out.Status = TableSyncInserted
		out.Inserted = len(result.Created.Records)
		if out.Inserted == 0 {
			out.Inserted = len(fields)
		}
		out.Raw = result.Created.Raw
	case isDuplicate(err):
		out.Status = TableSyncDuplicate
		out.Err = err
	default:
		out.Status = TableSyncFailed
		out.Err = err
		s.logger.ErrorContext(ctx, "table sync failed", "table", role, "error", err)
	}
	return out
}
