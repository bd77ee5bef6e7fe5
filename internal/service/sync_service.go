package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
	"github.com/Freeeeeet/jadwal_sync/internal/model"
	"github.com/Freeeeeet/jadwal_sync/internal/schedule"
)

// ScheduleSource returns the student's current schedule rows.
type ScheduleSource interface {
	FetchSchedule(ctx context.Context, identity, password string) ([]model.RawScheduleEntry, error)
}

// PageCreator stores one parsed class and returns its external id.
type PageCreator interface {
	CreatePage(ctx context.Context, title string, interval model.ParsedInterval) (string, error)
}

// HistoryRecorder persists run counts.
type HistoryRecorder interface {
	Create(ctx context.Context, run *model.SyncRun) error
}

// Notifier announces finished runs.
type Notifier interface {
	NotifySync(ctx context.Context, identity string, result *model.SyncResult) error
}

type SyncService struct {
	source   ScheduleSource
	pages    PageCreator
	parser   *schedule.Parser
	history  HistoryRecorder
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewSyncService(source ScheduleSource, pages PageCreator, parser *schedule.Parser, logger *zap.Logger) *SyncService {
	return &SyncService{
		source: source,
		pages:  pages,
		parser: parser,
		logger: logger,
		now:    time.Now,
	}
}

// WithHistory enables recording of run counts.
func (s *SyncService) WithHistory(h HistoryRecorder) *SyncService {
	s.history = h
	return s
}

// WithNotifier enables run summaries.
func (s *SyncService) WithNotifier(n Notifier) *SyncService {
	s.notifier = n
	return s
}

// Sync logs into the portal and pushes every scraped class to Notion.
// Portal errors abort the run; per-row errors end up in the result.
func (s *SyncService) Sync(ctx context.Context, identity, password string) (*model.SyncResult, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || password == "" {
		return nil, apperrors.InvalidArgument("identity dan password wajib diisi")
	}

	startedAt := s.now()

	entries, err := s.source.FetchSchedule(ctx, identity, password)
	if err != nil {
		s.logger.Warn("Schedule fetch failed",
			zap.String("identity", identity),
			zap.String("code", string(apperrors.CodeOf(err))),
			zap.Error(err),
		)
		return nil, err
	}

	result := s.SyncEntries(ctx, entries)

	s.logger.Info("Sync finished",
		zap.String("run_id", result.RunID),
		zap.String("identity", identity),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("took", s.now().Sub(startedAt)),
	)

	s.record(ctx, identity, startedAt, result)
	s.notify(ctx, identity, result)

	return result, nil
}

// SyncEntries processes rows one at a time, in order. A failing row never stops the batch.
func (s *SyncService) SyncEntries(ctx context.Context, entries []model.RawScheduleEntry) *model.SyncResult {
	result := &model.SyncResult{
		RunID:     uuid.NewString(),
		Succeeded: []model.SyncSuccess{},
		Failed:    []model.SyncFailure{},
	}

	for _, entry := range entries {
		pageID, err := s.syncEntry(ctx, entry)
		if err != nil {
			s.logger.Warn("Schedule row failed",
				zap.String("run_id", result.RunID),
				zap.String("course", entry.CourseName),
				zap.Bool("format_error", schedule.IsFormatError(err)),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, model.SyncFailure{
				CourseName:   entry.CourseName,
				ErrorMessage: err.Error(),
			})
			continue
		}

		result.Succeeded = append(result.Succeeded, model.SyncSuccess{
			CourseName: entry.Title(),
			ExternalID: pageID,
		})
	}

	return result
}

func (s *SyncService) syncEntry(ctx context.Context, entry model.RawScheduleEntry) (string, error) {
	interval, err := s.parser.Parse(entry.ScheduleText)
	if err != nil {
		return "", err
	}
	return s.pages.CreatePage(ctx, entry.Title(), interval)
}

func (s *SyncService) record(ctx context.Context, identity string, startedAt time.Time, result *model.SyncResult) {
	if s.history == nil {
		return
	}

	id, err := uuid.Parse(result.RunID)
	if err != nil {
		id = uuid.New()
	}

	run := &model.SyncRun{
		ID:         id,
		Identity:   identity,
		Succeeded:  len(result.Succeeded),
		Failed:     len(result.Failed),
		StartedAt:  startedAt,
		FinishedAt: s.now(),
	}
	if err := s.history.Create(ctx, run); err != nil {
		s.logger.Error("Failed to record sync run", zap.String("run_id", result.RunID), zap.Error(err))
	}
}

func (s *SyncService) notify(ctx context.Context, identity string, result *model.SyncResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifySync(ctx, identity, result); err != nil {
		s.logger.Error("Failed to send sync notification", zap.String("run_id", result.RunID), zap.Error(err))
	}
}
