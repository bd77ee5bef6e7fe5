package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
	"github.com/Freeeeeet/jadwal_sync/internal/model"
	"github.com/Freeeeeet/jadwal_sync/internal/schedule"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fakeSource struct {
	entries []model.RawScheduleEntry
	err     error
}

func (f *fakeSource) FetchSchedule(_ context.Context, _, _ string) ([]model.RawScheduleEntry, error) {
	return f.entries, f.err
}

type createdPage struct {
	title    string
	interval model.ParsedInterval
}

type fakePages struct {
	created []createdPage
	failFor map[string]error
}

func (f *fakePages) CreatePage(_ context.Context, title string, interval model.ParsedInterval) (string, error) {
	if err := f.failFor[title]; err != nil {
		return "", err
	}
	f.created = append(f.created, createdPage{title: title, interval: interval})
	return fmt.Sprintf("page-%d", len(f.created)), nil
}

type fakeHistory struct {
	runs []*model.SyncRun
	err  error
}

func (f *fakeHistory) Create(_ context.Context, run *model.SyncRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

type fakeNotifier struct {
	results []*model.SyncResult
}

func (f *fakeNotifier) NotifySync(_ context.Context, _ string, result *model.SyncResult) error {
	f.results = append(f.results, result)
	return errors.New("telegram down")
}

func newTestService(source ScheduleSource, pages PageCreator) *SyncService {
	return NewSyncService(source, pages, schedule.NewParser(wib), zap.NewNop())
}

func threeEntries() []model.RawScheduleEntry {
	return []model.RawScheduleEntry{
		{CourseName: "Akuntansi Keuangan", Room: "G-301", ScheduleText: "Senin, 14 Jul 2025 | 14:00 - 16:30"},
		{CourseName: "Perpajakan", Room: "G-302", ScheduleText: "Selasa, 15 Jul 2025 | 08:00 09:40"},
		{CourseName: "Statistika", Room: "", ScheduleText: "16 Jul 2025 10:00 - 11:40"},
	}
}

func TestSyncService_MalformedRowDoesNotStopBatch(t *testing.T) {
	pages := &fakePages{}
	svc := newTestService(&fakeSource{entries: threeEntries()}, pages)

	result, err := svc.Sync(context.Background(), "4121210001", "rahasia")
	require.NoError(t, err)

	assert.Equal(t, []model.SyncSuccess{
		{CourseName: "Akuntansi Keuangan - G-301", ExternalID: "page-1"},
		{CourseName: "Statistika", ExternalID: "page-2"},
	}, result.Succeeded)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Perpajakan", result.Failed[0].CourseName)
	assert.Contains(t, result.Failed[0].ErrorMessage, "Selasa, 15 Jul 2025 | 08:00 09:40")

	require.Len(t, pages.created, 2)
	assert.Equal(t, "2025-07-14T14:00:00", pages.created[0].interval.StartISO())
	assert.Equal(t, "2025-07-14T16:30:00", pages.created[0].interval.EndISO())
	assert.Equal(t, "2025-07-16T11:40:00", pages.created[1].interval.EndISO())

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
}

func TestSyncService_PageErrorsAreCollected(t *testing.T) {
	pages := &fakePages{failFor: map[string]error{
		"Akuntansi Keuangan - G-301": apperrors.Upstream("Error dari Notion API: validation_error"),
	}}
	svc := newTestService(&fakeSource{entries: threeEntries()[:1]}, pages)

	result, err := svc.Sync(context.Background(), "4121210001", "rahasia")
	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	assert.Equal(t, []model.SyncFailure{
		{CourseName: "Akuntansi Keuangan", ErrorMessage: "Error dari Notion API: validation_error"},
	}, result.Failed)
}

func TestSyncService_EmptySchedule(t *testing.T) {
	svc := newTestService(&fakeSource{}, &fakePages{})

	result, err := svc.Sync(context.Background(), "4121210001", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
	assert.NotNil(t, result.Succeeded)
	assert.NotNil(t, result.Failed)
}

func TestSyncService_PortalErrorAborts(t *testing.T) {
	portalErr := apperrors.Unauthorized("Login Gagal. Periksa kembali NPM dan Password Anda.")
	pages := &fakePages{}
	svc := newTestService(&fakeSource{err: portalErr}, pages)

	result, err := svc.Sync(context.Background(), "4121210001", "salah")
	assert.Nil(t, result)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	assert.Empty(t, pages.created)
}

func TestSyncService_RequiresCredentials(t *testing.T) {
	svc := newTestService(&fakeSource{}, &fakePages{})

	_, err := svc.Sync(context.Background(), "  ", "x")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))

	_, err = svc.Sync(context.Background(), "4121210001", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))
}

func TestSyncService_RecordsHistoryAndNotifies(t *testing.T) {
	history := &fakeHistory{err: errors.New("db down")}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSource{entries: threeEntries()}, &fakePages{}).
		WithHistory(history).
		WithNotifier(notifier)

	start := time.Date(2025, 7, 14, 6, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	result, err := svc.Sync(context.Background(), "4121210001", "rahasia")
	require.NoError(t, err, "history and notifier failures must not fail the sync")

	require.Len(t, history.runs, 1)
	run := history.runs[0]
	assert.Equal(t, result.RunID, run.ID.String())
	assert.Equal(t, "4121210001", run.Identity)
	assert.Equal(t, 2, run.Succeeded)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, start, run.StartedAt)

	require.Len(t, notifier.results, 1)
	assert.Same(t, result, notifier.results[0])
}
