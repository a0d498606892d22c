package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/jobs"
	"github.com/synco-dev/booking-admin-api/pkg/storage"
)

type mockExportStorage struct {
	dir   string
	saved map[string][]byte
}

func newMockExportStorage(t *testing.T) *mockExportStorage {
	t.Helper()
	return &mockExportStorage{dir: t.TempDir(), saved: map[string][]byte{}}
}

func (m *mockExportStorage) Save(filename string, data []byte) (string, error) {
	m.saved[filename] = data
	path := filepath.Join(m.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

func (m *mockExportStorage) Open(filename string) (*os.File, error) {
	return os.Open(filepath.Join(m.dir, filename))
}

func (m *mockExportStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	return nil, nil
}

type stubVenueLister struct{ venues []models.Venue }

func (s stubVenueLister) List(ctx context.Context) ([]models.Venue, error) { return s.venues, nil }

type stubScheduleLister struct{}

func (stubScheduleLister) List(ctx context.Context) ([]models.ClassSchedule, error) { return nil, nil }

type stubDiscountLister struct{}

func (stubDiscountLister) List(ctx context.Context) ([]models.Discount, error) { return nil, nil }

type stubAdminLister struct{}

func (stubAdminLister) List(ctx context.Context) ([]models.Admin, error) { return nil, nil }

type recordingEnqueuer struct {
	jobs       []jobs.Job
	enqueueErr error
}

func (r *recordingEnqueuer) Enqueue(job jobs.Job) error {
	if r.enqueueErr != nil {
		return r.enqueueErr
	}
	r.jobs = append(r.jobs, job)
	return nil
}

func newExportService(t *testing.T, files *mockExportStorage) *ExportService {
	t.Helper()
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(
		stubVenueLister{venues: []models.Venue{{ID: 1, Area: "North", Name: "North Hall", Address: "1 Park Way", Facility: models.FacilityIndoor}}},
		stubScheduleLister{}, stubDiscountLister{}, stubAdminLister{},
		files, signer, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop(),
	)
}

func TestExportServiceInlineCSVExport(t *testing.T) {
	files := newMockExportStorage(t)
	svc := newExportService(t, files)

	job, err := svc.Request(context.Background(), ExportRequest{Type: ExportTypeVenues, Format: ExportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, job.Status)
	assert.True(t, strings.HasPrefix(job.DownloadURL, "/api/v1/exports/download/"))
	require.NotNil(t, job.ExpiresAt)
	require.NotNil(t, job.CompletedAt)

	require.Len(t, files.saved, 1)
	for name, payload := range files.saved {
		assert.True(t, strings.HasSuffix(name, ".csv"))
		assert.Contains(t, string(payload), "North Hall")
	}
}

func TestExportServiceOpenWithSignedToken(t *testing.T) {
	files := newMockExportStorage(t)
	svc := newExportService(t, files)

	job, err := svc.Request(context.Background(), ExportRequest{Type: ExportTypeVenues, Format: ExportFormatCSV})
	require.NoError(t, err)

	token := job.DownloadURL[strings.LastIndex(job.DownloadURL, "/")+1:]
	file, err := svc.Open(token)
	require.NoError(t, err)
	defer file.Close()
	assert.True(t, strings.HasSuffix(file.Name(), ".csv"))
}

func TestExportServiceOpenRejectsBadToken(t *testing.T) {
	svc := newExportService(t, newMockExportStorage(t))

	_, err := svc.Open("not-a-token")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestExportServiceUnsupportedTypeFailsJob(t *testing.T) {
	svc := newExportService(t, newMockExportStorage(t))

	job, err := svc.Request(context.Background(), ExportRequest{Type: "bookings", Format: ExportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, ExportStatusFailed, job.Status)
	assert.NotEmpty(t, job.Error)
}

func TestExportServiceQueuedRequestStaysQueued(t *testing.T) {
	svc := newExportService(t, newMockExportStorage(t))
	queue := &recordingEnqueuer{}
	svc.SetQueue(queue)

	job, err := svc.Request(context.Background(), ExportRequest{Type: ExportTypeVenues, Format: ExportFormatPDF})
	require.NoError(t, err)
	assert.Equal(t, ExportStatusQueued, job.Status)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, job.ID, queue.jobs[0].ID)
	assert.Equal(t, "export", queue.jobs[0].Type)

	// Running the handler entry point finishes the job.
	req, ok := queue.jobs[0].Payload.(ExportRequest)
	require.True(t, ok)
	svc.Process(context.Background(), job.ID, req)

	done, err := svc.Status(job.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, done.Status)
}

func TestExportServiceStatusUnknownJob(t *testing.T) {
	svc := newExportService(t, newMockExportStorage(t))

	_, err := svc.Status("missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
