package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/export"
	"github.com/synco-dev/booking-admin-api/pkg/jobs"
	"github.com/synco-dev/booking-admin-api/pkg/storage"
)

// Export formats and types accepted by the export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"

	ExportTypeVenues    = "venues"
	ExportTypeSchedules = "class-schedules"
	ExportTypeDiscounts = "discounts"
	ExportTypeAdmins    = "admins"
)

// Export job states.
const (
	ExportStatusQueued    = "queued"
	ExportStatusRunning   = "running"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

type exportVenueReader interface {
	List(ctx context.Context) ([]models.Venue, error)
}

type exportScheduleReader interface {
	List(ctx context.Context) ([]models.ClassSchedule, error)
}

type exportDiscountReader interface {
	List(ctx context.Context) ([]models.Discount, error)
}

type exportAdminReader interface {
	List(ctx context.Context) ([]models.Admin, error)
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(d export.Dataset) ([]byte, error)
}

type exportEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportRequest asks for one dataset in one format.
type ExportRequest struct {
	Type   string `json:"type" validate:"required,oneof=venues class-schedules discounts admins"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJob tracks one requested export through its lifecycle.
type ExportJob struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	RequestedAt time.Time  `json:"requestedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	relPath string
}

// ExportService builds datasets, renders them to files and hands out signed
// download links. Generation runs on the background queue; Request returns
// immediately with a job the caller can poll.
type ExportService struct {
	venues    exportVenueReader
	schedules exportScheduleReader
	discounts exportDiscountReader
	admins    exportAdminReader
	storage   exportFileStorage
	csv       datasetRenderer
	pdf       datasetRenderer
	signer    *storage.SignedURLSigner
	queue     exportEnqueuer
	logger    *zap.Logger
	cfg       ExportConfig

	mu   sync.RWMutex
	jobs map[string]*ExportJob
}

// NewExportService constructs an ExportService.
func NewExportService(venues exportVenueReader, schedules exportScheduleReader, discounts exportDiscountReader, admins exportAdminReader, files exportFileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		venues:    venues,
		schedules: schedules,
		discounts: discounts,
		admins:    admins,
		storage:   files,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
		jobs:      make(map[string]*ExportJob),
	}
}

// SetQueue attaches the background queue. Without one, Request runs the
// generation inline.
func (s *ExportService) SetQueue(queue exportEnqueuer) {
	s.queue = queue
}

// Request registers a new export job and queues its generation.
func (s *ExportService) Request(ctx context.Context, req ExportRequest) (*ExportJob, error) {
	job := &ExportJob{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Format:      req.Format,
		Status:      ExportStatusQueued,
		RequestedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if s.queue != nil {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "export", Payload: req}); err != nil {
			s.markFailed(job.ID, err)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
		}
		return s.Status(job.ID)
	}

	s.Process(ctx, job.ID, req)
	return s.Status(job.ID)
}

// Process runs the generation for a registered job. It is the queue handler's
// entry point.
func (s *ExportService) Process(ctx context.Context, jobID string, req ExportRequest) {
	s.setStatus(jobID, ExportStatusRunning)

	dataset, err := s.buildDataset(ctx, req.Type)
	if err != nil {
		s.markFailed(jobID, err)
		return
	}

	var payload []byte
	switch req.Format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", req.Format)
	}
	if err != nil {
		s.markFailed(jobID, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", req.Type, time.Now().UTC().Format("20060102_150405"), req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.markFailed(jobID, err)
		return
	}

	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		s.markFailed(jobID, err)
		return
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = ExportStatusCompleted
		job.DownloadURL = fmt.Sprintf("%s/exports/download/%s", prefix, token)
		job.ExpiresAt = &expiresAt
		job.CompletedAt = &now
		job.relPath = relPath
	}
	s.mu.Unlock()
}

// Status returns a snapshot of a job.
func (s *ExportService) Status(jobID string) (*ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	snapshot := *job
	return &snapshot, nil
}

// Open validates a download token and returns the stored file.
func (s *ExportService) Open(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, nil
}

// Cleanup removes rendered files older than the result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ExportService) buildDataset(ctx context.Context, exportType string) (export.Dataset, error) {
	switch exportType {
	case ExportTypeVenues:
		return s.buildVenueDataset(ctx)
	case ExportTypeSchedules:
		return s.buildScheduleDataset(ctx)
	case ExportTypeDiscounts:
		return s.buildDiscountDataset(ctx)
	case ExportTypeAdmins:
		return s.buildAdminDataset(ctx)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported export type %s", exportType)
	}
}

func (s *ExportService) buildVenueDataset(ctx context.Context) (export.Dataset, error) {
	venues, err := s.venues.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(venues))
	for _, v := range venues {
		rows = append(rows, []string{
			fmt.Sprintf("%d", v.ID), v.Area, v.Name, v.Address, v.Facility,
		})
	}
	return export.Dataset{
		Title:   "Venues",
		Columns: []string{"ID", "Area", "Name", "Address", "Facility"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) buildScheduleDataset(ctx context.Context) (export.Dataset, error) {
	schedules, err := s.schedules.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(schedules))
	for _, c := range schedules {
		capacity := ""
		if c.Capacity != nil {
			capacity = fmt.Sprintf("%d", *c.Capacity)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.ID), c.ClassName, c.Day, c.StartTime, c.EndTime,
			capacity, fmt.Sprintf("%d", c.VenueID), fmt.Sprintf("%t", c.AllowFreeTrial),
		})
	}
	return export.Dataset{
		Title:   "Class Schedules",
		Columns: []string{"ID", "Class", "Day", "Start", "End", "Capacity", "Venue ID", "Free Trial"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) buildDiscountDataset(ctx context.Context) (export.Dataset, error) {
	discounts, err := s.discounts.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(discounts))
	for _, d := range discounts {
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.ID), d.Code, d.Type, d.ValueType,
			fmt.Sprintf("%.2f", d.Value),
			d.StartDatetime.UTC().Format(time.RFC3339),
			d.EndDatetime.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{
		Title:   "Discounts",
		Columns: []string{"ID", "Code", "Type", "Value Type", "Value", "Starts", "Ends"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) buildAdminDataset(ctx context.Context) (export.Dataset, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(admins))
	for _, a := range admins {
		lastLogin := ""
		if a.LastLoginAt != nil {
			lastLogin = a.LastLoginAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID), a.FirstName, a.Email, a.Status, lastLogin,
		})
	}
	return export.Dataset{
		Title:   "Admin Accounts",
		Columns: []string{"ID", "First Name", "Email", "Status", "Last Login"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) setStatus(jobID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
	}
}

func (s *ExportService) markFailed(jobID string, err error) {
	s.logger.Warn("export failed", zap.String("jobId", jobID), zap.Error(err))
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = ExportStatusFailed
		job.Error = err.Error()
		job.CompletedAt = &now
	}
}
