package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type mockScheduleRepo struct {
	schedules []models.ClassSchedule
	byID      *models.ClassSchedule
	createErr error
	updateErr error
	deleted   bool

	created *models.ClassSchedule
	updated *models.ClassSchedule
}

func (m *mockScheduleRepo) List(ctx context.Context) ([]models.ClassSchedule, error) {
	return m.schedules, nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id int64) (*models.ClassSchedule, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	clone := *m.byID
	return &clone, nil
}

func (m *mockScheduleRepo) Create(ctx context.Context, schedule *models.ClassSchedule) error {
	if m.createErr != nil {
		return m.createErr
	}
	schedule.ID = 21
	m.created = schedule
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, schedule *models.ClassSchedule) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = schedule
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleted, nil
}

type mockSessionRepo struct {
	sessions  []models.ClassSession
	createErr error
	created   *models.ClassSession
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.ClassSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	session.ID = 31
	m.created = session
	return nil
}

func (m *mockSessionRepo) ListBySchedule(ctx context.Context, classScheduleID int64) ([]models.ClassSession, error) {
	return m.sessions, nil
}

type mockVenueReader struct {
	venue  *models.Venue
	exists bool
}

func (m *mockVenueReader) FindByID(ctx context.Context, id int64) (*models.Venue, error) {
	if m.venue == nil {
		return nil, sql.ErrNoRows
	}
	return m.venue, nil
}

func (m *mockVenueReader) Exists(ctx context.Context, id int64) (bool, error) {
	return m.exists, nil
}

type mockNotificationWriter struct {
	createErr error
	created   []*models.Notification
}

func (m *mockNotificationWriter) Create(ctx context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, n)
	return nil
}

type missingReader struct{}

func (missingReader) FindByID(ctx context.Context, id int64) (*models.Term, error) {
	return nil, sql.ErrNoRows
}

type missingGroupReader struct{}

func (missingGroupReader) FindByID(ctx context.Context, id int64) (*models.TermGroup, error) {
	return nil, sql.ErrNoRows
}

type missingPlanGroupReader struct{}

func (missingPlanGroupReader) FindByID(ctx context.Context, id int64) (*models.SessionPlanGroup, error) {
	return nil, sql.ErrNoRows
}

func emptyAssembler() *ViewAssembler {
	resolver := NewLevelsResolver(&mockExerciseReader{}, zap.NewNop())
	return NewViewAssembler(missingReader{}, missingGroupReader{}, missingPlanGroupReader{}, resolver, zap.NewNop())
}

func newScheduleService(repo *mockScheduleRepo, sessions *mockSessionRepo, venues *mockVenueReader, notifications *mockNotificationWriter) *ClassScheduleService {
	return NewClassScheduleService(repo, sessions, venues, emptyAssembler(), notifications, nil, validator.New(), zap.NewNop())
}

func TestClassScheduleServiceCreate(t *testing.T) {
	repo := &mockScheduleRepo{}
	venues := &mockVenueReader{exists: true, venue: &models.Venue{ID: 3, Name: "North Hall", Address: "1 Park Way"}}
	svc := newScheduleService(repo, &mockSessionRepo{}, venues, &mockNotificationWriter{})

	view, err := svc.Create(context.Background(), CreateClassScheduleRequest{
		ClassName: "U8 Football",
		Day:       "Saturday",
		StartTime: "09:00",
		EndTime:   "10:00",
		VenueID:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), view.ID)
	require.NotNil(t, view.Venue)
	assert.Equal(t, "North Hall", view.Venue.Name)
}

func TestClassScheduleServiceCreateUnknownVenue(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, &mockSessionRepo{}, &mockVenueReader{exists: false}, &mockNotificationWriter{})

	_, err := svc.Create(context.Background(), CreateClassScheduleRequest{
		ClassName: "U8 Football",
		Day:       "Saturday",
		StartTime: "09:00",
		EndTime:   "10:00",
		VenueID:   99,
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrDependency.Code, appErr.Code)
	assert.Equal(t, "venue does not exist", appErr.Message)
}

func TestClassScheduleServiceUpdateMergesStoredFields(t *testing.T) {
	capacity := 20
	repo := &mockScheduleRepo{byID: &models.ClassSchedule{
		ID:        21,
		ClassName: "U8 Football",
		Capacity:  &capacity,
		Day:       "Saturday",
		StartTime: "09:00",
		EndTime:   "10:00",
		VenueID:   3,
	}}
	venues := &mockVenueReader{exists: true, venue: &models.Venue{ID: 3, Name: "North Hall"}}
	svc := newScheduleService(repo, &mockSessionRepo{}, venues, &mockNotificationWriter{})

	day := "Sunday"
	view, err := svc.Update(context.Background(), 21, UpdateClassScheduleRequest{Day: &day})
	require.NoError(t, err)
	assert.Equal(t, "Sunday", view.Day)
	assert.Equal(t, "U8 Football", view.ClassName)
	require.NotNil(t, repo.updated)
	assert.Equal(t, &capacity, repo.updated.Capacity)
}

func TestClassScheduleServiceCancelRecordsSessionAndNotification(t *testing.T) {
	repo := &mockScheduleRepo{byID: &models.ClassSchedule{ID: 21, ClassName: "U8 Football", Day: "Saturday", VenueID: 3}}
	sessions := &mockSessionRepo{}
	notifications := &mockNotificationWriter{}
	svc := newScheduleService(repo, sessions, &mockVenueReader{venue: &models.Venue{ID: 3}}, notifications)

	reason := "Storm warning"
	cancelledAt := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	session, err := svc.Cancel(context.Background(), 21, CancelSessionRequest{
		CancelReason:  &reason,
		CreditMembers: true,
		CancelledAt:   &cancelledAt,
		NotifyGroups:  json.RawMessage(`{"members":{"email":true}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(31), session.ID)
	assert.Equal(t, int64(21), session.ClassScheduleID)
	assert.True(t, session.CreditMembers)
	assert.Equal(t, cancelledAt, session.CancelledAt)
	assert.JSONEq(t, `{"members":{"email":true}}`, string(session.NotifyGroups))

	require.Len(t, notifications.created, 1)
	assert.Equal(t, "system", notifications.created[0].Category)
	require.NotNil(t, notifications.created[0].Description)
	assert.Contains(t, *notifications.created[0].Description, "U8 Football")
}

func TestClassScheduleServiceCancelSurvivesNotificationFailure(t *testing.T) {
	repo := &mockScheduleRepo{byID: &models.ClassSchedule{ID: 21, ClassName: "U8 Football", VenueID: 3}}
	notifications := &mockNotificationWriter{createErr: errors.New("notifications table gone")}
	svc := newScheduleService(repo, &mockSessionRepo{}, &mockVenueReader{venue: &models.Venue{ID: 3}}, notifications)

	session, err := svc.Cancel(context.Background(), 21, CancelSessionRequest{})
	require.NoError(t, err)
	assert.NotZero(t, session.ID)
}

func TestClassScheduleServiceCancelUnknownSchedule(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, &mockSessionRepo{}, &mockVenueReader{}, &mockNotificationWriter{})

	_, err := svc.Cancel(context.Background(), 404, CancelSessionRequest{})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestClassScheduleServiceListCancelled(t *testing.T) {
	reason := "Flooded pitch"
	repo := &mockScheduleRepo{byID: &models.ClassSchedule{ID: 21, ClassName: "U8 Football", VenueID: 3}}
	sessions := &mockSessionRepo{sessions: []models.ClassSession{{
		ID:              31,
		ClassScheduleID: 21,
		CancelReason:    &reason,
		CancelledAt:     time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC),
		NotifyGroups:    []byte(`{"members":{"sms":false}}`),
	}}}
	venues := &mockVenueReader{venue: &models.Venue{ID: 3, Name: "North Hall", Address: "1 Park Way"}}
	svc := newScheduleService(repo, sessions, venues, &mockNotificationWriter{})

	views, err := svc.ListCancelled(context.Background(), 21)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "2026-03-07T09:00:00Z", views[0].CancelledAt)
	assert.Equal(t, &reason, views[0].CancelReason)
	require.NotNil(t, views[0].ClassSchedule)
	assert.Equal(t, "U8 Football", views[0].ClassSchedule.ClassName)
	require.NotNil(t, views[0].ClassSchedule.Venue)
	assert.Equal(t, "North Hall", views[0].ClassSchedule.Venue.Name)

	parsed, ok := views[0].NotifyGroups.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, parsed, "members")
}

func TestClassScheduleServiceAssembleToleratesMissingVenue(t *testing.T) {
	repo := &mockScheduleRepo{byID: &models.ClassSchedule{ID: 21, ClassName: "U8 Football", VenueID: 3}}
	svc := newScheduleService(repo, &mockSessionRepo{}, &mockVenueReader{}, &mockNotificationWriter{})

	view, err := svc.Get(context.Background(), 21)
	require.NoError(t, err)
	assert.Nil(t, view.Venue)
}
