package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	"github.com/synco-dev/booking-admin-api/internal/repository"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type mockPlanGroupRepo struct {
	groups       []models.SessionPlanGroup
	byID         *models.SessionPlanGroup
	findErr      error
	createErr    error
	updateErr    error
	setBannerErr error
	deleted      bool
	deleteErr    error

	createdGroup      *models.SessionPlanGroup
	createdIDs        []int64
	updatedIDs        []int64
	updateCalled      bool
	recordedBannerURL string
}

func (m *mockPlanGroupRepo) List(ctx context.Context) ([]models.SessionPlanGroup, error) {
	return m.groups, nil
}

func (m *mockPlanGroupRepo) FindByID(ctx context.Context, id int64) (*models.SessionPlanGroup, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	clone := *m.byID
	return &clone, nil
}

func (m *mockPlanGroupRepo) Create(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	group.ID = 11
	m.createdGroup = group
	m.createdIDs = exerciseIDs
	return nil
}

func (m *mockPlanGroupRepo) Update(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error {
	m.updateCalled = true
	m.updatedIDs = exerciseIDs
	return m.updateErr
}

func (m *mockPlanGroupRepo) SetBannerURL(ctx context.Context, id int64, bannerURL string) error {
	if m.setBannerErr != nil {
		return m.setBannerErr
	}
	m.recordedBannerURL = bannerURL
	return nil
}

func (m *mockPlanGroupRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleted, m.deleteErr
}

type mockFileStore struct {
	saveErr   error
	deleteErr error
	saved     []string
	deleted   []string
}

func (m *mockFileStore) Save(filename string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved = append(m.saved, filename)
	return filename, nil
}

func (m *mockFileStore) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	return m.deleteErr
}

func newPlanGroupService(repo *mockPlanGroupRepo, files *mockFileStore, exercises *mockExerciseReader) *SessionPlanGroupService {
	resolver := NewLevelsResolver(exercises, zap.NewNop())
	return NewSessionPlanGroupService(repo, resolver, files, validator.New(), zap.NewNop())
}

func TestSessionPlanGroupServiceCreate(t *testing.T) {
	repo := &mockPlanGroupRepo{}
	exercises := &mockExerciseReader{summaries: []models.ExerciseSummary{{ID: 1, Title: "Dribbling"}}}
	svc := newPlanGroupService(repo, &mockFileStore{}, exercises)

	view, err := svc.Create(context.Background(), CreateSessionPlanGroupRequest{
		GroupName: "Foundations",
		Levels:    models.LevelsDocument{"Beginner": {{SessionExerciseIDs: []int64{1}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), view.ID)
	assert.Equal(t, []int64{1}, repo.createdIDs)
	require.Len(t, view.Exercises, 1)
	assert.Equal(t, "Dribbling", view.Exercises[0].Title)
}

func TestSessionPlanGroupServiceCreateMissingExercises(t *testing.T) {
	repo := &mockPlanGroupRepo{createErr: &repository.MissingExercisesError{IDs: []int64{8, 9}}}
	svc := newPlanGroupService(repo, &mockFileStore{}, &mockExerciseReader{})

	_, err := svc.Create(context.Background(), CreateSessionPlanGroupRequest{
		GroupName: "Foundations",
		Levels:    models.LevelsDocument{"Beginner": {{SessionExerciseIDs: []int64{8, 9}}}},
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrDependency.Code, appErr.Code)
	assert.Equal(t, "Some sessionExerciseIds do not exist", appErr.Message)
	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []int64{8, 9}, details["missingIds"])
}

func TestSessionPlanGroupServiceCreateRequiresName(t *testing.T) {
	svc := newPlanGroupService(&mockPlanGroupRepo{}, &mockFileStore{}, &mockExerciseReader{})

	_, err := svc.Create(context.Background(), CreateSessionPlanGroupRequest{})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSessionPlanGroupServiceUpdateMergesStoredFields(t *testing.T) {
	video := "https://cdn.example.com/intro.mp4"
	repo := &mockPlanGroupRepo{byID: &models.SessionPlanGroup{
		ID:        5,
		GroupName: "Old Name",
		VideoURL:  &video,
		Levels:    types.JSONText(`{"Beginner":[{"sessionExerciseId":[1]}]}`),
	}}
	exercises := &mockExerciseReader{summaries: []models.ExerciseSummary{{ID: 1, Title: "Dribbling"}}}
	svc := newPlanGroupService(repo, &mockFileStore{}, exercises)

	name := "New Name"
	view, err := svc.Update(context.Background(), 5, UpdateSessionPlanGroupRequest{GroupName: &name})
	require.NoError(t, err)
	assert.True(t, repo.updateCalled)
	assert.Nil(t, repo.updatedIDs)
	assert.Equal(t, "New Name", view.GroupName)
	assert.Equal(t, &video, view.VideoURL)
	assert.Equal(t, []int64{1}, view.Levels.ExerciseIDs())
}

func TestSessionPlanGroupServiceUpdateNotFound(t *testing.T) {
	svc := newPlanGroupService(&mockPlanGroupRepo{}, &mockFileStore{}, &mockExerciseReader{})

	name := "x"
	_, err := svc.Update(context.Background(), 404, UpdateSessionPlanGroupRequest{GroupName: &name})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSessionPlanGroupServiceUploadBanner(t *testing.T) {
	repo := &mockPlanGroupRepo{byID: &models.SessionPlanGroup{ID: 5, GroupName: "Foundations", Levels: types.JSONText(`{}`)}}
	files := &mockFileStore{}
	svc := newPlanGroupService(repo, files, &mockExerciseReader{})

	view, err := svc.UploadBanner(context.Background(), 5, "banner.png", []byte("img"))
	require.NoError(t, err)
	require.Len(t, files.saved, 1)
	assert.Equal(t, files.saved[0], repo.recordedBannerURL)
	require.NotNil(t, view.BannerURL)
	assert.Equal(t, files.saved[0], *view.BannerURL)
}

func TestSessionPlanGroupServiceUploadBannerCleansUpOnRecordFailure(t *testing.T) {
	repo := &mockPlanGroupRepo{
		byID:         &models.SessionPlanGroup{ID: 5, Levels: types.JSONText(`{}`)},
		setBannerErr: errors.New("db down"),
	}
	files := &mockFileStore{}
	svc := newPlanGroupService(repo, files, &mockExerciseReader{})

	_, err := svc.UploadBanner(context.Background(), 5, "banner.png", []byte("img"))
	require.Error(t, err)
	require.Len(t, files.saved, 1)
	require.Len(t, files.deleted, 1)
	assert.Equal(t, files.saved[0], files.deleted[0])
}

func TestSessionPlanGroupServiceDelete(t *testing.T) {
	svc := newPlanGroupService(&mockPlanGroupRepo{deleted: true}, &mockFileStore{}, &mockExerciseReader{})
	require.NoError(t, svc.Delete(context.Background(), 5))

	svc = newPlanGroupService(&mockPlanGroupRepo{deleted: false}, &mockFileStore{}, &mockExerciseReader{})
	err := svc.Delete(context.Background(), 5)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
