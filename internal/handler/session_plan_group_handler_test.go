package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	"github.com/synco-dev/booking-admin-api/internal/repository"
	"github.com/synco-dev/booking-admin-api/internal/service"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

type planGroupRepoStub struct {
	createErr error
}

func (s *planGroupRepoStub) List(ctx context.Context) ([]models.SessionPlanGroup, error) {
	return nil, nil
}

func (s *planGroupRepoStub) FindByID(ctx context.Context, id int64) (*models.SessionPlanGroup, error) {
	return nil, nil
}

func (s *planGroupRepoStub) Create(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error {
	return s.createErr
}

func (s *planGroupRepoStub) Update(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error {
	return nil
}

func (s *planGroupRepoStub) SetBannerURL(ctx context.Context, id int64, bannerURL string) error {
	return nil
}

func (s *planGroupRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

type exerciseReaderStub struct {
	existing []int64
}

func (s *exerciseReaderStub) FindExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return s.existing, nil
}

func (s *exerciseReaderStub) FindSummariesByIDs(ctx context.Context, ids []int64) ([]models.ExerciseSummary, error) {
	return nil, nil
}

type fileStoreStub struct{}

func (fileStoreStub) Save(filename string, data []byte) (string, error) { return filename, nil }
func (fileStoreStub) Delete(filename string) error                      { return nil }

func newPlanGroupHandler(repo *planGroupRepoStub, exercises *exerciseReaderStub) *SessionPlanGroupHandler {
	resolver := service.NewLevelsResolver(exercises, zap.NewNop())
	svc := service.NewSessionPlanGroupService(repo, resolver, fileStoreStub{}, nil, zap.NewNop())
	return NewSessionPlanGroupHandler(svc)
}

func TestSessionPlanGroupHandlerCreateSurfacesMissingIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &planGroupRepoStub{createErr: &repository.MissingExercisesError{IDs: []int64{8, 9}}}
	handler := newPlanGroupHandler(repo, &exerciseReaderStub{existing: []int64{8, 9}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := []byte(`{"groupName":"Foundations","levels":{"Beginner":[{"sessionExerciseId":[8,9]}]}}`)
	req, _ := http.NewRequest(http.MethodPost, "/session-plan-groups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Status)
	assert.Equal(t, "Some sessionExerciseIds do not exist", envelope.Message)
	// The offending IDs travel through the data field so the form layer can
	// highlight them.
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{float64(8), float64(9)}, data["missingIds"])
}

func TestSessionPlanGroupHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPlanGroupHandler(&planGroupRepoStub{}, &exerciseReaderStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/session-plan-groups", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Status)
	assert.Empty(t, envelope.Data)
}
