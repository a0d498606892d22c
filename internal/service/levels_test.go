package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type mockExerciseReader struct {
	existing      []int64
	summaries     []models.ExerciseSummary
	existingErr   error
	summariesErr  error
	lastQueriedID []int64
}

func (m *mockExerciseReader) FindExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	m.lastQueriedID = ids
	if m.existingErr != nil {
		return nil, m.existingErr
	}
	return m.existing, nil
}

func (m *mockExerciseReader) FindSummariesByIDs(ctx context.Context, ids []int64) ([]models.ExerciseSummary, error) {
	m.lastQueriedID = ids
	if m.summariesErr != nil {
		return nil, m.summariesErr
	}
	return m.summaries, nil
}

func TestLevelsResolverParseDegradesOnBadDocument(t *testing.T) {
	resolver := NewLevelsResolver(&mockExerciseReader{}, zap.NewNop())

	doc := resolver.Parse([]byte(`{"Beginner":`), 42)
	assert.Empty(t, doc)
}

func TestLevelsResolverValidateMissingIDs(t *testing.T) {
	reader := &mockExerciseReader{existing: []int64{1}}
	resolver := NewLevelsResolver(reader, zap.NewNop())

	doc := models.LevelsDocument{"Beginner": {{SessionExerciseIDs: []int64{1, 2, 3}}}}
	err := resolver.Validate(context.Background(), doc)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrDependency.Code, appErr.Code)
	assert.Equal(t, "Some sessionExerciseIds do not exist", appErr.Message)
	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []int64{2, 3}, details["missingIds"])
}

func TestLevelsResolverValidateAllPresent(t *testing.T) {
	reader := &mockExerciseReader{existing: []int64{1, 2}}
	resolver := NewLevelsResolver(reader, zap.NewNop())

	doc := models.LevelsDocument{"Beginner": {{SessionExerciseIDs: []int64{1, 2}}}}
	require.NoError(t, resolver.Validate(context.Background(), doc))
	assert.Equal(t, []int64{1, 2}, reader.lastQueriedID)
}

func TestLevelsResolverValidateEmptyDocumentSkipsLookup(t *testing.T) {
	reader := &mockExerciseReader{existingErr: errors.New("should not be called")}
	resolver := NewLevelsResolver(reader, zap.NewNop())

	require.NoError(t, resolver.Validate(context.Background(), models.LevelsDocument{}))
}

func TestLevelsResolverResolve(t *testing.T) {
	title := "Ball Control"
	reader := &mockExerciseReader{summaries: []models.ExerciseSummary{{ID: 5, Title: title}}}
	resolver := NewLevelsResolver(reader, zap.NewNop())

	group := &models.SessionPlanGroup{
		ID:        9,
		GroupName: "Foundations",
		Levels:    types.JSONText(`{"Beginner":[{"sessionExerciseId":[5]}]}`),
	}

	view, err := resolver.Resolve(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, int64(9), view.ID)
	assert.Equal(t, "Foundations", view.GroupName)
	require.Len(t, view.Exercises, 1)
	assert.Equal(t, title, view.Exercises[0].Title)
	assert.Equal(t, []int64{5}, view.Levels.ExerciseIDs())
}

func TestLevelsResolverResolveDanglingReferencesDropOut(t *testing.T) {
	reader := &mockExerciseReader{summaries: []models.ExerciseSummary{}}
	resolver := NewLevelsResolver(reader, zap.NewNop())

	group := &models.SessionPlanGroup{
		ID:     3,
		Levels: types.JSONText(`{"Beginner":[{"sessionExerciseId":[99]}]}`),
	}

	view, err := resolver.Resolve(context.Background(), group)
	require.NoError(t, err)
	assert.NotNil(t, view.Exercises)
	assert.Empty(t, view.Exercises)
	// The stored document keeps its reference even when resolution finds nothing.
	assert.Equal(t, []int64{99}, view.Levels.ExerciseIDs())
}

func TestLevelsResolverResolveBadDocumentStillReturnsView(t *testing.T) {
	resolver := NewLevelsResolver(&mockExerciseReader{}, zap.NewNop())

	group := &models.SessionPlanGroup{ID: 4, GroupName: "Broken", Levels: types.JSONText(`not-json`)}
	view, err := resolver.Resolve(context.Background(), group)
	require.NoError(t, err)
	assert.Empty(t, view.Levels)
	assert.Empty(t, view.Exercises)
}
