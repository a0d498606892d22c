package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/dto"
	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

const missingExercisesMessage = "Some sessionExerciseIds do not exist"

type exerciseReader interface {
	FindExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	FindSummariesByIDs(ctx context.Context, ids []int64) ([]models.ExerciseSummary, error)
}

// LevelsResolver parses stored levels documents and resolves the exercise IDs
// they reference. All reads of the embedded document go through here so the
// tolerant-parse rules live in one place.
type LevelsResolver struct {
	exercises exerciseReader
	logger    *zap.Logger
}

// NewLevelsResolver constructs a LevelsResolver.
func NewLevelsResolver(exercises exerciseReader, logger *zap.Logger) *LevelsResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LevelsResolver{exercises: exercises, logger: logger}
}

// Parse decodes a stored levels column. A malformed document is logged with
// the owning group's ID and degrades to an empty document so one bad row
// cannot take down a listing.
func (r *LevelsResolver) Parse(raw []byte, groupID int64) models.LevelsDocument {
	doc, err := models.ParseLevelsDocument(raw)
	if err != nil {
		r.logger.Warn("unparseable levels document",
			zap.Int64("sessionPlanGroupId", groupID),
			zap.Error(err),
		)
		return models.LevelsDocument{}
	}
	return doc
}

// Validate checks that every exercise ID referenced by the document exists.
// Dangling references are rejected with the full list of missing IDs so the
// panel can show which ones to fix.
func (r *LevelsResolver) Validate(ctx context.Context, doc models.LevelsDocument) error {
	ids := doc.ExerciseIDs()
	if len(ids) == 0 {
		return nil
	}
	found, err := r.exercises.FindExistingIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify exercise references")
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return missingExercisesError(missing)
	}
	return nil
}

// Resolve assembles the read view for one group: the parsed document plus a
// flat list of resolved exercise summaries. References that have gone
// dangling since the write simply drop out of the list; the stored document
// itself is never rewritten.
func (r *LevelsResolver) Resolve(ctx context.Context, group *models.SessionPlanGroup) (*dto.SessionPlanGroupView, error) {
	doc := r.Parse(group.Levels, group.ID)

	var exercises []models.ExerciseSummary
	if ids := doc.ExerciseIDs(); len(ids) > 0 {
		summaries, err := r.exercises.FindSummariesByIDs(ctx, ids)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve exercises")
		}
		exercises = summaries
	}
	if exercises == nil {
		exercises = []models.ExerciseSummary{}
	}

	return &dto.SessionPlanGroupView{
		ID:        group.ID,
		GroupName: group.GroupName,
		BannerURL: group.BannerURL,
		VideoURL:  group.VideoURL,
		Levels:    doc,
		Exercises: exercises,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}, nil
}

// missingExercisesError builds the dependency rejection carrying the missing
// ID list for the client.
func missingExercisesError(ids []int64) *appErrors.Error {
	return appErrors.WithDetails(appErrors.ErrDependency, missingExercisesMessage, map[string]interface{}{
		"missingIds": ids,
	})
}

func missingIDs(wanted, found []int64) []int64 {
	existing := make(map[int64]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}
	var missing []int64
	for _, id := range wanted {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
