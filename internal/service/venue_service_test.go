package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type mockVenueRepo struct {
	venues  []models.Venue
	byID    *models.Venue
	deleted bool

	created *models.Venue
	updated *models.Venue
}

func (m *mockVenueRepo) List(ctx context.Context) ([]models.Venue, error) {
	return m.venues, nil
}

func (m *mockVenueRepo) FindByID(ctx context.Context, id int64) (*models.Venue, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	clone := *m.byID
	return &clone, nil
}

func (m *mockVenueRepo) Create(ctx context.Context, venue *models.Venue) error {
	venue.ID = 4
	m.created = venue
	return nil
}

func (m *mockVenueRepo) Update(ctx context.Context, venue *models.Venue) error {
	m.updated = venue
	return nil
}

func (m *mockVenueRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleted, nil
}

func newVenueService(repo *mockVenueRepo) *VenueService {
	return NewVenueService(repo, emptyAssembler(), nil, nil, zap.NewNop())
}

func TestVenueServiceCreate(t *testing.T) {
	repo := &mockVenueRepo{}
	svc := newVenueService(repo)

	view, err := svc.Create(context.Background(), CreateVenueRequest{
		Area:     "North London",
		Name:     "Market Road",
		Address:  "1 Market Rd",
		Facility: "Outdoor",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), view.ID)
	require.NotNil(t, repo.created)
	assert.Equal(t, "Market Road", repo.created.Name)
}

func TestVenueServiceCreateRejectsUnknownFacility(t *testing.T) {
	svc := newVenueService(&mockVenueRepo{})

	_, err := svc.Create(context.Background(), CreateVenueRequest{
		Area:     "North London",
		Name:     "Market Road",
		Address:  "1 Market Rd",
		Facility: "Rooftop",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestVenueServiceUpdateMergesStoredFields(t *testing.T) {
	parking := "street parking only"
	repo := &mockVenueRepo{byID: &models.Venue{
		ID:          4,
		Area:        "North London",
		Name:        "Market Road",
		Address:     "1 Market Rd",
		Facility:    "Outdoor",
		ParkingNote: &parking,
	}}
	svc := newVenueService(repo)

	name := "Market Road Pitches"
	view, err := svc.Update(context.Background(), 4, UpdateVenueRequest{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "Market Road Pitches", view.Name)
	// Fields absent from the payload keep their stored values.
	assert.Equal(t, "North London", view.Area)
	assert.Equal(t, "1 Market Rd", view.Address)
	assert.Equal(t, "Outdoor", view.Facility)
	assert.Equal(t, &parking, view.ParkingNote)
}

func TestVenueServiceUpdateNotFound(t *testing.T) {
	svc := newVenueService(&mockVenueRepo{})

	name := "Market Road"
	_, err := svc.Update(context.Background(), 404, UpdateVenueRequest{Name: &name})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestVenueServiceDelete(t *testing.T) {
	require.NoError(t, newVenueService(&mockVenueRepo{deleted: true}).Delete(context.Background(), 4))

	err := newVenueService(&mockVenueRepo{}).Delete(context.Background(), 404)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
