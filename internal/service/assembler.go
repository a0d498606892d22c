package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/dto"
	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type termReader interface {
	FindByID(ctx context.Context, id int64) (*models.Term, error)
}

type termGroupReader interface {
	FindByID(ctx context.Context, id int64) (*models.TermGroup, error)
}

type planGroupReader interface {
	FindByID(ctx context.Context, id int64) (*models.SessionPlanGroup, error)
}

// ViewAssembler builds the nested read shapes: venue → term → term group /
// session plan group. A dangling link anywhere in the chain degrades to a
// missing branch rather than failing the read; the broken link is logged.
type ViewAssembler struct {
	terms      termReader
	termGroups termGroupReader
	planGroups planGroupReader
	resolver   *LevelsResolver
	logger     *zap.Logger
}

// NewViewAssembler constructs a ViewAssembler.
func NewViewAssembler(terms termReader, termGroups termGroupReader, planGroups planGroupReader, resolver *LevelsResolver, logger *zap.Logger) *ViewAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewAssembler{terms: terms, termGroups: termGroups, planGroups: planGroups, resolver: resolver, logger: logger}
}

// VenueView assembles a venue with its full term context.
func (a *ViewAssembler) VenueView(ctx context.Context, venue *models.Venue) (*dto.VenueView, error) {
	view := &dto.VenueView{Venue: *venue}
	if venue.TermID == nil {
		return view, nil
	}

	term, err := a.terms.FindByID(ctx, *venue.TermID)
	if err != nil {
		if err == sql.ErrNoRows {
			a.logger.Warn("venue references missing term",
				zap.Int64("venueId", venue.ID),
				zap.Int64("termId", *venue.TermID),
			)
			return view, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load venue term")
	}

	termView, err := a.TermView(ctx, term)
	if err != nil {
		return nil, err
	}
	view.Term = termView
	return view, nil
}

// TermView assembles a term with its group and resolved plan group.
func (a *ViewAssembler) TermView(ctx context.Context, term *models.Term) (*dto.TermView, error) {
	view := &dto.TermView{Term: *term}

	if term.TermGroupID != nil {
		group, err := a.termGroups.FindByID(ctx, *term.TermGroupID)
		if err != nil {
			if err != sql.ErrNoRows {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term group")
			}
			a.logger.Warn("term references missing term group",
				zap.Int64("termId", term.ID),
				zap.Int64("termGroupId", *term.TermGroupID),
			)
		} else {
			view.TermGroup = group
		}
	}

	if term.SessionPlanGroupID != nil {
		planGroup, err := a.planGroups.FindByID(ctx, *term.SessionPlanGroupID)
		if err != nil {
			if err != sql.ErrNoRows {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session plan group")
			}
			a.logger.Warn("term references missing session plan group",
				zap.Int64("termId", term.ID),
				zap.Int64("sessionPlanGroupId", *term.SessionPlanGroupID),
			)
		} else {
			resolved, err := a.resolver.Resolve(ctx, planGroup)
			if err != nil {
				return nil, err
			}
			view.SessionPlanGroup = resolved
		}
	}

	return view, nil
}
