package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/pkg/config"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
	"github.com/estatebook/estatebook/backend/pkg/retry"
	"github.com/estatebook/estatebook/backend/pkg/validate"
)

// Listing aggregates a property with its neighbourhood record
type Listing struct {
	Property      *entities.Property      `json:"property"`
	Neighbourhood *entities.Neighbourhood `json:"neighbourhood"`
}

// CatalogService handles listing lifecycle and search
type CatalogService struct {
	txRunner          repositories.TxRunner
	propertyRepo      repositories.PropertyRepository
	neighbourhoodRepo repositories.NeighbourhoodRepository
	bookingRepo       repositories.BookingRepository
	userRepo          repositories.UserRepository
	cfg               config.BookingConfig
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	txRunner repositories.TxRunner,
	propertyRepo repositories.PropertyRepository,
	neighbourhoodRepo repositories.NeighbourhoodRepository,
	bookingRepo repositories.BookingRepository,
	userRepo repositories.UserRepository,
	cfg config.BookingConfig,
) *CatalogService {
	return &CatalogService{
		txRunner:          txRunner,
		propertyRepo:      propertyRepo,
		neighbourhoodRepo: neighbourhoodRepo,
		bookingRepo:       bookingRepo,
		userRepo:          userRepo,
		cfg:               cfg,
	}
}

// CreateListing creates a property and its neighbourhood record atomically,
// allocating the next listing identifier. A concurrent allocation of the same
// identifier is retried a bounded number of times.
func (s *CatalogService) CreateListing(ctx context.Context, agentID string, property *entities.Property, neighbourhood *entities.Neighbourhood) (*Listing, error) {
	if property.Details == nil {
		return nil, apperrors.NewValidationError("property details are required")
	}
	if !property.Kind.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown property kind %q", property.Kind))
	}
	if property.Kind != property.Details.Kind() {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("property kind %q does not match details kind %q", property.Kind, property.Details.Kind()),
		)
	}
	if err := validate.Struct(property.Details); err != nil {
		return nil, err
	}
	if err := validate.Struct(neighbourhood); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetAgentByID(ctx, agentID); err != nil {
		return nil, err
	}
	property.AgentID = agentID

	allocate := func() error {
		return s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
			propertyRepo := s.propertyRepo.WithTx(tx)

			id, err := propertyRepo.NextID(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			property.ID = id
			property.CreatedAt = now
			property.UpdatedAt = now

			if err := propertyRepo.Create(ctx, property); err != nil {
				return err
			}

			neighbourhood.PropertyID = id
			neighbourhood.UpdatedAt = now
			return s.neighbourhoodRepo.WithTx(tx).Create(ctx, neighbourhood)
		})
	}

	isIDConflict := func(err error) bool {
		return apperrors.IsType(err, apperrors.ErrorTypeConflict)
	}

	if err := retry.DoIf(ctx, retry.FastConfig(s.cfg.IDAllocationRetries), isIDConflict, allocate); err != nil {
		return nil, err
	}

	log.Info().
		Str("property_id", property.ID).
		Str("kind", string(property.Kind)).
		Str("agent_id", agentID).
		Msg("listing created")

	return &Listing{Property: property, Neighbourhood: neighbourhood}, nil
}

// GetListing retrieves a property together with its neighbourhood record
func (s *CatalogService) GetListing(ctx context.Context, id string) (*Listing, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	neighbourhood, err := s.neighbourhoodRepo.GetByPropertyID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Listing{Property: property, Neighbourhood: neighbourhood}, nil
}

// UpdateListing rewrites a listing and its neighbourhood record atomically.
// The acting agent must belong to the owning agent's agency.
func (s *CatalogService) UpdateListing(ctx context.Context, agentID string, property *entities.Property, neighbourhood *entities.Neighbourhood) (*Listing, error) {
	if property.Details == nil {
		return nil, apperrors.NewValidationError("property details are required")
	}
	if err := validate.Struct(property.Details); err != nil {
		return nil, err
	}
	if err := validate.Struct(neighbourhood); err != nil {
		return nil, err
	}

	if err := s.authorizeAgent(ctx, agentID, property.ID); err != nil {
		return nil, err
	}

	err := s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.propertyRepo.WithTx(tx).Update(ctx, property); err != nil {
			return err
		}
		neighbourhood.PropertyID = property.ID
		return s.neighbourhoodRepo.WithTx(tx).Update(ctx, neighbourhood)
	})
	if err != nil {
		return nil, err
	}

	return &Listing{Property: property, Neighbourhood: neighbourhood}, nil
}

// DeleteListing removes a listing, its details record, and its neighbourhood
// record atomically. The acting agent must belong to the owning agent's
// agency. Bookings referencing the listing are left in place.
func (s *CatalogService) DeleteListing(ctx context.Context, agentID, id string) error {
	if err := s.authorizeAgent(ctx, agentID, id); err != nil {
		return err
	}

	count, err := s.bookingRepo.CountByProperty(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Warn().
			Str("property_id", id).
			Int64("bookings", count).
			Msg("deleting listing with outstanding bookings")
	}

	err = s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.neighbourhoodRepo.WithTx(tx).DeleteByPropertyID(ctx, id); err != nil {
			return err
		}
		return s.propertyRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info().Str("property_id", id).Str("agent_id", agentID).Msg("listing deleted")
	return nil
}

// Search returns listing summaries matching the filter
func (s *CatalogService) Search(ctx context.Context, filter repositories.SearchFilter) ([]*entities.ListingSummary, error) {
	return s.propertyRepo.Search(ctx, filter)
}

// ListAgencyListings returns every listing owned by the acting agent's agency
func (s *CatalogService) ListAgencyListings(ctx context.Context, agentID string) ([]*entities.ListingSummary, error) {
	agent, err := s.userRepo.GetAgentByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return s.propertyRepo.ListByAgency(ctx, agent.AgencyName)
}

// authorizeAgent verifies that the acting agent belongs to the same agency
// as the agent owning the property
func (s *CatalogService) authorizeAgent(ctx context.Context, agentID, propertyID string) error {
	ownerID, err := s.propertyRepo.OwnerAgentID(ctx, propertyID)
	if err != nil {
		return err
	}
	if ownerID == agentID {
		return nil
	}

	owner, err := s.userRepo.GetAgentByID(ctx, ownerID)
	if err != nil {
		return err
	}
	actor, err := s.userRepo.GetAgentByID(ctx, agentID)
	if err != nil {
		return err
	}
	if owner.AgencyName != actor.AgencyName {
		return apperrors.NewForbiddenError(
			fmt.Sprintf("agent %s is not authorized to manage property %s", agentID, propertyID))
	}
	return nil
}
