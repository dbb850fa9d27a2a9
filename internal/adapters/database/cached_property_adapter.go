package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/providers"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/observability"
)

// CachedPropertyAdapter wraps PropertyAdapter with caching
type CachedPropertyAdapter struct {
	adapter repositories.PropertyRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
	inTx    bool
}

// NewCachedPropertyAdapter creates a new cached property adapter
func NewCachedPropertyAdapter(adapter repositories.PropertyRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.PropertyRepository {
	return &CachedPropertyAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs
const (
	propertyByIDTTL  = 5 * time.Minute
	searchResultsTTL = 2 * time.Minute
)

// Cache key generators
func propertyCacheKey(id string) string {
	return fmt.Sprintf("property:%s", id)
}

func searchCacheKey(filter repositories.SearchFilter) string {
	return fmt.Sprintf("properties:search:%s:%s", filter.City, filter.State)
}

// cachedProperty flattens a property for the cache. Details is kept as raw
// JSON and decoded back into its concrete type by kind.
type cachedProperty struct {
	ID          string               `json:"id"`
	Kind        entities.PropertyKind `json:"kind"`
	Description string               `json:"description"`
	City        string               `json:"city"`
	State       string               `json:"state"`
	AgentID     string               `json:"agent_id"`
	Details     json.RawMessage      `json:"details"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func encodeProperty(property *entities.Property) ([]byte, error) {
	details, err := json.Marshal(property.Details)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cachedProperty{
		ID:          property.ID,
		Kind:        property.Kind,
		Description: property.Description,
		City:        property.City,
		State:       property.State,
		AgentID:     property.AgentID,
		Details:     details,
		CreatedAt:   property.CreatedAt,
		UpdatedAt:   property.UpdatedAt,
	})
}

func decodeProperty(data []byte) (*entities.Property, error) {
	var cached cachedProperty
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	var details entities.PropertyDetails
	switch cached.Kind {
	case entities.KindVacationHome:
		var d entities.VacationHomeDetails
		if err := json.Unmarshal(cached.Details, &d); err != nil {
			return nil, err
		}
		details = d
	case entities.KindHouse:
		var d entities.HouseDetails
		if err := json.Unmarshal(cached.Details, &d); err != nil {
			return nil, err
		}
		details = d
	case entities.KindApartment:
		var d entities.ApartmentDetails
		if err := json.Unmarshal(cached.Details, &d); err != nil {
			return nil, err
		}
		details = d
	case entities.KindCommercialBuilding:
		var d entities.CommercialBuildingDetails
		if err := json.Unmarshal(cached.Details, &d); err != nil {
			return nil, err
		}
		details = d
	default:
		return nil, fmt.Errorf("unknown cached property kind %q", cached.Kind)
	}

	return &entities.Property{
		ID:          cached.ID,
		Kind:        cached.Kind,
		Description: cached.Description,
		City:        cached.City,
		State:       cached.State,
		AgentID:     cached.AgentID,
		Details:     details,
		CreatedAt:   cached.CreatedAt,
		UpdatedAt:   cached.UpdatedAt,
	}, nil
}

// WithTx returns a copy bound to tx. Reads inside a transaction bypass the
// cache so the workflow always sees its own writes.
func (a *CachedPropertyAdapter) WithTx(tx *sql.Tx) repositories.PropertyRepository {
	return &CachedPropertyAdapter{
		adapter: a.adapter.WithTx(tx),
		cache:   a.cache,
		metrics: a.metrics,
		inTx:    true,
	}
}

// NextID allocates identifiers straight from the database
func (a *CachedPropertyAdapter) NextID(ctx context.Context) (string, error) {
	return a.adapter.NextID(ctx)
}

// GetByID retrieves a property by ID with caching
func (a *CachedPropertyAdapter) GetByID(ctx context.Context, id string) (*entities.Property, error) {
	if a.inTx {
		return a.adapter.GetByID(ctx, id)
	}

	cacheKey := propertyCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		if property, err := decodeProperty(cached); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "property")
			return property, nil
		} else {
			log.Warn().Err(err).Str("property_id", id).Msg("failed to decode cached property")
		}
	}
	observability.RecordCacheMiss(ctx, a.metrics, "property")

	property, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := encodeProperty(property); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, propertyByIDTTL); err != nil {
				log.Warn().Err(err).Str("property_id", id).Msg("failed to cache property")
			}
		}
	}()

	return property, nil
}

// Create creates a property and invalidates search caches
func (a *CachedPropertyAdapter) Create(ctx context.Context, property *entities.Property) error {
	if err := a.adapter.Create(ctx, property); err != nil {
		return err
	}
	a.invalidate(property.ID)
	return nil
}

// Update updates a property and invalidates its caches
func (a *CachedPropertyAdapter) Update(ctx context.Context, property *entities.Property) error {
	if err := a.adapter.Update(ctx, property); err != nil {
		return err
	}
	a.invalidate(property.ID)
	return nil
}

// Delete deletes a property and invalidates its caches
func (a *CachedPropertyAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(id)
	return nil
}

// Search returns listing summaries with caching
func (a *CachedPropertyAdapter) Search(ctx context.Context, filter repositories.SearchFilter) ([]*entities.ListingSummary, error) {
	if a.inTx {
		return a.adapter.Search(ctx, filter)
	}

	cacheKey := searchCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var summaries []*entities.ListingSummary
		if err := json.Unmarshal(cached, &summaries); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "search")
			return summaries, nil
		}
		log.Warn().Err(err).Msg("failed to decode cached search results")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "search")

	summaries, err := a.adapter.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(summaries); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, searchResultsTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache search results")
			}
		}
	}()

	return summaries, nil
}

// ListByAgency always reads the database; agency dashboards need their own
// writes visible immediately after a mutation.
func (a *CachedPropertyAdapter) ListByAgency(ctx context.Context, agencyName string) ([]*entities.ListingSummary, error) {
	return a.adapter.ListByAgency(ctx, agencyName)
}

// OwnerAgentID delegates to the database; the owner check guards mutations
// and must not race a stale cache entry
func (a *CachedPropertyAdapter) OwnerAgentID(ctx context.Context, id string) (string, error) {
	return a.adapter.OwnerAgentID(ctx, id)
}

// FlipAvailability delegates to the database and invalidates the property
func (a *CachedPropertyAdapter) FlipAvailability(ctx context.Context, id string, kind entities.PropertyKind, available bool) (int64, error) {
	rowsAffected, err := a.adapter.FlipAvailability(ctx, id, kind, available)
	if err != nil {
		return 0, err
	}
	if rowsAffected > 0 {
		a.invalidate(id)
	}
	return rowsAffected, nil
}

// invalidate drops the property entry and every search result asynchronously
func (a *CachedPropertyAdapter) invalidate(id string) {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, propertyCacheKey(id)); err != nil {
			log.Warn().Err(err).Str("property_id", id).Msg("failed to invalidate property cache")
		}
		if err := a.cache.DeletePattern(bgCtx, "properties:search:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate search cache")
		}
	}()
}
