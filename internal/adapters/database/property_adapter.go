package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

// listingIDWidth is the zero-padded width of property identifiers
const listingIDWidth = 10

// uniqueViolation is the Postgres error code raised on a primary key race
const uniqueViolation = "23505"

// PropertyAdapter implements the PropertyRepository interface over the base
// properties table and the four per-kind details tables.
type PropertyAdapter struct {
	exec Executor
}

// NewPropertyAdapter creates a new property adapter
func NewPropertyAdapter(client *postgres.Client) repositories.PropertyRepository {
	return &PropertyAdapter{exec: client.DB()}
}

// WithTx returns a copy of the adapter bound to tx
func (a *PropertyAdapter) WithTx(tx *sql.Tx) repositories.PropertyRepository {
	return &PropertyAdapter{exec: tx}
}

// detailsTable resolves the storage table for a kind. The switch is the only
// place a kind meets a table name; an unknown kind can never reach a query.
func detailsTable(kind entities.PropertyKind) (string, error) {
	switch kind {
	case entities.KindVacationHome:
		return "vacation_homes", nil
	case entities.KindHouse:
		return "houses", nil
	case entities.KindApartment:
		return "apartments", nil
	case entities.KindCommercialBuilding:
		return "commercial_buildings", nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unknown property kind %q", kind))
}

// NextID returns the next free listing identifier
func (a *PropertyAdapter) NextID(ctx context.Context) (string, error) {
	query, args, err := dialect.From("properties").
		Select(goqu.L("COALESCE(MAX(CAST(id AS BIGINT)), 0)")).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build id query", err)
	}

	var max int64
	if err := a.exec.QueryRowContext(ctx, query, args...).Scan(&max); err != nil {
		return "", apperrors.NewInternalError("failed to read max listing id", err)
	}
	return fmt.Sprintf("%0*d", listingIDWidth, max+1), nil
}

// Create inserts the base property row and its details row
func (a *PropertyAdapter) Create(ctx context.Context, property *entities.Property) error {
	if property.Details == nil {
		return apperrors.NewValidationError("property details are required")
	}
	if property.Kind != property.Details.Kind() {
		return apperrors.NewValidationError(
			fmt.Sprintf("property kind %q does not match details kind %q", property.Kind, property.Details.Kind()),
		)
	}

	record := goqu.Record{
		"id":          property.ID,
		"kind":        property.Kind,
		"description": property.Description,
		"city":        property.City,
		"state":       property.State,
		"agent_id":    property.AgentID,
		"created_at":  property.CreatedAt,
		"updated_at":  property.UpdatedAt,
	}

	query, args, err := dialect.Insert("properties").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return apperrors.NewConflictError(fmt.Sprintf("listing id %s already allocated", property.ID))
		}
		return apperrors.NewInternalError("failed to create property", err)
	}

	table, detailsRecord, err := detailsRow(property.ID, property.Details)
	if err != nil {
		return err
	}

	query, args, err = dialect.Insert(table).Rows(detailsRecord).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build details insert query", err)
	}
	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create property details", err)
	}

	return nil
}

// detailsRow maps a details variant onto its table and column values
func detailsRow(id string, details entities.PropertyDetails) (string, goqu.Record, error) {
	switch d := details.(type) {
	case entities.VacationHomeDetails:
		return "vacation_homes", residentialRecord(id, d.ResidentialUnit), nil
	case entities.HouseDetails:
		return "houses", residentialRecord(id, d.ResidentialUnit), nil
	case entities.ApartmentDetails:
		record := residentialRecord(id, d.ResidentialUnit)
		record["building_type"] = d.BuildingType
		return "apartments", record, nil
	case entities.CommercialBuildingDetails:
		return "commercial_buildings", goqu.Record{
			"id":            id,
			"address":       d.Address,
			"business_type": d.BusinessType,
			"area_sqft":     d.AreaSqFt,
			"price":         d.Price,
			"available":     d.Available,
		}, nil
	}
	return "", nil, apperrors.NewValidationError(fmt.Sprintf("unknown property details type %T", details))
}

func residentialRecord(id string, unit entities.ResidentialUnit) goqu.Record {
	return goqu.Record{
		"id":        id,
		"rooms":     unit.Rooms,
		"address":   unit.Address,
		"area_sqft": unit.AreaSqFt,
		"price":     unit.Price,
		"available": unit.Available,
	}
}

// GetByID retrieves a property together with its details record
func (a *PropertyAdapter) GetByID(ctx context.Context, id string) (*entities.Property, error) {
	query, args, err := dialect.From("properties").
		Select("id", "kind", "description", "city", "state", "agent_id", "created_at", "updated_at").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	property := &entities.Property{}
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(
		&property.ID,
		&property.Kind,
		&property.Description,
		&property.City,
		&property.State,
		&property.AgentID,
		&property.CreatedAt,
		&property.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("property %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get property", err)
	}

	details, err := a.getDetails(ctx, id, property.Kind)
	if err != nil {
		return nil, err
	}
	property.Details = details

	return property, nil
}

func (a *PropertyAdapter) getDetails(ctx context.Context, id string, kind entities.PropertyKind) (entities.PropertyDetails, error) {
	table, err := detailsTable(kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case entities.KindVacationHome, entities.KindHouse:
		query, args, err := dialect.From(table).
			Select("rooms", "address", "area_sqft", "price", "available").
			Where(goqu.Ex{"id": id}).
			ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build details query", err)
		}

		var unit entities.ResidentialUnit
		err = a.exec.QueryRowContext(ctx, query, args...).
			Scan(&unit.Rooms, &unit.Address, &unit.AreaSqFt, &unit.Price, &unit.Available)
		if err == sql.ErrNoRows {
			return nil, apperrors.NewInternalError(
				fmt.Sprintf("property %s is missing its %s record", id, table), nil)
		}
		if err != nil {
			return nil, apperrors.NewInternalError("failed to get property details", err)
		}
		if kind == entities.KindVacationHome {
			return entities.VacationHomeDetails{ResidentialUnit: unit}, nil
		}
		return entities.HouseDetails{ResidentialUnit: unit}, nil

	case entities.KindApartment:
		query, args, err := dialect.From(table).
			Select("rooms", "address", "area_sqft", "price", "available", "building_type").
			Where(goqu.Ex{"id": id}).
			ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build details query", err)
		}

		var details entities.ApartmentDetails
		err = a.exec.QueryRowContext(ctx, query, args...).Scan(
			&details.Rooms, &details.Address, &details.AreaSqFt,
			&details.Price, &details.Available, &details.BuildingType,
		)
		if err == sql.ErrNoRows {
			return nil, apperrors.NewInternalError(
				fmt.Sprintf("property %s is missing its apartments record", id), nil)
		}
		if err != nil {
			return nil, apperrors.NewInternalError("failed to get property details", err)
		}
		return details, nil

	default: // entities.KindCommercialBuilding, detailsTable already rejected the rest
		query, args, err := dialect.From(table).
			Select("address", "business_type", "area_sqft", "price", "available").
			Where(goqu.Ex{"id": id}).
			ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build details query", err)
		}

		var details entities.CommercialBuildingDetails
		err = a.exec.QueryRowContext(ctx, query, args...).Scan(
			&details.Address, &details.BusinessType, &details.AreaSqFt,
			&details.Price, &details.Available,
		)
		if err == sql.ErrNoRows {
			return nil, apperrors.NewInternalError(
				fmt.Sprintf("property %s is missing its commercial_buildings record", id), nil)
		}
		if err != nil {
			return nil, apperrors.NewInternalError("failed to get property details", err)
		}
		return details, nil
	}
}

// Update rewrites the base row and the details row of an existing property
func (a *PropertyAdapter) Update(ctx context.Context, property *entities.Property) error {
	if property.Details == nil {
		return apperrors.NewValidationError("property details are required")
	}
	if property.Kind != property.Details.Kind() {
		return apperrors.NewValidationError(
			fmt.Sprintf("property kind %q does not match details kind %q", property.Kind, property.Details.Kind()),
		)
	}

	property.UpdatedAt = time.Now()

	query, args, err := dialect.Update("properties").
		Set(goqu.Record{
			"description": property.Description,
			"city":        property.City,
			"state":       property.State,
			"updated_at":  property.UpdatedAt,
		}).
		Where(goqu.Ex{"id": property.ID, "kind": property.Kind}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update property", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("property %s not found", property.ID))
	}

	table, detailsRecord, err := detailsRow(property.ID, property.Details)
	if err != nil {
		return err
	}
	delete(detailsRecord, "id")

	query, args, err = dialect.Update(table).
		Set(detailsRecord).
		Where(goqu.Ex{"id": property.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build details update query", err)
	}
	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update property details", err)
	}

	return nil
}

// Delete removes the details row and then the base row
func (a *PropertyAdapter) Delete(ctx context.Context, id string) error {
	var kind entities.PropertyKind
	query, args, err := dialect.From("properties").
		Select("kind").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(&kind)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("property %s not found", id))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to get property kind", err)
	}

	table, err := detailsTable(kind)
	if err != nil {
		return err
	}

	query, args, err = dialect.Delete(table).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build details delete query", err)
	}
	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete property details", err)
	}

	query, args, err = dialect.Delete("properties").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete property", err)
	}

	return nil
}

// summarySelect joins the base table with all four details tables and the
// owning agent's user record; COALESCE picks the one details row that exists.
func summarySelect() *goqu.SelectDataset {
	return dialect.From(goqu.T("properties").As("p")).
		Select(
			goqu.I("p.id"),
			goqu.I("p.kind"),
			goqu.I("p.description"),
			goqu.I("p.city"),
			goqu.I("p.state"),
			goqu.L("COALESCE(v.price, h.price, ap.price, c.price)").As("price"),
			goqu.L("COALESCE(v.available, h.available, ap.available, c.available)").As("available"),
			goqu.I("p.agent_id"),
			goqu.I("u.name").As("agent_name"),
		).
		LeftJoin(goqu.T("vacation_homes").As("v"), goqu.On(goqu.I("v.id").Eq(goqu.I("p.id")))).
		LeftJoin(goqu.T("houses").As("h"), goqu.On(goqu.I("h.id").Eq(goqu.I("p.id")))).
		LeftJoin(goqu.T("apartments").As("ap"), goqu.On(goqu.I("ap.id").Eq(goqu.I("p.id")))).
		LeftJoin(goqu.T("commercial_buildings").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("p.id")))).
		InnerJoin(goqu.T("agents").As("ag"), goqu.On(goqu.I("ag.id").Eq(goqu.I("p.agent_id")))).
		InnerJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.email").Eq(goqu.I("ag.email")))).
		Order(goqu.I("p.id").Asc())
}

// Search returns listing summaries matching the filter
func (a *PropertyAdapter) Search(ctx context.Context, filter repositories.SearchFilter) ([]*entities.ListingSummary, error) {
	ds := summarySelect()
	if filter.City != "" {
		ds = ds.Where(goqu.I("p.city").ILike("%" + filter.City + "%"))
	}
	if filter.State != "" {
		ds = ds.Where(goqu.I("p.state").ILike("%" + filter.State + "%"))
	}

	return a.querySummaries(ctx, ds)
}

// ListByAgency returns listing summaries owned by any agent of the agency
func (a *PropertyAdapter) ListByAgency(ctx context.Context, agencyName string) ([]*entities.ListingSummary, error) {
	ds := summarySelect().Where(goqu.I("ag.agency_name").Eq(agencyName))
	return a.querySummaries(ctx, ds)
}

func (a *PropertyAdapter) querySummaries(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.ListingSummary, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	rows, err := a.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search listings", err)
	}
	defer rows.Close()

	var summaries []*entities.ListingSummary
	for rows.Next() {
		summary := &entities.ListingSummary{}
		var price sql.NullFloat64
		var available sql.NullBool

		err := rows.Scan(
			&summary.ID,
			&summary.Kind,
			&summary.Description,
			&summary.City,
			&summary.State,
			&price,
			&available,
			&summary.AgentID,
			&summary.AgentName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing summary", err)
		}

		summary.Price = price.Float64
		summary.Available = available.Bool
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate listings", err)
	}

	return summaries, nil
}

// OwnerAgentID returns the id of the agent owning the property
func (a *PropertyAdapter) OwnerAgentID(ctx context.Context, id string) (string, error) {
	query, args, err := dialect.From("properties").
		Select("agent_id").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build query", err)
	}

	var agentID string
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(&agentID)
	if err == sql.ErrNoRows {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("property %s not found", id))
	}
	if err != nil {
		return "", apperrors.NewInternalError("failed to get property owner", err)
	}
	return agentID, nil
}

// FlipAvailability sets the availability flag guarded on its current value
func (a *PropertyAdapter) FlipAvailability(ctx context.Context, id string, kind entities.PropertyKind, available bool) (int64, error) {
	table, err := detailsTable(kind)
	if err != nil {
		return 0, err
	}

	query, args, err := dialect.Update(table).
		Set(goqu.Record{"available": available}).
		Where(goqu.Ex{"id": id, "available": !available}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build availability update", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to update availability", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get rows affected", err)
	}
	return rowsAffected, nil
}
