package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

// UserAdapter implements the UserRepository interface over the users table
// and the renters/agents extension tables.
type UserAdapter struct {
	exec Executor
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{exec: client.DB()}
}

// WithTx returns a copy of the adapter bound to tx
func (a *UserAdapter) WithTx(tx *sql.Tx) repositories.UserRepository {
	return &UserAdapter{exec: tx}
}

// CreateUser inserts a base user record; an existing email is left untouched
func (a *UserAdapter) CreateUser(ctx context.Context, user *entities.User) error {
	query, args, err := dialect.Insert("users").
		Rows(goqu.Record{
			"email":      user.Email,
			"name":       user.Name,
			"address":    user.Address,
			"role":       user.Role,
			"created_at": user.CreatedAt,
			"updated_at": user.UpdatedAt,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetUserByEmail retrieves a base user record
func (a *UserAdapter) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query, args, err := dialect.From("users").
		Select("email", "name", "address", "role", "created_at", "updated_at").
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(
		&user.Email,
		&user.Name,
		&user.Address,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", email))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// UpdateContact changes a user's email and address, propagating the email
// change to the role-specific record
func (a *UserAdapter) UpdateContact(ctx context.Context, currentEmail, newEmail, newAddress string) error {
	user, err := a.GetUserByEmail(ctx, currentEmail)
	if err != nil {
		return err
	}

	query, args, err := dialect.Update("users").
		Set(goqu.Record{
			"email":      newEmail,
			"address":    newAddress,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"email": currentEmail}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update user", err)
	}

	roleTable := "renters"
	if user.Role == entities.RoleAgent {
		roleTable = "agents"
	}

	query, args, err = dialect.Update(roleTable).
		Set(goqu.Record{"email": newEmail}).
		Where(goqu.Ex{"email": currentEmail}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build role update query", err)
	}
	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update role record", err)
	}

	return nil
}

// CreateRenter inserts the renter extension record. Re-registering an email
// that already has a renter keeps the existing record and its id.
func (a *UserAdapter) CreateRenter(ctx context.Context, renter *entities.Renter) error {
	existing, err := a.GetRenterByEmail(ctx, renter.Email)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	query, args, err := dialect.Insert("renters").
		Rows(goqu.Record{
			"id":    renter.ID,
			"email": renter.Email,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create renter", err)
	}
	return nil
}

// CreateAgent inserts the agent extension record. Re-registering an email
// that already has an agent keeps the existing record and its id.
func (a *UserAdapter) CreateAgent(ctx context.Context, agent *entities.Agent) error {
	existing, err := a.GetAgentByEmail(ctx, agent.Email)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	query, args, err := dialect.Insert("agents").
		Rows(goqu.Record{
			"id":          agent.ID,
			"email":       agent.Email,
			"job_title":   agent.JobTitle,
			"agency_name": agent.AgencyName,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create agent", err)
	}
	return nil
}

// GetRenterByEmail resolves a renter from a base user email
func (a *UserAdapter) GetRenterByEmail(ctx context.Context, email string) (*entities.Renter, error) {
	query, args, err := dialect.From("renters").
		Select("id", "email").
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	renter := &entities.Renter{}
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(&renter.ID, &renter.Email)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("renter %s not found", email))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get renter", err)
	}
	return renter, nil
}

// GetRenterByID retrieves a renter by its opaque identifier
func (a *UserAdapter) GetRenterByID(ctx context.Context, id string) (*entities.Renter, error) {
	query, args, err := dialect.From("renters").
		Select("id", "email").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	renter := &entities.Renter{}
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(&renter.ID, &renter.Email)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("renter %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get renter", err)
	}
	return renter, nil
}

// GetAgentByEmail resolves an agent from a base user email
func (a *UserAdapter) GetAgentByEmail(ctx context.Context, email string) (*entities.Agent, error) {
	query, args, err := dialect.From("agents").
		Select("id", "email", "job_title", "agency_name").
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	agent := &entities.Agent{}
	err = a.exec.QueryRowContext(ctx, query, args...).
		Scan(&agent.ID, &agent.Email, &agent.JobTitle, &agent.AgencyName)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("agent %s not found", email))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get agent", err)
	}
	return agent, nil
}

// GetAgentByID retrieves an agent by its opaque identifier
func (a *UserAdapter) GetAgentByID(ctx context.Context, id string) (*entities.Agent, error) {
	query, args, err := dialect.From("agents").
		Select("id", "email", "job_title", "agency_name").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	agent := &entities.Agent{}
	err = a.exec.QueryRowContext(ctx, query, args...).
		Scan(&agent.ID, &agent.Email, &agent.JobTitle, &agent.AgencyName)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("agent %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get agent", err)
	}
	return agent, nil
}
