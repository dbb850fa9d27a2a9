package repositories

import (
	"context"
	"database/sql"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

// UserRepository defines operations on base users and their role extensions.
// Email joins the base record to the role-specific one.
type UserRepository interface {
	// WithTx returns a copy of the repository bound to tx
	WithTx(tx *sql.Tx) UserRepository

	// CreateUser inserts a base user record; an existing email is left untouched
	CreateUser(ctx context.Context, user *entities.User) error

	// GetUserByEmail retrieves a base user record
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)

	// UpdateContact changes a user's email and address, propagating the email
	// change to the role-specific record
	UpdateContact(ctx context.Context, currentEmail, newEmail, newAddress string) error

	// CreateRenter inserts the renter extension record
	CreateRenter(ctx context.Context, renter *entities.Renter) error

	// CreateAgent inserts the agent extension record
	CreateAgent(ctx context.Context, agent *entities.Agent) error

	// GetRenterByEmail resolves a renter from a base user email
	GetRenterByEmail(ctx context.Context, email string) (*entities.Renter, error)

	// GetRenterByID retrieves a renter by its opaque identifier
	GetRenterByID(ctx context.Context, id string) (*entities.Renter, error)

	// GetAgentByEmail resolves an agent from a base user email
	GetAgentByEmail(ctx context.Context, email string) (*entities.Agent, error)

	// GetAgentByID retrieves an agent by its opaque identifier
	GetAgentByID(ctx context.Context, id string) (*entities.Agent, error)
}
