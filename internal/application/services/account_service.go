package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
	"github.com/estatebook/estatebook/backend/pkg/validate"
)

// AccountService handles user registration and profile management
type AccountService struct {
	txRunner repositories.TxRunner
	userRepo repositories.UserRepository
}

// NewAccountService creates a new account service
func NewAccountService(txRunner repositories.TxRunner, userRepo repositories.UserRepository) *AccountService {
	return &AccountService{
		txRunner: txRunner,
		userRepo: userRepo,
	}
}

// RegisterRequest carries a new account. JobTitle and AgencyName apply to
// agents only.
type RegisterRequest struct {
	Email      string
	Name       string
	Address    string
	Role       entities.UserRole
	JobTitle   string
	AgencyName string
}

// Profile is a base user joined with its role-specific record
type Profile struct {
	User   *entities.User   `json:"user"`
	Renter *entities.Renter `json:"renter,omitempty"`
	Agent  *entities.Agent  `json:"agent,omitempty"`
}

// Register creates a base user and its role record atomically. Registering
// an email that already exists leaves the existing account untouched and
// returns it.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*Profile, error) {
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.Role))
	}
	if req.Role == entities.RoleAgent && req.AgencyName == "" {
		return nil, apperrors.NewValidationError("agency name is required for agents")
	}

	now := time.Now()
	user := &entities.User{
		Email:     req.Email,
		Name:      req.Name,
		Address:   req.Address,
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validate.Struct(user); err != nil {
		return nil, err
	}

	err := s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		userRepo := s.userRepo.WithTx(tx)

		if err := userRepo.CreateUser(ctx, user); err != nil {
			return err
		}

		if req.Role == entities.RoleRenter {
			return userRepo.CreateRenter(ctx, &entities.Renter{
				ID:    newOpaqueID(),
				Email: req.Email,
			})
		}
		return userRepo.CreateAgent(ctx, &entities.Agent{
			ID:         newOpaqueID(),
			Email:      req.Email,
			JobTitle:   req.JobTitle,
			AgencyName: req.AgencyName,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("email", req.Email).Str("role", string(req.Role)).Msg("account registered")
	return s.GetProfile(ctx, req.Email)
}

// GetProfile retrieves a user together with its role-specific record
func (s *AccountService) GetProfile(ctx context.Context, email string) (*Profile, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}
	switch user.Role {
	case entities.RoleRenter:
		renter, err := s.userRepo.GetRenterByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		profile.Renter = renter
	case entities.RoleAgent:
		agent, err := s.userRepo.GetAgentByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		profile.Agent = agent
	}
	return profile, nil
}

// UpdateContact changes a user's email and address, keeping the role record
// in step
func (s *AccountService) UpdateContact(ctx context.Context, currentEmail, newEmail, newAddress string) (*Profile, error) {
	if err := validate.Var("email", newEmail, "required,email"); err != nil {
		return nil, err
	}
	if newAddress == "" {
		return nil, apperrors.NewValidationError("address is required")
	}

	err := s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		return s.userRepo.WithTx(tx).UpdateContact(ctx, currentEmail, newEmail, newAddress)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("email", newEmail).Msg("contact details updated")
	return s.GetProfile(ctx, newEmail)
}
