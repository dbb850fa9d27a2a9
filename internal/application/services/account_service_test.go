package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/estatebook/estatebook/backend/internal/application/services"
	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

func TestAccountService_Register(t *testing.T) {
	t.Run("registers a renter with its extension record", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := services.NewAccountService(fakeTxRunner{}, userRepo)

		userRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Email == "r@example.com" && u.Role == entities.RoleRenter
		})).Return(nil)
		userRepo.On("CreateRenter", mock.Anything, mock.MatchedBy(func(r *entities.Renter) bool {
			return r.Email == "r@example.com" && r.ID != ""
		})).Return(nil)
		userRepo.On("GetUserByEmail", mock.Anything, "r@example.com").
			Return(&entities.User{Email: "r@example.com", Role: entities.RoleRenter}, nil)
		userRepo.On("GetRenterByEmail", mock.Anything, "r@example.com").
			Return(&entities.Renter{ID: "renter-1", Email: "r@example.com"}, nil)

		profile, err := service.Register(context.Background(), services.RegisterRequest{
			Email:   "r@example.com",
			Name:    "Riley Okafor",
			Address: "5 Main St",
			Role:    entities.RoleRenter,
		})

		assert.NoError(t, err)
		assert.NotNil(t, profile.Renter)
		assert.Nil(t, profile.Agent)
		userRepo.AssertExpectations(t)
	})

	t.Run("registers an agent with agency details", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := services.NewAccountService(fakeTxRunner{}, userRepo)

		userRepo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("CreateAgent", mock.Anything, mock.MatchedBy(func(a *entities.Agent) bool {
			return a.AgencyName == "Homestead" && a.JobTitle == "Senior Agent"
		})).Return(nil)
		userRepo.On("GetUserByEmail", mock.Anything, "a@example.com").
			Return(&entities.User{Email: "a@example.com", Role: entities.RoleAgent}, nil)
		userRepo.On("GetAgentByEmail", mock.Anything, "a@example.com").
			Return(&entities.Agent{ID: "agent-1", Email: "a@example.com", AgencyName: "Homestead"}, nil)

		profile, err := service.Register(context.Background(), services.RegisterRequest{
			Email:      "a@example.com",
			Name:       "Avery Chen",
			Address:    "9 Hill Rd",
			Role:       entities.RoleAgent,
			JobTitle:   "Senior Agent",
			AgencyName: "Homestead",
		})

		assert.NoError(t, err)
		assert.NotNil(t, profile.Agent)
		assert.Equal(t, "Homestead", profile.Agent.AgencyName)
	})

	t.Run("rejects an agent without an agency", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := services.NewAccountService(fakeTxRunner{}, userRepo)

		_, err := service.Register(context.Background(), services.RegisterRequest{
			Email:   "a@example.com",
			Name:    "Avery Chen",
			Address: "9 Hill Rd",
			Role:    entities.RoleAgent,
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := services.NewAccountService(fakeTxRunner{}, userRepo)

		_, err := service.Register(context.Background(), services.RegisterRequest{
			Email:   "not-an-email",
			Name:    "Riley Okafor",
			Address: "5 Main St",
			Role:    entities.RoleRenter,
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := services.NewAccountService(fakeTxRunner{}, userRepo)

		_, err := service.Register(context.Background(), services.RegisterRequest{
			Email:   "r@example.com",
			Name:    "Riley Okafor",
			Address: "5 Main St",
			Role:    "landlord",
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestAccountService_UpdateContact(t *testing.T) {
	t.Run("updates email and address", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := services.NewAccountService(fakeTxRunner{}, userRepo)

		userRepo.On("UpdateContact", mock.Anything, "old@example.com", "new@example.com", "7 Lake Dr").
			Return(nil)
		userRepo.On("GetUserByEmail", mock.Anything, "new@example.com").
			Return(&entities.User{Email: "new@example.com", Role: entities.RoleRenter}, nil)
		userRepo.On("GetRenterByEmail", mock.Anything, "new@example.com").
			Return(&entities.Renter{ID: "renter-1", Email: "new@example.com"}, nil)

		profile, err := service.UpdateContact(context.Background(), "old@example.com", "new@example.com", "7 Lake Dr")

		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", profile.User.Email)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects a malformed new email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := services.NewAccountService(fakeTxRunner{}, userRepo)

		_, err := service.UpdateContact(context.Background(), "old@example.com", "broken", "7 Lake Dr")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		userRepo.AssertNotCalled(t, "UpdateContact", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
