package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/estatebook/estatebook/backend/internal/application/services"
	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/pkg/config"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

func bookingConfig() config.BookingConfig {
	return config.BookingConfig{
		RewardPoints:        100,
		DurationDays:        30,
		IDAllocationRetries: 3,
	}
}

func newBookingService(
	bookingRepo *MockBookingRepository,
	propertyRepo *MockPropertyRepository,
	rewardsRepo *MockRewardsRepository,
	paymentRepo *MockPaymentRepository,
	userRepo *MockUserRepository,
) *services.BookingService {
	return services.NewBookingService(
		fakeTxRunner{},
		bookingRepo,
		propertyRepo,
		rewardsRepo,
		paymentRepo,
		userRepo,
		bookingConfig(),
		nil,
	)
}

func availableHouse(id string, price float64) *entities.Property {
	return &entities.Property{
		ID:   id,
		Kind: entities.KindHouse,
		City: "Austin",
		Details: entities.HouseDetails{
			ResidentialUnit: entities.ResidentialUnit{
				Rooms:     3,
				Address:   "12 Oak Lane",
				AreaSqFt:  1400,
				Price:     price,
				Available: true,
			},
		},
	}
}

func TestBookingService_Book(t *testing.T) {
	start := time.Now().AddDate(0, 1, 0)

	t.Run("cash booking flips availability and captures the list price", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		userRepo.On("GetRenterByID", mock.Anything, "renter-1").
			Return(&entities.Renter{ID: "renter-1", Email: "r@example.com"}, nil)
		propertyRepo.On("GetByID", mock.Anything, "0000000001").
			Return(availableHouse("0000000001", 2500), nil)
		propertyRepo.On("FlipAvailability", mock.Anything, "0000000001", entities.KindHouse, false).
			Return(int64(1), nil)
		bookingRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *entities.Booking) bool {
			return b.PropertyID == "0000000001" &&
				b.TotalCost == 2500 &&
				b.PaymentMode == entities.PaymentModeCash &&
				b.EndDate.Equal(b.StartDate.AddDate(0, 0, 30))
		})).Return(nil)
		rewardsRepo.On("AddPoints", mock.Anything, "renter-1", 100).Return(nil)

		booking, err := service.Book(context.Background(), services.BookingRequest{
			RenterID:    "renter-1",
			PropertyID:  "0000000001",
			StartDate:   start,
			PaymentMode: entities.PaymentModeCash,
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, 2500.0, booking.TotalCost)
		bookingRepo.AssertExpectations(t)
		propertyRepo.AssertExpectations(t)
		rewardsRepo.AssertExpectations(t)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("credit booking captures a payment record", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		userRepo.On("GetRenterByID", mock.Anything, "renter-1").
			Return(&entities.Renter{ID: "renter-1", Email: "r@example.com"}, nil)
		propertyRepo.On("GetByID", mock.Anything, "0000000001").
			Return(availableHouse("0000000001", 1800), nil)
		propertyRepo.On("FlipAvailability", mock.Anything, "0000000001", entities.KindHouse, false).
			Return(int64(1), nil)
		bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.PaymentRecord) bool {
			return p.RenterID == "renter-1" && p.CardNumber == "4111111111111111"
		})).Return(nil)
		rewardsRepo.On("AddPoints", mock.Anything, "renter-1", 100).Return(nil)

		booking, err := service.Book(context.Background(), services.BookingRequest{
			RenterID:    "renter-1",
			PropertyID:  "0000000001",
			StartDate:   start,
			PaymentMode: entities.PaymentModeCredit,
			Card: &entities.CardDetails{
				HolderName: "Jordan Diaz",
				Number:     "4111111111111111",
				Expiry:     time.Now().AddDate(2, 0, 0),
				CVV:        "123",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, entities.PaymentModeCredit, booking.PaymentMode)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("fifteen digit card is rejected before any write", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		_, err := service.Book(context.Background(), services.BookingRequest{
			RenterID:    "renter-1",
			PropertyID:  "0000000001",
			StartDate:   start,
			PaymentMode: entities.PaymentModeCredit,
			Card: &entities.CardDetails{
				HolderName: "Jordan Diaz",
				Number:     "411111111111111",
				Expiry:     time.Now().AddDate(2, 0, 0),
				CVV:        "123",
			},
		})

		assert.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		propertyRepo.AssertNotCalled(t, "FlipAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		rewardsRepo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the availability race returns unavailable", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		userRepo.On("GetRenterByID", mock.Anything, "renter-2").
			Return(&entities.Renter{ID: "renter-2", Email: "r2@example.com"}, nil)
		propertyRepo.On("GetByID", mock.Anything, "0000000001").
			Return(availableHouse("0000000001", 2500), nil)
		propertyRepo.On("FlipAvailability", mock.Anything, "0000000001", entities.KindHouse, false).
			Return(int64(0), nil)

		_, err := service.Book(context.Background(), services.BookingRequest{
			RenterID:    "renter-2",
			PropertyID:  "0000000001",
			StartDate:   start,
			PaymentMode: entities.PaymentModeCash,
		})

		assert.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
		bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		rewardsRepo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown renter is rejected", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		userRepo.On("GetRenterByID", mock.Anything, "ghost").
			Return(nil, apperrors.NewNotFoundError("renter ghost not found"))

		_, err := service.Book(context.Background(), services.BookingRequest{
			RenterID:    "ghost",
			PropertyID:  "0000000001",
			StartDate:   start,
			PaymentMode: entities.PaymentModeCash,
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		propertyRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	booking := &entities.Booking{
		ID:           "b1",
		RenterID:     "renter-1",
		PropertyID:   "0000000001",
		PaymentMode:  entities.PaymentModeCredit,
		PropertyKind: entities.KindHouse,
		TotalCost:    1200.50,
	}

	t.Run("cancellation restores availability and reclaims rewards", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		bookingRepo.On("GetByID", mock.Anything, "b1").Return(booking, nil)
		propertyRepo.On("FlipAvailability", mock.Anything, "0000000001", entities.KindHouse, true).
			Return(int64(1), nil)
		bookingRepo.On("Delete", mock.Anything, "b1").Return(nil)
		rewardsRepo.On("DeductPoints", mock.Anything, "renter-1", 100).Return(nil)

		refund, err := service.Cancel(context.Background(), "renter-1", "b1")

		assert.NoError(t, err)
		assert.Equal(t, 1200.50, refund)
		bookingRepo.AssertExpectations(t)
		propertyRepo.AssertExpectations(t)
		rewardsRepo.AssertExpectations(t)
	})

	t.Run("payment records survive cancellation", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		bookingRepo.On("GetByID", mock.Anything, "b1").Return(booking, nil)
		propertyRepo.On("FlipAvailability", mock.Anything, "0000000001", entities.KindHouse, true).
			Return(int64(1), nil)
		bookingRepo.On("Delete", mock.Anything, "b1").Return(nil)
		rewardsRepo.On("DeductPoints", mock.Anything, "renter-1", 100).Return(nil)

		_, err := service.Cancel(context.Background(), "renter-1", "b1")

		assert.NoError(t, err)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		paymentRepo.AssertNumberOfCalls(t, "ListByRenter", 0)
	})

	t.Run("only the booking renter may cancel", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		bookingRepo.On("GetByID", mock.Anything, "b1").Return(booking, nil)

		_, err := service.Cancel(context.Background(), "renter-2", "b1")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
		bookingRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		propertyRepo.AssertNotCalled(t, "FlipAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelling a missing booking returns not found", func(t *testing.T) {
		bookingRepo := new(MockBookingRepository)
		propertyRepo := new(MockPropertyRepository)
		rewardsRepo := new(MockRewardsRepository)
		paymentRepo := new(MockPaymentRepository)
		userRepo := new(MockUserRepository)
		service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

		bookingRepo.On("GetByID", mock.Anything, "nope").
			Return(nil, apperrors.NewNotFoundError("booking nope not found"))

		_, err := service.Cancel(context.Background(), "renter-1", "nope")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestBookingService_RewardsBalance(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	propertyRepo := new(MockPropertyRepository)
	rewardsRepo := new(MockRewardsRepository)
	paymentRepo := new(MockPaymentRepository)
	userRepo := new(MockUserRepository)
	service := newBookingService(bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo)

	rewardsRepo.On("Balance", mock.Anything, "renter-1").Return(300, nil)

	points, err := service.RewardsBalance(context.Background(), "renter-1")

	assert.NoError(t, err)
	assert.Equal(t, 300, points)
}
