package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/observability"
	"github.com/estatebook/estatebook/backend/pkg/config"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
	"github.com/estatebook/estatebook/backend/pkg/validate"
)

// BookingService coordinates the booking and cancellation workflows. Every
// workflow runs inside a single database transaction: the availability flip,
// the booking row, the payment capture, and the reward grant commit together
// or not at all.
type BookingService struct {
	txRunner     repositories.TxRunner
	bookingRepo  repositories.BookingRepository
	propertyRepo repositories.PropertyRepository
	rewardsRepo  repositories.RewardsRepository
	paymentRepo  repositories.PaymentRepository
	userRepo     repositories.UserRepository
	cfg          config.BookingConfig
	metrics      *observability.Metrics
}

// NewBookingService creates a new booking service
func NewBookingService(
	txRunner repositories.TxRunner,
	bookingRepo repositories.BookingRepository,
	propertyRepo repositories.PropertyRepository,
	rewardsRepo repositories.RewardsRepository,
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	cfg config.BookingConfig,
	metrics *observability.Metrics,
) *BookingService {
	return &BookingService{
		txRunner:     txRunner,
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		rewardsRepo:  rewardsRepo,
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		metrics:      metrics,
	}
}

// BookingRequest carries everything needed to book a property. Card is
// required for credit bookings and ignored for cash.
type BookingRequest struct {
	RenterID    string
	PropertyID  string
	StartDate   time.Time
	PaymentMode entities.PaymentMode
	Card        *entities.CardDetails
}

// Book books a property for a fixed window starting at the requested date.
// All validation happens before the first write; a request rejected for a
// malformed card or an unknown renter leaves every store untouched.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*entities.Booking, error) {
	if !req.PaymentMode.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown payment mode %q", req.PaymentMode))
	}
	if req.StartDate.IsZero() {
		return nil, apperrors.NewValidationError("start date is required")
	}
	if req.PaymentMode == entities.PaymentModeCredit {
		if req.Card == nil {
			return nil, apperrors.NewValidationError("card details are required for credit bookings")
		}
		if err := validate.Struct(req.Card); err != nil {
			return nil, err
		}
	}

	renter, err := s.userRepo.GetRenterByID(ctx, req.RenterID)
	if err != nil {
		return nil, err
	}

	var booking *entities.Booking
	err = s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		propertyRepo := s.propertyRepo.WithTx(tx)

		property, err := propertyRepo.GetByID(ctx, req.PropertyID)
		if err != nil {
			return err
		}

		rowsAffected, err := propertyRepo.FlipAvailability(ctx, property.ID, property.Kind, false)
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			observability.RecordBookingConflict(ctx, s.metrics, string(property.Kind))
			return apperrors.NewUnavailableError(fmt.Sprintf("property %s is not available", property.ID))
		}

		now := time.Now()
		booking = &entities.Booking{
			ID:           newOpaqueID(),
			RenterID:     renter.ID,
			PropertyID:   property.ID,
			StartDate:    req.StartDate,
			EndDate:      req.StartDate.AddDate(0, 0, s.cfg.DurationDays),
			PaymentMode:  req.PaymentMode,
			TotalCost:    property.Details.ListPrice(),
			CreatedAt:    now,
			PropertyKind: property.Kind,
		}
		if err := s.bookingRepo.WithTx(tx).Create(ctx, booking); err != nil {
			return err
		}

		if req.PaymentMode == entities.PaymentModeCredit {
			record := &entities.PaymentRecord{
				ID:         newOpaqueID(),
				RenterID:   renter.ID,
				BookingID:  booking.ID,
				CardHolder: req.Card.HolderName,
				CardNumber: req.Card.Number,
				Expiry:     req.Card.Expiry,
				CVV:        req.Card.CVV,
				CreatedAt:  now,
			}
			if err := s.paymentRepo.WithTx(tx).Create(ctx, record); err != nil {
				return err
			}
		}

		return s.rewardsRepo.WithTx(tx).AddPoints(ctx, renter.ID, s.cfg.RewardPoints)
	})
	if err != nil {
		return nil, err
	}

	observability.RecordBooking(ctx, s.metrics, string(booking.PropertyKind), string(booking.PaymentMode))
	log.Info().
		Str("booking_id", booking.ID).
		Str("property_id", booking.PropertyID).
		Str("renter_id", booking.RenterID).
		Str("payment_mode", string(booking.PaymentMode)).
		Float64("total_cost", booking.TotalCost).
		Msg("booking committed")

	return booking, nil
}

// Cancel removes a booking, restores property availability, and reclaims the
// reward grant floored at zero. Payment records captured for the booking are
// kept. Only the booking renter may cancel. Returns the captured total cost
// as the refund amount.
func (s *BookingService) Cancel(ctx context.Context, renterID, bookingID string) (float64, error) {
	var refund float64
	err := s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		bookingRepo := s.bookingRepo.WithTx(tx)

		booking, err := bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		refund = booking.TotalCost
		if booking.RenterID != renterID {
			return apperrors.NewForbiddenError(
				fmt.Sprintf("renter %s does not own booking %s", renterID, bookingID))
		}

		rowsAffected, err := s.propertyRepo.WithTx(tx).FlipAvailability(ctx, booking.PropertyID, booking.PropertyKind, true)
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			log.Warn().
				Str("booking_id", bookingID).
				Str("property_id", booking.PropertyID).
				Msg("property already available on cancellation")
		}

		if err := bookingRepo.Delete(ctx, bookingID); err != nil {
			return err
		}

		return s.rewardsRepo.WithTx(tx).DeductPoints(ctx, renterID, s.cfg.RewardPoints)
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("booking_id", bookingID).
		Str("renter_id", renterID).
		Float64("refund", refund).
		Msg("booking cancelled")
	return refund, nil
}

// ListBookings returns a renter's bookings in insertion order
func (s *BookingService) ListBookings(ctx context.Context, renterID string) ([]*entities.Booking, error) {
	return s.bookingRepo.ListByRenter(ctx, renterID)
}

// RewardsBalance returns a renter's current reward balance
func (s *BookingService) RewardsBalance(ctx context.Context, renterID string) (int, error) {
	return s.rewardsRepo.Balance(ctx, renterID)
}

// ListPayments returns a renter's captured payment records
func (s *BookingService) ListPayments(ctx context.Context, renterID string) ([]*entities.PaymentRecord, error) {
	return s.paymentRepo.ListByRenter(ctx, renterID)
}

// newOpaqueID returns a 32 character hex identifier
func newOpaqueID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
