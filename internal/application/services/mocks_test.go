package services_test

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
)

// fakeTxRunner runs the workflow function directly; the nil transaction is
// fine because every mock repository returns itself from WithTx.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) WithTx(tx *sql.Tx) repositories.PropertyRepository {
	return m
}

func (m *MockPropertyRepository) NextID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *entities.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*entities.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *entities.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) Search(ctx context.Context, filter repositories.SearchFilter) ([]*entities.ListingSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ListingSummary), args.Error(1)
}

func (m *MockPropertyRepository) ListByAgency(ctx context.Context, agencyName string) ([]*entities.ListingSummary, error) {
	args := m.Called(ctx, agencyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ListingSummary), args.Error(1)
}

func (m *MockPropertyRepository) OwnerAgentID(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyRepository) FlipAvailability(ctx context.Context, id string, kind entities.PropertyKind, available bool) (int64, error) {
	args := m.Called(ctx, id, kind, available)
	return args.Get(0).(int64), args.Error(1)
}

type MockNeighbourhoodRepository struct {
	mock.Mock
}

func (m *MockNeighbourhoodRepository) WithTx(tx *sql.Tx) repositories.NeighbourhoodRepository {
	return m
}

func (m *MockNeighbourhoodRepository) Create(ctx context.Context, neighbourhood *entities.Neighbourhood) error {
	args := m.Called(ctx, neighbourhood)
	return args.Error(0)
}

func (m *MockNeighbourhoodRepository) GetByPropertyID(ctx context.Context, propertyID string) (*entities.Neighbourhood, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Neighbourhood), args.Error(1)
}

func (m *MockNeighbourhoodRepository) Update(ctx context.Context, neighbourhood *entities.Neighbourhood) error {
	args := m.Called(ctx, neighbourhood)
	return args.Error(0)
}

func (m *MockNeighbourhoodRepository) DeleteByPropertyID(ctx context.Context, propertyID string) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) WithTx(tx *sql.Tx) repositories.BookingRepository {
	return m
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*entities.Booking, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRewardsRepository struct {
	mock.Mock
}

func (m *MockRewardsRepository) WithTx(tx *sql.Tx) repositories.RewardsRepository {
	return m
}

func (m *MockRewardsRepository) AddPoints(ctx context.Context, renterID string, points int) error {
	args := m.Called(ctx, renterID, points)
	return args.Error(0)
}

func (m *MockRewardsRepository) DeductPoints(ctx context.Context, renterID string, points int) error {
	args := m.Called(ctx, renterID, points)
	return args.Error(0)
}

func (m *MockRewardsRepository) Balance(ctx context.Context, renterID string) (int, error) {
	args := m.Called(ctx, renterID)
	return args.Int(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) WithTx(tx *sql.Tx) repositories.PaymentRepository {
	return m
}

func (m *MockPaymentRepository) Create(ctx context.Context, record *entities.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByRenter(ctx context.Context, renterID string) ([]*entities.PaymentRecord, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentRecord), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) WithTx(tx *sql.Tx) repositories.UserRepository {
	return m
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateContact(ctx context.Context, currentEmail, newEmail, newAddress string) error {
	args := m.Called(ctx, currentEmail, newEmail, newAddress)
	return args.Error(0)
}

func (m *MockUserRepository) CreateRenter(ctx context.Context, renter *entities.Renter) error {
	args := m.Called(ctx, renter)
	return args.Error(0)
}

func (m *MockUserRepository) CreateAgent(ctx context.Context, agent *entities.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockUserRepository) GetRenterByEmail(ctx context.Context, email string) (*entities.Renter, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Renter), args.Error(1)
}

func (m *MockUserRepository) GetRenterByID(ctx context.Context, id string) (*entities.Renter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Renter), args.Error(1)
}

func (m *MockUserRepository) GetAgentByEmail(ctx context.Context, email string) (*entities.Agent, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Agent), args.Error(1)
}

func (m *MockUserRepository) GetAgentByID(ctx context.Context, id string) (*entities.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Agent), args.Error(1)
}
