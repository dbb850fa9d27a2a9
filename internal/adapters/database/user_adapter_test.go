package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

func setupUserMockDB(t *testing.T) (*UserAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &UserAdapter{exec: db}, mock
}

func TestUserAdapter_CreateRenter(t *testing.T) {
	t.Run("inserts when the email has no renter", func(t *testing.T) {
		adapter, mock := setupUserMockDB(t)

		mock.ExpectQuery(`SELECT "id", "email" FROM "renters" WHERE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))
		mock.ExpectExec(`INSERT INTO "renters"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.CreateRenter(context.Background(), &entities.Renter{
			ID:    "r-abc123",
			Email: "riley.okafor@example.com",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-registration keeps the existing renter row", func(t *testing.T) {
		adapter, mock := setupUserMockDB(t)

		mock.ExpectQuery(`SELECT "id", "email" FROM "renters" WHERE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
				AddRow("r-abc123", "riley.okafor@example.com"))

		err := adapter.CreateRenter(context.Background(), &entities.Renter{
			ID:    "r-fresh456",
			Email: "riley.okafor@example.com",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserAdapter_CreateAgent(t *testing.T) {
	t.Run("inserts when the email has no agent", func(t *testing.T) {
		adapter, mock := setupUserMockDB(t)

		mock.ExpectQuery(`SELECT "id", "email", "job_title", "agency_name" FROM "agents" WHERE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "job_title", "agency_name"}))
		mock.ExpectExec(`INSERT INTO "agents"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.CreateAgent(context.Background(), &entities.Agent{
			ID:         "a-def789",
			Email:      "avery.chen@homestead.example",
			JobTitle:   "Senior Agent",
			AgencyName: "Homestead Realty",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-registration keeps the existing agent row", func(t *testing.T) {
		adapter, mock := setupUserMockDB(t)

		mock.ExpectQuery(`SELECT "id", "email", "job_title", "agency_name" FROM "agents" WHERE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "job_title", "agency_name"}).
				AddRow("a-def789", "avery.chen@homestead.example", "Senior Agent", "Homestead Realty"))

		err := adapter.CreateAgent(context.Background(), &entities.Agent{
			ID:         "a-fresh000",
			Email:      "avery.chen@homestead.example",
			JobTitle:   "Senior Agent",
			AgencyName: "Homestead Realty",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
