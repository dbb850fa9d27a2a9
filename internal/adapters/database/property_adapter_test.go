package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

func setupMockDB(t *testing.T) (*PropertyAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PropertyAdapter{exec: db}, mock
}

func testHouse(id string) *entities.Property {
	return &entities.Property{
		ID:          id,
		Kind:        entities.KindHouse,
		Description: "Bright corner house",
		City:        "Austin",
		State:       "TX",
		AgentID:     "agent-1",
		Details: entities.HouseDetails{
			ResidentialUnit: entities.ResidentialUnit{
				Rooms:     3,
				Address:   "12 Oak Lane",
				AreaSqFt:  1400,
				Price:     2500,
				Available: true,
			},
		},
	}
}

func TestPropertyAdapter_NextID(t *testing.T) {
	t.Run("pads the next id to ten digits", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM "properties"`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(41)))

		id, err := adapter.NextID(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "0000000042", id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("starts from one on an empty catalog", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM "properties"`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))

		id, err := adapter.NextID(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "0000000001", id)
	})
}

func TestPropertyAdapter_Create(t *testing.T) {
	t.Run("inserts the base row and the details row", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectExec(`INSERT INTO "properties"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "houses"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.Create(context.Background(), testHouse("0000000001"))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a unique violation to a conflict error", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectExec(`INSERT INTO "properties"`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := adapter.Create(context.Background(), testHouse("0000000001"))

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("rejects a kind and details mismatch", func(t *testing.T) {
		adapter, _ := setupMockDB(t)

		property := testHouse("0000000001")
		property.Kind = entities.KindApartment

		err := adapter.Create(context.Background(), property)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestPropertyAdapter_GetByID(t *testing.T) {
	t.Run("missing property returns not found", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM "properties"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		property, err := adapter.GetByID(context.Background(), "0000000099")

		assert.Nil(t, property)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestPropertyAdapter_FlipAvailability(t *testing.T) {
	t.Run("reports one row when the guard holds", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectExec(`UPDATE "houses"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rowsAffected, err := adapter.FlipAvailability(context.Background(), "0000000001", entities.KindHouse, false)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), rowsAffected)
	})

	t.Run("reports zero rows when the guard fails", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectExec(`UPDATE "houses"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		rowsAffected, err := adapter.FlipAvailability(context.Background(), "0000000001", entities.KindHouse, false)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), rowsAffected)
	})

	t.Run("rejects an unknown kind", func(t *testing.T) {
		adapter, _ := setupMockDB(t)

		_, err := adapter.FlipAvailability(context.Background(), "0000000001", "castle", false)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestPropertyAdapter_Delete(t *testing.T) {
	t.Run("removes the details row before the base row", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT "kind" FROM "properties"`).
			WillReturnRows(sqlmock.NewRows([]string{"kind"}).AddRow("house"))
		mock.ExpectExec(`DELETE FROM "houses"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "properties"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.Delete(context.Background(), "0000000001")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing property returns not found", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT "kind" FROM "properties"`).
			WillReturnRows(sqlmock.NewRows([]string{"kind"}))

		err := adapter.Delete(context.Background(), "0000000099")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestPropertyAdapter_Search(t *testing.T) {
	summaryColumns := []string{
		"id", "kind", "description", "city", "state", "price", "available", "agent_id", "agent_name",
	}

	t.Run("scans joined summaries", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM "properties" AS "p"`).
			WillReturnRows(sqlmock.NewRows(summaryColumns).
				AddRow("0000000001", "house", "Bright corner house", "Austin", "TX", 2500.0, true, "agent-1", "Avery Chen").
				AddRow("0000000002", "commercial_building", "Retail unit", "Austin", "TX", 9000.0, false, "agent-2", "Sam Reyes"))

		summaries, err := adapter.Search(context.Background(), repositories.SearchFilter{City: "Austin"})

		assert.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, 2500.0, summaries[0].Price)
		assert.True(t, summaries[0].Available)
		assert.Equal(t, "Avery Chen", summaries[0].AgentName)
		assert.False(t, summaries[1].Available)
	})

	t.Run("empty catalog yields no summaries", func(t *testing.T) {
		adapter, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM "properties" AS "p"`).
			WillReturnRows(sqlmock.NewRows(summaryColumns))

		summaries, err := adapter.Search(context.Background(), repositories.SearchFilter{})

		assert.NoError(t, err)
		assert.Empty(t, summaries)
	})
}
