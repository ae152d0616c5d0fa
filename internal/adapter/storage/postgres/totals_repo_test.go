package postgres

import (
	"context"
	"testing"

	"relief-credit-ledger/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsRepo_Add(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTotalsRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO category_totals").
		WithArgs(int16(domain.CategoryFood), int64(30)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Add(context.Background(), tx, domain.CategoryFood, 30)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalsRepo_GetTotal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTotalsRepo(mock)

	mock.ExpectQuery("SELECT total FROM category_totals").
		WithArgs(int16(domain.CategoryMedical)).
		WillReturnRows(pgxmock.NewRows([]string{"total"}).AddRow(int64(480)))

	total, err := repo.GetTotal(context.Background(), domain.CategoryMedical)
	require.NoError(t, err)
	assert.Equal(t, int64(480), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalsRepo_GetTotal_Unrecorded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTotalsRepo(mock)

	mock.ExpectQuery("SELECT total FROM category_totals").
		WithArgs(int16(domain.CategoryOther)).
		WillReturnRows(pgxmock.NewRows([]string{"total"}))

	total, err := repo.GetTotal(context.Background(), domain.CategoryOther)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalsRepo_GetAll_FillsMissingCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTotalsRepo(mock)

	// Only FOOD has recorded spend; MEDICAL and OTHER come back as zeroes.
	mock.ExpectQuery("SELECT category, total FROM category_totals").
		WillReturnRows(pgxmock.NewRows([]string{"category", "total"}).
			AddRow(int16(domain.CategoryFood), int64(120)))

	totals, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, domain.CategoryTotal{Category: domain.CategoryFood, Total: 120}, totals[0])
	assert.Equal(t, domain.CategoryTotal{Category: domain.CategoryMedical, Total: 0}, totals[1])
	assert.Equal(t, domain.CategoryTotal{Category: domain.CategoryOther, Total: 0}, totals[2])
	assert.NoError(t, mock.ExpectationsWereMet())
}
