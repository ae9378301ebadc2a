package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

func TestUserRepo_DisableReflectedInStatusFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()
	companyID, userID, roleID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE users SET status = \$1, updated_at = NOW\(\) WHERE company_id = \$2 AND id = \$3`).
		WithArgs(models.UserDisabled, companyID, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE company_id = \$1 AND status = \$2`).
		WithArgs(companyID, models.UserDisabled).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT id, company_id, role_id, .* FROM users WHERE company_id = \$1 AND status = \$2 ORDER BY name ASC`).
		WithArgs(companyID, models.UserDisabled).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(
			userID, companyID, roleID, "Priya", "priya@godown.in", "$2a$10$hash", (*string)(nil), stringPtr("Clerk"),
			models.UserDisabled, (*time.Time)(nil), fixedTime, fixedTime,
		))

	n, err := repo.SetStatus(ctx, companyID, userID, models.UserDisabled)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	p := database.ListParams{}.Normalize([]string{"name", "email"}, "name")
	users, total, err := repo.List(ctx, companyID, models.UserFilter{Status: models.UserDisabled}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, models.UserDisabled, users[0].Status)
	assert.Nil(t, users[0].LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmailLowercases(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM users WHERE email = \$1 LIMIT 1`).
		WithArgs("priya@godown.in").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err = NewUserRepository(mock).GetByEmail(context.Background(), "  Priya@Godown.IN ")
	assert.True(t, database.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
