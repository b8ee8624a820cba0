package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/junkgems/internal/database"
	"github.com/example/junkgems/internal/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := models.User{
		Name:  "Philippa",
		Email: uuid.NewString() + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// assertLedgerInvariant checks that the sum of a user's transaction
// amounts reproduces the denormalized balance column.
func assertLedgerInvariant(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)

	var sum int64
	require.NoError(t, db.Model(&models.GemTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error)

	require.Equal(t, int64(user.AvailableGems), sum, "ledger invariant violated")
}
