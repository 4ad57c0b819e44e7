package aggregate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"petsitter/internal/domain/profile"
	"petsitter/internal/pkg/apperr"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:aggregate_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profile.SitterModel{}, &profile.ServiceModel{}))
	return db
}

func TestNextAverage(t *testing.T) {
	tests := []struct {
		name     string
		avg      float64
		count    int
		rating   int
		expected float64
	}{
		{"first rating", 0, 0, 4, 4},
		{"stale average ignored when empty", 3.7, 0, 5, 5},
		{"second rating", 4, 1, 2, 3},
		{"many ratings", 4.5, 10, 1, 46.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NextAverage(tt.avg, tt.count, tt.rating), 1e-9)
		})
	}
}

func TestApplyRating_MatchesRunningMean(t *testing.T) {
	db := setupTestDB(t)
	sitter := profile.SitterModel{UserID: 1, DisplayName: "Sam"}
	require.NoError(t, db.Create(&sitter).Error)

	ratings := []int{4, 5, 2, 3, 5}
	avg, n := 0.0, 0
	for _, v := range ratings {
		require.NoError(t, ApplyRating(db, sitter.ID, v))
		avg = NextAverage(avg, n, v)
		n++

		var got profile.SitterModel
		require.NoError(t, db.First(&got, sitter.ID).Error)
		assert.Equal(t, n, got.TotalReviews)
		assert.InDelta(t, avg, got.AverageRating, 1e-9)
	}
}

func TestApplyRating_Errors(t *testing.T) {
	db := setupTestDB(t)

	err := ApplyRating(db, 99, 4)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = ApplyRating(db, 99, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	err = ApplyRating(db, 99, 6)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAccrueEarning(t *testing.T) {
	db := setupTestDB(t)
	svc := profile.ServiceModel{SitterID: 1, ServiceType: "boarding", PricePerDay: 500, IsActive: true}
	require.NoError(t, db.Create(&svc).Error)

	require.NoError(t, AccrueEarning(db, svc.ID, 500))
	require.NoError(t, AccrueEarning(db, svc.ID, 250))

	var got profile.ServiceModel
	require.NoError(t, db.First(&got, svc.ID).Error)
	assert.InDelta(t, 750, got.TotalEarning, 1e-9)

	assert.ErrorIs(t, AccrueEarning(db, svc.ID, -1), apperr.ErrValidation)
	assert.ErrorIs(t, AccrueEarning(db, 12345, 10), apperr.ErrNotFound)
}
