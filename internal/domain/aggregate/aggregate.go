// Package aggregate maintains the running rating and earnings summaries on
// sitter and service rows.
package aggregate

import (
	"fmt"

	"gorm.io/gorm"

	"petsitter/internal/pkg/apperr"
)

var (
	ErrSitterNotFound  = fmt.Errorf("sitter %w", apperr.ErrNotFound)
	ErrServiceNotFound = fmt.Errorf("service %w", apperr.ErrNotFound)
	ErrInvalidRating   = fmt.Errorf("rating must be between 1 and 5: %w", apperr.ErrValidation)
	ErrNegativeAmount  = fmt.Errorf("earning amount must not be negative: %w", apperr.ErrValidation)
)

const (
	MinRating = 1
	MaxRating = 5
)

// NextAverage folds one more rating into an existing mean. With no prior
// ratings the old average is ignored.
func NextAverage(oldAvg float64, oldCount int, rating int) float64 {
	if oldCount <= 0 {
		return float64(rating)
	}
	return (oldAvg*float64(oldCount) + float64(rating)) / float64(oldCount+1)
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ApplyRating increments total_reviews and recomputes average_rating in one
// statement so concurrent reviews for the same sitter cannot lose updates.
func ApplyRating(tx *gorm.DB, sitterID int64, rating int) error {
	if !ValidRating(rating) {
		return ErrInvalidRating
	}
	res := tx.Table("sitters").
		Where("id = ?", sitterID).
		Updates(map[string]any{
			"average_rating": gorm.Expr("(average_rating * total_reviews + ?) / (total_reviews + 1)", float64(rating)),
			"total_reviews":  gorm.Expr("total_reviews + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSitterNotFound
	}
	return nil
}

// AccrueEarning adds amount to a service's running total. Totals never decrease.
func AccrueEarning(tx *gorm.DB, serviceID int64, amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	res := tx.Table("services").
		Where("id = ?", serviceID).
		Update("total_earning", gorm.Expr("total_earning + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}
