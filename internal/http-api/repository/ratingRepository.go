package repository

import (
	"manahub/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingAggregate holds the computed average/count for one subject.
type RatingAggregate struct {
	Average float64
	Count   int64
}

type RatingRepository interface {
	FindByUserAndSubject(userID, articleSlug string) (*models.Rating, error)
	// Upsert writes the (user, subject) row, overwriting the score and
	// platform when the pair already exists.
	Upsert(rating *models.Rating) error
	Delete(userID, articleSlug string) error
	AggregateBySubject(articleSlug string) (*RatingAggregate, error)
	PlatformCounts(articleSlug string) (map[string]int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// FindByUserAndSubject retrieves a user's rating for a specific article
func (r *ratingRepository) FindByUserAndSubject(userID, articleSlug string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("user_id = ? AND article_slug = ?", userID, articleSlug).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Upsert(rating *models.Rating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "platform", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepository) Delete(userID, articleSlug string) error {
	result := r.db.Where("user_id = ? AND article_slug = ?", userID, articleSlug).Delete(&models.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AggregateBySubject calculates the average score and rating count for an article
func (r *ratingRepository) AggregateBySubject(articleSlug string) (*RatingAggregate, error) {
	var agg struct {
		Average float64
		Count   int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) as average, COUNT(*) as count").
		Where("article_slug = ?", articleSlug).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &RatingAggregate{Average: agg.Average, Count: agg.Count}, nil
}

// PlatformCounts groups ratings for an article by their platform tag.
// Rows without a platform are left out of the histogram.
func (r *ratingRepository) PlatformCounts(articleSlug string) (map[string]int64, error) {
	var rows []struct {
		Platform string
		Count    int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("platform, COUNT(*) as count").
		Where("article_slug = ? AND platform IS NOT NULL", articleSlug).
		Group("platform").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Platform] = row.Count
	}
	return counts, nil
}
