package dto

// SubmitRatingDTO for creating or updating a rating. Score arrives as a
// float and is rounded before clamping to [10,100].
type SubmitRatingDTO struct {
	Score    float64 `json:"score" binding:"required"`
	Platform *string `json:"platform,omitempty" binding:"omitempty,max=50"`
}

// SubmitRatingResponse reports the stored score and any mana side effect
type SubmitRatingResponse struct {
	Score       int     `json:"score"`
	Platform    *string `json:"platform,omitempty"`
	FirstRating bool    `json:"first_rating"`
	ManaAwarded int     `json:"mana_awarded"`
	ManaBalance int     `json:"mana_balance,omitempty"`
}

// RatingSummaryResponse is the per-article aggregate view
type RatingSummaryResponse struct {
	Average      int              `json:"average"` // mean rounded to nearest integer, 0 when unrated
	Count        int64            `json:"count"`
	Platforms    map[string]int64 `json:"platforms"`
	UserScore    *int             `json:"user_score,omitempty"`
	UserPlatform *string          `json:"user_platform,omitempty"`
}
