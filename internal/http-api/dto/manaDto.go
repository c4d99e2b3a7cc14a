package dto

import (
	"time"

	"manahub/internal/http-api/models"
)

type ManaLogResponse struct {
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ManaBalanceResponse is the account's balance plus recent audit history
type ManaBalanceResponse struct {
	Balance int               `json:"balance"`
	History []ManaLogResponse `json:"history"`
}

func NewManaBalanceResponse(balance int, logs []models.ManaLog) *ManaBalanceResponse {
	history := make([]ManaLogResponse, 0, len(logs))
	for _, entry := range logs {
		history = append(history, ManaLogResponse{
			Amount:    entry.Amount,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt,
		})
	}
	return &ManaBalanceResponse{Balance: balance, History: history}
}
