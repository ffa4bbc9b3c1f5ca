package work

import (
	"context"
)

type Work struct {
	ID          int64   `json:"id"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Duration    string  `json:"duration"`
	WebsiteLink *string `json:"website_link"`
}

func IDs(items []Work) []int64 {
	ids := make([]int64, len(items))
	for i, w := range items {
		ids[i] = w.ID
	}
	return ids
}

type Repository interface {
	Create(ctx context.Context, work *Work) error
	SetWorkForProfile(ctx context.Context, profileID int64, workIDs []int64) error
	GetWorkForProfile(ctx context.Context, profileID int64) ([]Work, error)
	Search(ctx context.Context, query string) ([]Work, error)
}
