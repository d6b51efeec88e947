package domain

import "time"

// Review moderation states. A review is created PENDING and may only be
// moved by an authenticated moderator. Moving back to PENDING clears the
// moderation record.
const (
	ReviewPending  = "PENDING"
	ReviewApproved = "APPROVED"
	ReviewRejected = "REJECTED"
)

// ValidReviewStatus reports whether s is one of the known states.
func ValidReviewStatus(s string) bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

type Review struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"productId"`
	Name        *string    `json:"name,omitempty"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment"`
	Status      string     `json:"status"`
	ModeratedBy *string    `json:"moderatedBy,omitempty"`
	ModeratedAt *time.Time `json:"moderatedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Product is attached on admin listings that request include=product.
	Product *ReviewProduct `json:"product,omitempty"`
}

type ReviewProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
