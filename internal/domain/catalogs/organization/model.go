// Package organization provides the Organization catalog.
// An organization groups terminals and holds the integration credentials
// shared by all of them (Payme business id, Arryt token, work-time window).
package organization

import (
	"context"
	"time"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/id"
)

// Organization represents a legal entity operating one or more terminals.
type Organization struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	// PaymeBusinessID is the Payme cabinet the org's merchants belong to.
	PaymeBusinessID *string `db:"payme_business_id" json:"paymeBusinessId,omitempty"`

	// ArrytToken authorizes delivery-service queries. Never serialized.
	ArrytToken *string `db:"arryt_token" json:"-"`

	// WorkStartTime / WorkEndTime bound the business day, "HH:MM" local.
	// A shift that closes after midnight still belongs to the day it opened.
	WorkStartTime string `db:"work_start_time" json:"workStartTime"`
	WorkEndTime   string `db:"work_end_time" json:"workEndTime"`

	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	Version   int       `db:"version" json:"version"`
}

// New creates a new Organization with required fields.
func New(name string) *Organization {
	now := time.Now()
	return &Organization{
		ID:            id.New(),
		Name:          name,
		WorkStartTime: "10:00",
		WorkEndTime:   "03:00",
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
}

// Validate checks required fields.
func (o *Organization) Validate(ctx context.Context) error {
	if o.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}
