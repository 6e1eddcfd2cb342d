// Package terminal provides the Terminal catalog.
// A terminal is a single point of sale; daily cash reports are keyed by
// (terminal, date). Per-terminal integration credentials live here.
package terminal

import (
	"context"
	"time"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/id"
)

// Terminal represents one point of sale inside an organization.
type Terminal struct {
	ID             id.ID  `db:"id" json:"id"`
	OrganizationID id.ID  `db:"organization_id" json:"organizationId"`
	Name           string `db:"name" json:"name"`

	// IikoID identifies the terminal in the iiko register API.
	IikoID *string `db:"iiko_id" json:"iikoId,omitempty"`

	// ClickServiceIDs are the Click service accounts attached to this terminal.
	ClickServiceIDs []string `db:"click_service_ids" json:"clickServiceIds,omitempty"`

	// PaymeMerchantIDs are the Payme merchants attached to this terminal.
	PaymeMerchantIDs []string `db:"payme_merchant_ids" json:"paymeMerchantIds,omitempty"`

	// YandexRestaurantID identifies the terminal for the express-delivery bundle.
	YandexRestaurantID *string `db:"yandex_restaurant_id" json:"yandexRestaurantId,omitempty"`

	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	Version   int       `db:"version" json:"version"`
}

// New creates a new Terminal with required fields.
func New(orgID id.ID, name string) *Terminal {
	now := time.Now()
	return &Terminal{
		ID:             id.New(),
		OrganizationID: orgID,
		Name:           name,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
}

// Validate checks required fields.
func (t *Terminal) Validate(ctx context.Context) error {
	if t.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if id.IsNil(t.OrganizationID) {
		return apperror.NewValidation("organizationId is required").WithDetail("field", "organizationId")
	}
	return nil
}
