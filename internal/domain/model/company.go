package model

import "time"

// Company はクーポンを発行する企業を表す。
type Company struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	LogoURL          string    `json:"logo_url" db:"logo_url"`
	Industry         string    `json:"industry" db:"industry"`
	StripeCustomerID string    `json:"stripe_customer_id" db:"stripe_customer_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
