package db

import (
	"time"

	"github.com/google/uuid"
)

// Lead is one captured contact-form inquiry.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company"`
	Category    string    `json:"category"`
	ProductType string    `json:"product_type"`
	Volume      float64   `json:"volume"`
	VolumeUnit  string    `json:"volume_unit"`
	Message     string    `json:"message"`
	AgreedTerms bool      `json:"agreed_terms"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
