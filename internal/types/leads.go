// Package types provides request and response type definitions shared by the
// HTTP layer.
package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateLeadRequest is the contact-form body accepted by the public lead
// endpoint. The enum fields mirror the options shown on the marketing site.
type CreateLeadRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,min=7"`
	Company     string  `json:"company" validate:"required,min=1"`
	Category    string  `json:"category" validate:"required,oneof=buyer seller partner investor other"`
	ProductType string  `json:"product_type" validate:"required,oneof=crude_oil diesel jet_fuel gasoline lpg bitumen other"`
	Volume      float64 `json:"volume" validate:"required,gt=0"`
	VolumeUnit  string  `json:"volume_unit" validate:"required,oneof=barrels metric_tons litres"`
	Message     string  `json:"message" validate:"required,min=20"`
	AgreedTerms bool    `json:"agreed_terms" validate:"eq=true"`
}

// Validate validates the CreateLeadRequest using the validator.
func (r *CreateLeadRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
