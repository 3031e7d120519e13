package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateLead stores a contact-form inquiry with status "pending" and returns
// its ID.
func (db *DB) CreateLead(ctx context.Context, l *Lead) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO leads (name, email, phone, company, category, product_type, volume, volume_unit, message, agreed_terms, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending')
		 RETURNING id`,
		l.Name, l.Email, l.Phone, l.Company, l.Category, l.ProductType, l.Volume, l.VolumeUnit, l.Message, l.AgreedTerms,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return id, nil
}

// GetLead retrieves a lead by ID, or nil if it does not exist.
func (db *DB) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	var l Lead
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, company, category, product_type, volume, volume_unit, message, agreed_terms, status, created_at
		 FROM leads WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Category, &l.ProductType,
		&l.Volume, &l.VolumeUnit, &l.Message, &l.AgreedTerms, &l.Status, &l.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &l, nil
}

// LeadFilters holds optional filters for listing leads.
type LeadFilters struct {
	Status   string
	Category string
	Limit    int
}

// ListLeads retrieves leads with optional filters, newest first.
func (db *DB) ListLeads(ctx context.Context, filters LeadFilters) ([]Lead, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	builder := psql.Select("id", "name", "email", "phone", "company", "category", "product_type",
		"volume", "volume_unit", "message", "agreed_terms", "status", "created_at").
		From("leads").
		OrderBy("created_at DESC").
		Limit(uint64(filters.Limit))
	if filters.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filters.Status})
	}
	if filters.Category != "" {
		builder = builder.Where(squirrel.Eq{"category": filters.Category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lead query: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Category, &l.ProductType,
			&l.Volume, &l.VolumeUnit, &l.Message, &l.AgreedTerms, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, nil
}
