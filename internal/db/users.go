package db

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAdmin creates a new admin account and returns its ID.
func (db *DB) CreateAdmin(ctx context.Context, name, email, phone string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO admin_users (name, email, phone)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, email, phone,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return id, nil
}

// GetAdmin retrieves an admin by ID, or nil if it does not exist.
func (db *DB) GetAdmin(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	var u AdminUser
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(phone, ''), COALESCE(password_hash, ''), password_set, created_at, updated_at
		 FROM admin_users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.PasswordSet, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &u, nil
}

// GetAdminByEmail retrieves an admin by email, or nil if it does not exist.
func (db *DB) GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error) {
	var u AdminUser
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(phone, ''), COALESCE(password_hash, ''), password_set, created_at, updated_at
		 FROM admin_users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.PasswordSet, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &u, nil
}

// CheckEmailExists reports whether an admin with the email already exists.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword sets the password hash for an admin.
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE admin_users SET password_hash = $1, password_set = TRUE, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ProfileUpdate holds the partial field set accepted by the profile PATCH.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// UpdateProfile applies a partial update to an admin's own row.
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, update *ProfileUpdate) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE admin_users SET
		     name = COALESCE($1, name),
		     phone = COALESCE($2, phone),
		     updated_at = NOW()
		 WHERE id = $3`,
		update.Name, update.Phone, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("admin not found: %s", id)
	}
	return nil
}

// InsertAuditEntry appends an admin action to the audit log. Callers treat
// this as best-effort; on failure they log and continue.
func (db *DB) InsertAuditEntry(ctx context.Context, e *AuditEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO audit_entries (admin_id, action, entity, entity_id, detail)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.AdminID, e.Action, e.Entity, e.EntityID, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// AuditBestEffort writes an audit entry and logs instead of failing.
func (db *DB) AuditBestEffort(ctx context.Context, e *AuditEntry) {
	if err := db.InsertAuditEntry(ctx, e); err != nil {
		log.Printf("[audit] failed to record %s on %s: %v", e.Action, e.Entity, err)
	}
}
