package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hospitalms/hospital-api/internal/database"
	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/rs/zerolog/log"
)

// AuditRepository handles audit log database operations
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create creates a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := database.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// Record writes an audit entry best-effort: a failed write is logged but
// never fails the audited operation.
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditLog) {
	if err := r.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("action", entry.Action).
			Str("resource_type", entry.ResourceType).
			Msg("Failed to record audit entry")
	}
}

// GetByResource retrieves audit logs for a specific resource
func (r *AuditRepository) GetByResource(ctx context.Context, resourceType string, resourceID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := database.DB.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	return logs, nil
}

// GetRecent retrieves audit logs written since the given time
func (r *AuditRepository) GetRecent(ctx context.Context, since time.Time, limit, offset int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := database.DB.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent audit logs: %w", err)
	}
	return logs, nil
}
