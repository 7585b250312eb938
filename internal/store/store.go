// Package store provides the durable escalation archive.
package store

import (
	"context"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
)

// Archive defines the interface for persisting escalation records.
type Archive interface {
	// Record persists one escalation record.
	Record(ctx context.Context, rec *domain.EscalationRecord) error

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.EscalationRecord, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
