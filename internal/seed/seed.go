// Package seed bootstraps reference data at startup.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultStatuses = []domain.InvoiceStatus{
	{Code: domain.StatusDraft, Label: "Draft", SortOrder: 1},
	{Code: domain.StatusSent, Label: "Sent", SortOrder: 2},
	{Code: domain.StatusPaid, Label: "Paid", SortOrder: 3},
	{Code: domain.StatusOverdue, Label: "Overdue", SortOrder: 4},
}

// EnsureStatuses seeds the closed lifecycle status set. Idempotent; existing
// rows are left untouched.
func EnsureStatuses(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	statuses := make([]domain.InvoiceStatus, len(defaultStatuses))
	copy(statuses, defaultStatuses)

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&statuses).Error
	})
}

// EnsureDemoClient seeds a starter client so a fresh install has something to
// invoice. Keyed on the unique email, so reruns are no-ops.
func EnsureDemoClient(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	client := domain.Client{
		ID:    node.Generate(),
		Name:  "Acme Corporation",
		Email: "billing@acme.example.com",
	}

	ctx := context.Background()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&client).Error
}
