package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceParam bundles the invoice service dependencies.
type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service implements domain.Service on the relational store.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

// NewService builds the invoice service.
func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
	}
}

// Create validates the request, derives totals and persists the invoice graph.
func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	code := domain.DefaultStatusCode
	if req.StatusCode != "" {
		code = domain.NormalizeStatusCode(req.StatusCode)
	}

	status, err := s.findStatusByCode(ctx, code)
	if err != nil {
		return domain.Invoice{}, err
	}

	if err := s.ensureClientExists(ctx, req.ClientID); err != nil {
		return domain.Invoice{}, err
	}

	calc, err := CalculateTotals(req.LineItems, req.TaxRate)
	if err != nil {
		return domain.Invoice{}, err
	}

	inv := domain.Invoice{
		ID:            s.genID.Generate(),
		InvoiceNumber: req.InvoiceNumber,
		ClientID:      req.ClientID,
		StatusCode:    status.Code,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		Subtotal:      calc.Subtotal,
		Tax:           calc.Tax,
		Total:         calc.Total,
	}
	inv.LineItems = s.buildLineItems(inv.ID, calc.LineItems)

	if err := s.db.WithContext(ctx).Omit("Client", "Status").Create(&inv).Error; err != nil {
		s.log.Error("create invoice", zap.Error(err))
		return domain.Invoice{}, err
	}

	return s.GetByID(ctx, inv.ID)
}

// Update applies a partial update. Totals are recomputed only when line items
// or a tax rate is supplied; when only line items change, the prior effective
// tax rate (tax/subtotal) is preserved.
func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	current := domain.NormalizeStatusCode(string(existing.StatusCode))
	requested := current
	if req.StatusCode != nil {
		requested = domain.NormalizeStatusCode(*req.StatusCode)
	}

	if err := AssertTransition(&current, requested); err != nil {
		return domain.Invoice{}, err
	}

	updates := map[string]any{}

	if requested != current {
		status, err := s.findStatusByCode(ctx, requested)
		if err != nil {
			return domain.Invoice{}, err
		}
		updates["status_code"] = status.Code
	} else if req.StatusCode != nil {
		// Explicit no-op restatement still has to name a known code.
		if _, err := s.findStatusByCode(ctx, requested); err != nil {
			return domain.Invoice{}, err
		}
	}

	shouldRecalculate := req.LineItems != nil || req.TaxRate != nil

	var calc *domain.Calculation
	if shouldRecalculate {
		items := req.LineItems
		if items == nil {
			// Re-derive from the persisted rows, not their stored line
			// totals, so upstream rounding corrections reapply.
			items = make([]domain.LineItemInput, 0, len(existing.LineItems))
			for _, li := range existing.LineItems {
				items = append(items, domain.LineItemInput{
					Description: li.Description,
					Quantity:    li.Quantity,
					UnitPrice:   li.UnitPrice,
				})
			}
		}

		rate := req.TaxRate
		if rate == nil {
			derived := effectiveTaxRate(existing)
			rate = &derived
		}

		result, err := CalculateTotals(items, rate)
		if err != nil {
			return domain.Invoice{}, err
		}
		calc = &result
	}

	if req.InvoiceNumber != nil {
		updates["invoice_number"] = *req.InvoiceNumber
	}
	if req.IssueDate != nil {
		updates["issue_date"] = *req.IssueDate
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.ClientID != nil {
		if err := s.ensureClientExists(ctx, *req.ClientID); err != nil {
			return domain.Invoice{}, err
		}
		updates["client_id"] = *req.ClientID
	}
	if calc != nil {
		updates["subtotal"] = calc.Subtotal
		updates["tax"] = calc.Tax
		updates["total"] = calc.Total
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&domain.Invoice{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if calc != nil && req.LineItems != nil {
			if err := tx.Where("invoice_id = ?", id).Delete(&domain.InvoiceLineItem{}).Error; err != nil {
				return err
			}
			replacement := s.buildLineItems(id, calc.LineItems)
			if err := tx.Create(&replacement).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.log.Error("update invoice", zap.Stringer("invoice_id", id), zap.Error(err))
		return domain.Invoice{}, err
	}

	return s.GetByID(ctx, id)
}

// GetByID loads the full invoice graph.
func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	var inv domain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Status").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_line_items.id asc")
		}).
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Invoice{}, domain.NewNotFound("invoice", id.String())
	}
	if err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

// List returns invoices matching the optional status and client filters.
func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) ([]domain.Invoice, error) {
	q := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Status").
		Preload("LineItems").
		Order("created_at desc")

	if req.StatusCode != nil {
		q = q.Where("status_code = ?", domain.NormalizeStatusCode(string(*req.StatusCode)))
	}
	if req.ClientID != nil {
		q = q.Where("client_id = ?", *req.ClientID)
	}

	var invoices []domain.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListStatuses returns the status reference table in display order.
func (s *Service) ListStatuses(ctx context.Context) ([]domain.InvoiceStatus, error) {
	var statuses []domain.InvoiceStatus
	if err := s.db.WithContext(ctx).Order("sort_order asc").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *Service) findStatusByCode(ctx context.Context, code domain.StatusCode) (domain.InvoiceStatus, error) {
	var status domain.InvoiceStatus
	err := s.db.WithContext(ctx).First(&status, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.InvoiceStatus{}, domain.NewNotFound("status code", string(code))
	}
	if err != nil {
		return domain.InvoiceStatus{}, err
	}
	return status, nil
}

func (s *Service) ensureClientExists(ctx context.Context, id snowflake.ID) error {
	var client domain.Client
	err := s.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFound("client", id.String())
	}
	return err
}

func (s *Service) buildLineItems(invoiceID snowflake.ID, items []domain.CalculatedLineItem) []domain.InvoiceLineItem {
	rows := make([]domain.InvoiceLineItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, domain.InvoiceLineItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return rows
}

// effectiveTaxRate reverse-derives the proportional rate baked into a
// persisted invoice. A zero subtotal yields zero, guarding the division.
func effectiveTaxRate(inv domain.Invoice) money.Money {
	if inv.Subtotal.IsZero() {
		return money.Zero()
	}
	return inv.Tax.Div(inv.Subtotal)
}
