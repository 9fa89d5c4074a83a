package email

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smallbiznis/invoiced/internal/config"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	emailprov "github.com/smallbiznis/invoiced/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var sendAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "invoice_email_send_attempts_total",
	Help: "Invoice email delivery attempts by template and outcome.",
}, []string{"template", "outcome"})

// ServiceParam bundles the dispatcher dependencies.
type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Cfg       config.Config
	Documents domain.DocumentStore
	Transport emailprov.Transport
}

// Service implements domain.EmailService.
type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	cfg       config.Config
	documents domain.DocumentStore
	transport emailprov.Transport
}

// NewService builds the email dispatcher.
func NewService(p ServiceParam) domain.EmailService {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.email"),
		genID:     p.GenID,
		cfg:       p.Cfg,
		documents: p.Documents,
		transport: p.Transport,
	}
}

// Send emails an invoice with its PDF attached. Every attempt is logged,
// success or failure, before the outcome reaches the caller; a failed
// delivery surfaces as DeliveryError after its log entry is written.
func (s *Service) Send(ctx context.Context, invoiceID snowflake.ID, req domain.SendEmailRequest) (domain.InvoiceEmailLog, error) {
	inv, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return domain.InvoiceEmailLog{}, err
	}

	recipient, err := resolveRecipient(inv, req.RecipientEmail)
	if err != nil {
		return domain.InvoiceEmailLog{}, err
	}

	tmpl, err := domain.ParseEmailTemplate(string(req.Template))
	if err != nil {
		return domain.InvoiceEmailLog{}, err
	}

	rendered, err := Render(tmpl, inv, req.Message)
	if err != nil {
		return domain.InvoiceEmailLog{}, err
	}

	messageID, deliverErr := s.deliver(ctx, inv, recipient, rendered)

	entry := domain.InvoiceEmailLog{
		ID:             s.genID.Generate(),
		InvoiceID:      inv.ID,
		RecipientEmail: recipient,
		TemplateName:   string(tmpl),
		Subject:        rendered.Subject,
		Success:        deliverErr == nil,
	}
	if deliverErr != nil {
		msg := deliverErr.Error()
		entry.ErrorMessage = &msg
	} else if messageID != "" {
		entry.MessageID = &messageID
	}

	// The log write happens in both branches, and must land before the
	// caller sees the delivery outcome.
	if logErr := s.db.WithContext(ctx).Create(&entry).Error; logErr != nil {
		s.log.Error("append email log",
			zap.Stringer("invoice_id", inv.ID),
			zap.Error(logErr),
		)
		return domain.InvoiceEmailLog{}, logErr
	}

	if deliverErr != nil {
		sendAttempts.WithLabelValues(string(tmpl), "failure").Inc()
		s.log.Warn("invoice email delivery failed",
			zap.Stringer("invoice_id", inv.ID),
			zap.String("recipient", recipient),
			zap.Error(deliverErr),
		)
		return domain.InvoiceEmailLog{}, &domain.DeliveryError{Reason: deliverErr.Error(), Err: deliverErr}
	}

	sendAttempts.WithLabelValues(string(tmpl), "success").Inc()
	return entry, nil
}

// Logs lists delivery attempts for an invoice, newest first.
func (s *Service) Logs(ctx context.Context, invoiceID snowflake.ID) ([]domain.InvoiceEmailLog, error) {
	if _, err := s.loadInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}

	var logs []domain.InvoiceEmailLog
	err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at desc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// deliver obtains the cached document and hands the message to the transport.
// Generation and transport failures fold into one failure path.
func (s *Service) deliver(ctx context.Context, inv domain.Invoice, recipient string, rendered Rendered) (string, error) {
	path, err := s.documents.EnsureDocument(ctx, inv)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	result, err := s.transport.Send(ctx, emailprov.Message{
		From:    s.cfg.SMTP.From,
		To:      recipient,
		Subject: rendered.Subject,
		Text:    rendered.Text,
		Attachment: &emailprov.Attachment{
			Filename:    s.documents.DownloadName(inv),
			ContentType: "application/pdf",
			Content:     content,
		},
	})
	if err != nil {
		return "", err
	}
	return result.MessageID, nil
}

func (s *Service) loadInvoice(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	var inv domain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Status").
		Preload("LineItems").
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Invoice{}, domain.NewNotFound("invoice", id.String())
	}
	if err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

// resolveRecipient prefers the explicit address, then the client's, and fails
// before any document or network work when both are blank.
func resolveRecipient(inv domain.Invoice, explicit string) (string, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed, nil
	}
	if trimmed := strings.TrimSpace(inv.Client.Email); trimmed != "" {
		return trimmed, nil
	}
	return "", domain.ErrMissingRecipient
}
