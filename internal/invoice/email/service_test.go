package email

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoiced/internal/config"
	"github.com/smallbiznis/invoiced/internal/db"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
	emailprov "github.com/smallbiznis/invoiced/internal/providers/email"
	"github.com/smallbiznis/invoiced/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeDocumentStore struct {
	dir   string
	calls int
}

func (f *fakeDocumentStore) EnsureDocument(_ context.Context, inv domain.Invoice) (string, error) {
	f.calls++
	path := filepath.Join(f.dir, f.DownloadName(inv))
	if err := os.WriteFile(path, []byte("%PDF-1.7 fake"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeDocumentStore) DownloadName(inv domain.Invoice) string {
	return "invoice-" + inv.ID.String() + ".pdf"
}

type fakeTransport struct {
	calls int
	last  emailprov.Message
	err   error
}

func (f *fakeTransport) Send(_ context.Context, msg emailprov.Message) (emailprov.Result, error) {
	f.calls++
	f.last = msg
	if f.err != nil {
		return emailprov.Result{}, f.err
	}
	return emailprov.Result{MessageID: "<test-message@invoiced.test>"}, nil
}

type dispatcherFixture struct {
	svc       domain.EmailService
	db        *gorm.DB
	node      *snowflake.Node
	documents *fakeDocumentStore
	transport *fakeTransport
}

func newDispatcher(t *testing.T) *dispatcherFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, seed.EnsureStatuses(gdb))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	documents := &fakeDocumentStore{dir: t.TempDir()}
	transport := &fakeTransport{}

	svc := NewService(ServiceParam{
		DB:        gdb,
		Log:       zap.NewNop(),
		GenID:     node,
		Cfg:       config.Config{SMTP: config.SMTPConfig{From: "billing@invoiced.test"}},
		Documents: documents,
		Transport: transport,
	})

	return &dispatcherFixture{
		svc:       svc,
		db:        gdb,
		node:      node,
		documents: documents,
		transport: transport,
	}
}

func (f *dispatcherFixture) createInvoice(t *testing.T, clientEmail string) domain.Invoice {
	t.Helper()

	client := domain.Client{
		ID:    f.node.Generate(),
		Name:  "Acme Corp",
		Email: clientEmail,
	}
	require.NoError(t, f.db.Create(&client).Error)

	inv := domain.Invoice{
		ID:            f.node.Generate(),
		InvoiceNumber: "INV-1001",
		ClientID:      client.ID,
		StatusCode:    domain.StatusDraft,
		IssueDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Subtotal:      money.FromFloat(1500),
		Tax:           money.FromFloat(120),
		Total:         money.FromFloat(1620),
	}
	require.NoError(t, f.db.Omit("Client", "Status", "LineItems").Create(&inv).Error)
	return inv
}

func (f *dispatcherFixture) countLogs(t *testing.T, invoiceID snowflake.ID) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(&domain.InvoiceEmailLog{}).
		Where("invoice_id = ?", invoiceID).Count(&n).Error)
	return n
}

func TestSendSuccessLogsMessageID(t *testing.T) {
	f := newDispatcher(t)
	inv := f.createInvoice(t, "billing@acme.test")

	entry, err := f.svc.Send(context.Background(), inv.ID, domain.SendEmailRequest{})
	require.NoError(t, err)

	assert.True(t, entry.Success)
	assert.Equal(t, "billing@acme.test", entry.RecipientEmail)
	assert.Equal(t, string(domain.TemplateInvoiceIssued), entry.TemplateName)
	require.NotNil(t, entry.MessageID)
	assert.Equal(t, "<test-message@invoiced.test>", *entry.MessageID)
	assert.Nil(t, entry.ErrorMessage)

	assert.Equal(t, 1, f.documents.calls)
	assert.Equal(t, 1, f.transport.calls)
	assert.Equal(t, "billing@invoiced.test", f.transport.last.From)
	require.NotNil(t, f.transport.last.Attachment)
	assert.Equal(t, "invoice-"+inv.ID.String()+".pdf", f.transport.last.Attachment.Filename)
	assert.Equal(t, int64(1), f.countLogs(t, inv.ID))
}

func TestSendPrefersExplicitRecipient(t *testing.T) {
	f := newDispatcher(t)
	inv := f.createInvoice(t, "billing@acme.test")

	entry, err := f.svc.Send(context.Background(), inv.ID, domain.SendEmailRequest{
		RecipientEmail: "  cfo@acme.test  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "cfo@acme.test", entry.RecipientEmail)
	assert.Equal(t, "cfo@acme.test", f.transport.last.To)
}

func TestSendTransportFailureIsLogged(t *testing.T) {
	f := newDispatcher(t)
	inv := f.createInvoice(t, "billing@acme.test")
	f.transport.err = errors.New("550 mailbox unavailable")

	_, err := f.svc.Send(context.Background(), inv.ID, domain.SendEmailRequest{})

	var deliveryErr *domain.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Contains(t, deliveryErr.Reason, "550 mailbox unavailable")

	var logs []domain.InvoiceEmailLog
	require.NoError(t, f.db.Where("invoice_id = ?", inv.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Success)
	require.NotNil(t, logs[0].ErrorMessage)
	assert.Contains(t, *logs[0].ErrorMessage, "550 mailbox unavailable")
	assert.Nil(t, logs[0].MessageID)
}

func TestSendMissingRecipientStopsEarly(t *testing.T) {
	f := newDispatcher(t)
	inv := f.createInvoice(t, "")

	_, err := f.svc.Send(context.Background(), inv.ID, domain.SendEmailRequest{})
	assert.ErrorIs(t, err, domain.ErrMissingRecipient)

	assert.Equal(t, 0, f.documents.calls)
	assert.Equal(t, 0, f.transport.calls)
	assert.Equal(t, int64(0), f.countLogs(t, inv.ID))
}

func TestSendUnknownTemplateRejected(t *testing.T) {
	f := newDispatcher(t)
	inv := f.createInvoice(t, "billing@acme.test")

	_, err := f.svc.Send(context.Background(), inv.ID, domain.SendEmailRequest{
		Template: domain.EmailTemplate("invoice-party"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedTemplate)

	assert.Equal(t, 0, f.transport.calls)
	assert.Equal(t, int64(0), f.countLogs(t, inv.ID))
}

func TestSendUnknownInvoice(t *testing.T) {
	f := newDispatcher(t)

	_, err := f.svc.Send(context.Background(), f.node.Generate(), domain.SendEmailRequest{})

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLogsListsAllAttempts(t *testing.T) {
	f := newDispatcher(t)
	inv := f.createInvoice(t, "billing@acme.test")

	_, err := f.svc.Send(context.Background(), inv.ID, domain.SendEmailRequest{})
	require.NoError(t, err)

	f.transport.err = errors.New("connection refused")
	_, err = f.svc.Send(context.Background(), inv.ID, domain.SendEmailRequest{
		Template: domain.TemplateInvoiceReminder,
	})
	require.Error(t, err)

	logs, err := f.svc.Logs(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, inv.ID, entry.InvoiceID)
	}
}
