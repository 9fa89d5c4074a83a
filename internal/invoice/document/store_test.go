package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoiced/internal/config"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
	"github.com/smallbiznis/invoiced/internal/providers/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingProvider stamps the render payload into the output so staleness is
// observable, and counts invocations.
type countingProvider struct {
	calls int
}

func (p *countingProvider) GenerateInvoice(ctx context.Context, data pdf.InvoiceData) ([]byte, error) {
	p.calls++
	return []byte("%PDF " + data.InvoiceNumber + " total=" + data.Total), nil
}

func testInvoice(t *testing.T) domain.Invoice {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return domain.Invoice{
		ID:            node.Generate(),
		InvoiceNumber: "INV-2024/001",
		Client:        domain.Client{Name: "Acme Corp", Email: "billing@acme.test"},
		IssueDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Subtotal:      money.FromFloat(100),
		Tax:           money.FromFloat(8),
		Total:         money.FromFloat(108),
		LineItems: []domain.InvoiceLineItem{
			{Description: "Work", Quantity: 1, UnitPrice: money.FromFloat(100), LineTotal: money.FromFloat(100)},
		},
	}
}

func newTestStore(t *testing.T, provider pdf.Provider) (*Store, string) {
	t.Helper()

	root := t.TempDir()
	store := NewStore(StoreParam{
		Cfg: config.Config{DocumentDir: root},
		Log: zap.NewNop(),
		PDF: provider,
	}).(*Store)
	return store, root
}

func TestSanitizeFileSegment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"INV-2024/001", "inv-2024-001"},
		{"  Invoice #42  ", "invoice-42"},
		{"already_safe-1", "already_safe-1"},
		{"///", ""},
		{"A--B", "a-b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeFileSegment(tc.in), "input %q", tc.in)
	}
}

func TestEnsureDocumentGeneratesOnce(t *testing.T) {
	provider := &countingProvider{}
	store, root := newTestStore(t, provider)
	inv := testInvoice(t)

	first, err := store.EnsureDocument(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "invoice-"+inv.ID.String()+"-inv-2024-001.pdf"), first)

	contents, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := store.EnsureDocument(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)

	again, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, contents, again)
}

func TestEnsureDocumentServesStaleBytes(t *testing.T) {
	// The cache is identity-keyed: editing the invoice does not regenerate
	// the document, so a re-download serves the original bytes.
	provider := &countingProvider{}
	store, _ := newTestStore(t, provider)
	inv := testInvoice(t)

	path, err := store.EnsureDocument(context.Background(), inv)
	require.NoError(t, err)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	edited := inv
	edited.Total = money.FromFloat(9999)

	samePath, err := store.EnsureDocument(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, path, samePath)
	assert.Equal(t, 1, provider.calls)

	served, err := os.ReadFile(samePath)
	require.NoError(t, err)
	assert.Equal(t, original, served)
	assert.Contains(t, string(served), "total=$108.00")
}

func TestEnsureDocumentUnsanitizableNumberFallsBack(t *testing.T) {
	provider := &countingProvider{}
	store, root := newTestStore(t, provider)
	inv := testInvoice(t)
	inv.InvoiceNumber = "///"

	path, err := store.EnsureDocument(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "invoice-"+inv.ID.String()+".pdf"), path)
	assert.Equal(t, "invoice-"+inv.ID.String()+".pdf", store.DownloadName(inv))
}

func TestDownloadName(t *testing.T) {
	provider := &countingProvider{}
	store, _ := newTestStore(t, provider)
	inv := testInvoice(t)

	assert.Equal(t, "inv-2024-001.pdf", store.DownloadName(inv))
}

func TestEnsureDocumentFatalOnUnexpectedStatError(t *testing.T) {
	provider := &countingProvider{}
	store, root := newTestStore(t, provider)
	inv := testInvoice(t)

	// Turn the expected artifact path into a directory that cannot be
	// opened as a file by putting a regular file where the root should be.
	require.NoError(t, os.RemoveAll(root))
	require.NoError(t, os.WriteFile(root, []byte("not a directory"), 0o644))

	_, err := store.EnsureDocument(context.Background(), inv)
	require.Error(t, err)
	assert.Equal(t, 0, provider.calls)
}
