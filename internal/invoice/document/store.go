// Package document maps invoices to durable PDF artifacts.
//
// The store is identity-keyed: once a file exists for an invoice it is served
// as-is, even if the invoice has been edited since. Content-keyed
// invalidation is deliberately absent.
package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smallbiznis/invoiced/internal/config"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var documentsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "invoice_documents_generated_total",
	Help: "Number of invoice PDF documents generated (cache misses).",
})

var (
	fileSegmentStrip = regexp.MustCompile(`[^a-zA-Z0-9-_]+`)
	fileSegmentRuns  = regexp.MustCompile(`-{2,}`)
)

// sanitizeFileSegment reduces a freeform invoice number to a safe filename
// segment: disallowed runs become single hyphens, edges are trimmed, and the
// result is lower-cased.
func sanitizeFileSegment(value string) string {
	s := fileSegmentStrip.ReplaceAllString(value, "-")
	s = fileSegmentRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.ToLower(s)
}

// StoreParam bundles the document store dependencies.
type StoreParam struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
	PDF pdf.Provider
}

// Store implements domain.DocumentStore on the local filesystem.
type Store struct {
	root string
	pdf  pdf.Provider
	log  *zap.Logger
}

// NewStore builds the filesystem-backed document store.
func NewStore(p StoreParam) domain.DocumentStore {
	return &Store{
		root: p.Cfg.DocumentDir,
		pdf:  p.PDF,
		log:  p.Log.Named("invoice.document"),
	}
}

// Path is the deterministic artifact location for an invoice.
func (s *Store) Path(inv domain.Invoice) string {
	return filepath.Join(s.root, fileName(inv))
}

// DownloadName is the client-facing filename for the artifact.
func (s *Store) DownloadName(inv domain.Invoice) string {
	if sanitized := sanitizeFileSegment(inv.InvoiceNumber); sanitized != "" {
		return sanitized + ".pdf"
	}
	return fmt.Sprintf("invoice-%s.pdf", inv.ID)
}

// EnsureDocument returns the artifact path, generating the PDF on first use.
// An existing readable file short-circuits generation; only a missing file is
// treated as a cache miss, any other filesystem error is fatal.
func (s *Store) EnsureDocument(ctx context.Context, inv domain.Invoice) (string, error) {
	path := s.Path(inv)

	f, err := os.Open(path)
	if err == nil {
		_ = f.Close()
		return path, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", err
	}

	data, err := s.pdf.GenerateInvoice(ctx, BuildInvoiceData(inv))
	if err != nil {
		return "", err
	}

	if err := writeAtomic(s.root, path, data); err != nil {
		return "", err
	}

	documentsGenerated.Inc()
	s.log.Info("generated invoice document",
		zap.Stringer("invoice_id", inv.ID),
		zap.String("path", path),
	)
	return path, nil
}

// writeAtomic writes through a temp file and rename so concurrent readers
// never observe a partial document.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".invoice-*.pdf")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

func fileName(inv domain.Invoice) string {
	if sanitized := sanitizeFileSegment(inv.InvoiceNumber); sanitized != "" {
		return fmt.Sprintf("invoice-%s-%s.pdf", inv.ID, sanitized)
	}
	return fmt.Sprintf("invoice-%s.pdf", inv.ID)
}
