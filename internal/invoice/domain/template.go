package domain

import "strings"

// EmailTemplate names one of the closed set of invoice email templates.
type EmailTemplate string

const (
	TemplateInvoiceIssued   EmailTemplate = "invoice-issued"
	TemplateInvoiceReminder EmailTemplate = "invoice-reminder"
)

// DefaultEmailTemplate is used when a send request omits a template.
const DefaultEmailTemplate = TemplateInvoiceIssued

// EmailTemplateNames lists the recognized template names in registry order.
func EmailTemplateNames() []EmailTemplate {
	return []EmailTemplate{TemplateInvoiceIssued, TemplateInvoiceReminder}
}

// ParseEmailTemplate resolves a caller-supplied template name. An empty name
// falls back to the default; unknown names are rejected at the boundary.
func ParseEmailTemplate(name string) (EmailTemplate, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultEmailTemplate, nil
	}
	for _, known := range EmailTemplateNames() {
		if EmailTemplate(trimmed) == known {
			return known, nil
		}
	}
	return "", ErrUnsupportedTemplate
}
