package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIMEPlain(t *testing.T) {
	raw, err := buildMIME(Message{
		From:    "billing@example.com",
		To:      "client@example.com",
		Subject: "Invoice INV-001",
		Text:    "Hello,\nplease find the invoice attached.",
	}, "<abc@localhost>")
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "From: billing@example.com\r\n")
	assert.Contains(t, out, "To: client@example.com\r\n")
	assert.Contains(t, out, "Message-ID: <abc@localhost>\r\n")
	assert.Contains(t, out, "Content-Type: text/plain")
	assert.Contains(t, out, "please find the invoice attached.")
	assert.NotContains(t, out, "multipart/mixed")
}

func TestBuildMIMEWithAttachment(t *testing.T) {
	raw, err := buildMIME(Message{
		From:    "billing@example.com",
		To:      "client@example.com",
		Subject: "Invoice INV-001",
		Text:    "body",
		Attachment: &Attachment{
			Filename:    "inv-001.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.7 fake"),
		},
	}, "<abc@localhost>")
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "multipart/mixed; boundary=")
	assert.Contains(t, out, `Content-Disposition: attachment; filename="inv-001.pdf"`)
	assert.Contains(t, out, "Content-Transfer-Encoding: base64")
	assert.Contains(t, out, "Content-Type: application/pdf")

	// boundary declared in the top header must delimit the parts
	boundary := out[strings.Index(out, "boundary=")+len("boundary=") : strings.Index(out, "\r\n\r\n")]
	boundary = strings.Trim(boundary, `"`)
	assert.True(t, strings.Count(out, "--"+boundary) >= 3)
}
