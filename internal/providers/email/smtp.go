package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/invoiced/internal/config"
)

// SMTPTransport sends mail over SMTP, building a multipart/mixed MIME
// message when an attachment is present.
type SMTPTransport struct {
	cfg config.SMTPConfig
}

// NewSMTP builds the SMTP transport.
func NewSMTP(cfg config.SMTPConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) (Result, error) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), t.cfg.Host)

	raw, err := buildMIME(msg, messageID)
	if err != nil {
		return Result{}, err
	}

	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
	auth := t.auth()

	if t.cfg.Secure {
		if err := t.sendTLS(addr, auth, msg, raw); err != nil {
			return Result{}, err
		}
		return Result{MessageID: messageID}, nil
	}

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, raw); err != nil {
		return Result{}, err
	}
	return Result{MessageID: messageID}, nil
}

func (t *SMTPTransport) auth() smtp.Auth {
	if t.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
}

// sendTLS speaks SMTP over an implicit TLS connection (port 465 style);
// plain connections go through smtp.SendMail, which upgrades via STARTTLS
// when the server offers it.
func (t *SMTPTransport) sendTLS(addr string, auth smtp.Auth, msg Message, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: t.cfg.Host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(msg.From); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// buildMIME assembles the wire message: plain headers and body when there is
// no attachment, multipart/mixed with a base64 PDF part otherwise.
func buildMIME(msg Message, messageID string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: %s\r\n", messageID)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if msg.Attachment == nil {
		buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		buf.WriteString(msg.Text)
		return buf.Bytes(), nil
	}

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=\"UTF-8\"")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(msg.Text)); err != nil {
		return nil, err
	}

	att := msg.Attachment
	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", att.ContentType)
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	attPart, err := writer.CreatePart(attHeader)
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(att.Content)))
	base64.StdEncoding.Encode(encoded, att.Content)
	for len(encoded) > 0 {
		n := 76
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := attPart.Write(encoded[:n]); err != nil {
			return nil, err
		}
		if _, err := attPart.Write([]byte("\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[n:]
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
