// Package email provides the outbound mail transport.
package email

import "context"

// Attachment is a single file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a fully-resolved outbound mail.
type Message struct {
	From       string
	To         string
	Subject    string
	Text       string
	Attachment *Attachment
}

// Result reports a completed send.
type Result struct {
	MessageID string
}

// Transport sends mail. Implementations are stateless; a connection is
// established per send.
type Transport interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
