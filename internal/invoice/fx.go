// Package invoice wires the invoice feature modules together.
package invoice

import (
	"github.com/smallbiznis/invoiced/internal/invoice/document"
	"github.com/smallbiznis/invoiced/internal/invoice/email"
	"github.com/smallbiznis/invoiced/internal/invoice/service"
	"go.uber.org/fx"
)

// Module provides the invoice, client, document and email services.
var Module = fx.Module("invoice",
	fx.Provide(service.NewService),
	fx.Provide(service.NewClientService),
	fx.Provide(document.NewStore),
	fx.Provide(email.NewService),
)
