package email

import (
	"github.com/smallbiznis/invoiced/internal/config"
	"go.uber.org/fx"
)

// Module provides the SMTP transport.
var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

// NewFromConfig builds the transport from application configuration.
func NewFromConfig(cfg config.Config) Transport {
	return NewSMTP(cfg.SMTP)
}
