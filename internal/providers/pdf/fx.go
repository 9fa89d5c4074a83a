package pdf

import "go.uber.org/fx"

// Module provides the PDF renderer.
var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
