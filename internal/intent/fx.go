package intent

import (
	"github.com/nvillagra/prodtrack/internal/intent/gemini"
	"go.uber.org/fx"
)

var Module = fx.Module("intent.extractor",
	fx.Provide(gemini.NewClient),
)
