package descriptor

import (
	"log/slog"

	"github.com/chriscorrea/textspan/internal/pattern"
)

var transformCache = pattern.NewCache()

// ReplaceTransform builds a TransformFunc from replacement templates such as "$1"
// or "${name}", expanded against the descriptor's own pattern compiled with opts.
// An empty template leaves that field to fall back to the raw text.
func ReplaceTransform(display, value string, opts pattern.Options) TransformFunc {
	return func(text, expr string) Transformed {
		re, err := transformCache.Compile(expr, opts)
		if err != nil {
			slog.Debug("Transform pattern did not compile", "pattern", expr, "error", err)
			return Transformed{}
		}

		var out Transformed
		if display != "" {
			if out.Display, err = re.Replace(text, display, -1, -1); err != nil {
				slog.Debug("Display template failed", "pattern", expr, "error", err)
				out.Display = ""
			}
		}
		if value != "" {
			if out.Value, err = re.Replace(text, value, -1, -1); err != nil {
				slog.Debug("Value template failed", "pattern", expr, "error", err)
				out.Value = ""
			}
		}
		return out
	}
}
