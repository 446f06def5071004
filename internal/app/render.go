package app

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/ui/output"
	"go.trai.ch/mason/internal/ui/style"
)

// renderCache prints the cache entries, one per line, with help text above.
// Internal and tool-owned entries are never shown; advanced entries only on
// request.
func (a *App) renderCache(entries []domain.CacheEntry, advanced bool) {
	out := output.New(a.stdout)

	shown := 0
	for _, e := range entries {
		if e.Type == domain.CacheInternal || e.Type == domain.CacheStatic {
			continue
		}
		if e.Advanced && !advanced {
			continue
		}
		shown++

		if e.HelpText != "" {
			for line := range strings.Lines(e.HelpText) {
				help := out.String("// " + strings.TrimRight(line, "\n")).
					Foreground(termenv.RGBColor(string(style.Slate)))
				_, _ = out.WriteString(help.String() + "\n")
			}
		}
		key := out.String(e.Key).Foreground(termenv.RGBColor(string(style.Copper))).Bold()
		tag := out.String(":" + e.Type.String()).Foreground(termenv.RGBColor(string(style.Slate)))
		_, _ = out.WriteString(fmt.Sprintf("%s%s = %s\n", key.String(), tag.String(), e.Value))
		if len(e.Choices) > 0 {
			choices := out.String("   choices: " + strings.Join(e.Choices, ", ")).
				Foreground(termenv.RGBColor(string(style.Slate)))
			_, _ = out.WriteString(choices.String() + "\n")
		}
	}

	if shown == 0 {
		_, _ = out.WriteString("no visible cache entries\n")
	}
}
