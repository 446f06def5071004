package app

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/muesli/termenv"

	"go.trai.ch/mason/internal/adapters/probe"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/ui/output"
	"go.trai.ch/mason/internal/ui/style"
)

// KitsOptions configures the Kits operation.
type KitsOptions struct {
	// Identify runs each kit's compilers once to report family and version.
	Identify bool
}

// Kits prints the kits the settings file defines, marking the active one.
func (a *App) Kits(ctx context.Context, opts KitsOptions) (int, error) {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return 1, err
	}

	out := output.New(a.stdout)
	if len(cfg.Kits) == 0 {
		_, _ = out.WriteString("no kits defined\n")
		return domain.RetOK, nil
	}

	identifier := probe.NewIdentifier(a.runner)
	for i := range cfg.Kits {
		kit := &cfg.Kits[i]
		a.renderKit(ctx, out, kit, kit.Name == cfg.ActiveKit, opts.Identify, identifier)
	}
	return domain.RetOK, nil
}

func (a *App) renderKit(
	ctx context.Context,
	out *termenv.Output,
	kit *domain.Kit,
	active bool,
	identify bool,
	identifier *probe.Identifier,
) {
	marker := out.String(style.Circle).Foreground(termenv.RGBColor(string(style.Slate)))
	if active {
		marker = out.String(style.Dot).Foreground(termenv.RGBColor(string(style.Green)))
	}
	name := out.String(kit.Name).Foreground(termenv.RGBColor(string(style.Copper))).Bold()
	_, _ = out.WriteString(marker.String() + " " + name.String() + "\n")

	for _, lang := range slices.Sorted(maps.Keys(kit.Compilers)) {
		path := kit.Compilers[lang]
		line := "    " + lang + ": " + path
		if identify {
			line += "  " + describeCompiler(ctx, identifier, path)
		}
		_, _ = out.WriteString(line + "\n")
	}
	if kit.ToolchainFile != "" {
		_, _ = out.WriteString("    toolchain: " + kit.ToolchainFile + "\n")
	}
	if kit.PreferredGenerator != nil {
		_, _ = out.WriteString("    generator: " + kit.PreferredGenerator.Name + "\n")
	}
	if kit.TargetTriple != "" {
		_, _ = out.WriteString("    triple: " + kit.TargetTriple + "\n")
	}
}

func describeCompiler(ctx context.Context, identifier *probe.Identifier, path string) string {
	info, err := identifier.Identify(ctx, path)
	if err != nil {
		return "(unidentified)"
	}
	if info.Version == "" {
		return fmt.Sprintf("(%s)", info.Kind)
	}
	return fmt.Sprintf("(%s %s)", info.Kind, info.Version)
}
