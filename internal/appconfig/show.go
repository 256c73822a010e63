package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		fmt.Fprintln(out, "  (not loaded)")
		return
	}

	height, width, steps, seed, warmup := cfg.Geometry()

	fmt.Fprintf(out, "  Model:            %s\n", cfg.Model)
	fmt.Fprintf(out, "  Image Path:       %s\n", cfg.ImagePath)
	fmt.Fprintf(out, "  Prompt Path:      %s\n", cfg.PromptPath)
	fmt.Fprintf(out, "  Generator:        %s\n", strings.Join(cfg.Generator, " "))
	fmt.Fprintf(out, "  Resolution:       %dx%d\n", width, height)
	fmt.Fprintf(out, "  Steps:            %d\n", steps)
	fmt.Fprintf(out, "  Seed:             %d\n", seed)
	fmt.Fprintf(out, "  Warmup:           %d\n", warmup)
	fmt.Fprintf(out, "  Timeout:          %s\n", cfg.InvocationTimeout())
	fmt.Fprintf(out, "  Categories:       %s\n", strings.Join(cfg.CategoryNames(), ", "))
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())

	fmt.Fprintln(out, "  Configurations:")
	for _, spec := range cfg.RunSpecs() {
		fmt.Fprintf(out, "    %-20s compile=%v deepCache=%v\n", spec.Name, spec.Compile, spec.DeepCache)
	}

	fmt.Fprintln(out, "  Scorers:")
	fmt.Fprintf(out, "    ssim:      enabled=%v baseline=%s\n", cfg.Scorers.SSIM.Enabled, cfg.SSIMBaseline())
	fmt.Fprintf(out, "    clip:      enabled=%v\n", cfg.Scorers.CLIP.Enabled)
	fmt.Fprintf(out, "    aesthetic: enabled=%v\n", cfg.Scorers.Aesthetic.Enabled)
	fmt.Fprintf(out, "    inception: enabled=%v\n", cfg.Scorers.Inception.Enabled)
	fmt.Fprintf(out, "    hps:       enabled=%v\n", cfg.Scorers.HPS.Enabled)
}
