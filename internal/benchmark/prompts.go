// internal/benchmark/prompts.go
package benchmark

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eikonbench/eikon/internal/logging"
	"github.com/eikonbench/eikon/internal/util"
)

// promptRuneLimit caps materialized prompt files; generation pipelines only
// tokenize a bounded prefix.
const promptRuneLimit = 300

// MaterializePrompts writes inline prompt lists to disk in the layout the
// generator and scorers read: one <category>/NNNNN.txt file per prompt, in
// declaration order, capped at promptRuneLimit runes. Categories without
// inline prompts are left untouched.
func MaterializePrompts(promptRoot string, prompts map[string][]string, categories []string) error {
	for _, category := range categories {
		lines := prompts[category]
		if len(lines) == 0 {
			continue
		}
		dir := filepath.Join(promptRoot, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create prompt directory: %w", err)
		}
		for i, prompt := range lines {
			name := filepath.Join(dir, fmt.Sprintf("%05d.txt", i))
			if err := util.WriteFile(name, []byte(util.TruncateRunes(prompt, promptRuneLimit))); err != nil {
				return fmt.Errorf("write prompt %s: %w", name, err)
			}
		}
		logging.LogEvent("[BENCHMARK] Materialized %d prompts for category %s", len(lines), category)
	}
	return nil
}
