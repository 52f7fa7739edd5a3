// Package steps embeds the default step-tree description used by the demo
// CLI and its tests, so a single source of truth is compiled into the
// binary rather than read from an external config path (§4.4, §6).
package steps

import (
	_ "embed"
	"strings"

	"github.com/velamesh/ipa-core/pkg/step"
)

//go:embed default.steps
var defaultFile string

// BuildDefault parses the embedded default steps file into a Tree.
func BuildDefault() (*step.Tree, error) {
	return step.BuildTree(strings.NewReader(defaultFile))
}
