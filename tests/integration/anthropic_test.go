//go:build integration

package integration

import (
	"testing"

	"github.com/petal-labs/unify/providers"
)

func TestAnthropic_Conformance(t *testing.T) {
	key := requireKey(t, "ANTHROPIC_API_KEY")

	runConformance(t, conformanceConfig{
		provider: "anthropic",
		model:    "claude-3-5-haiku-latest",
		settings: providers.Settings{APIKey: key},
	})
}
