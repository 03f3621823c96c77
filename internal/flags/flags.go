// Package flags resolves feature toggles the wizard consults at session
// start and on reset
package flags

import "os"

// Provider answers flag lookups
type Provider interface {
	DebugPanelVisible() bool
}

// EnvProvider reads flags from environment variables
type EnvProvider struct{}

// DebugPanelVisible is driven by WIZARD_DEBUG_PANEL ("1" or "true")
func (EnvProvider) DebugPanelVisible() bool {
	v := os.Getenv("WIZARD_DEBUG_PANEL")
	return v == "1" || v == "true"
}

// Static is a fixed-value provider for tests
type Static struct {
	DebugPanel bool
}

func (s Static) DebugPanelVisible() bool {
	return s.DebugPanel
}
