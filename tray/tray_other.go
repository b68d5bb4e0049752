//go:build !darwin

package tray

func Init() <-chan struct{}      { return make(chan struct{}) }
func updateActiveIcon(bool)      {}
func updateWarningIcon(bool)     {}
func updateTooltip(string)       {}
func updateSessionsTitle(string) {}
