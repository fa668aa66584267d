package common

import coreerrors "stallion/core/errors"

// Module names understood by Guard.
const (
	ModuleBounty  = "bounty"
	ModuleProject = "project"
)

var ErrModulePaused = coreerrors.New(coreerrors.ErrLifecycle, "module paused")

type PauseView interface {
	IsPaused(module string) bool
}

func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// Pauses is a static PauseView keyed by module name.
type Pauses map[string]bool

// IsPaused implements PauseView.
func (p Pauses) IsPaused(module string) bool { return p[module] }
