package kernel

import "github.com/zernjs/kernel-sub004/config"

// configSource adapts *config.Config to lifecycle.OptsSource (SPEC_FULL
// §4.2a): a plugin's raw options, absent an explicit value passed to
// Builder.Use, fall back to the "plugins.<name>" key of the kernel's
// bound configuration tree.
type configSource struct{ cfg *config.Config }

func (s *configSource) RawOptions(pluginName string) (any, bool) {
	if s.cfg == nil {
		return nil, false
	}
	v := s.cfg.Get("plugins." + pluginName)
	if v == nil {
		return nil, false
	}
	return v, true
}
