package entropy

import (
	"go.uber.org/zap"

	"github.com/wippyai/getrandom/errors"
	"github.com/wippyai/getrandom/host"
)

// Resolve probes env for a secure entropy provider.
//
// A browser-style global selects the browser path; its absence selects the
// server-side module path without touching any browser property. Resolve has
// no side effects beyond the probe itself.
func Resolve(env host.Env) (Source, error) {
	if self, err := env.Self(); err == nil && self != nil {
		d := ProbeCrypto(self)
		switch d.Probe {
		case ProbeAbsent:
			return nil, errors.CryptoUndefined()
		case ProbeNonFunctional:
			return nil, errors.GetRandomValuesUndefined(d.Name)
		}
		Logger().Debug("resolved entropy source",
			zap.Stringer("kind", KindBrowser),
			zap.String("object", d.Name))
		return NewBrowserSource(d.Name, d.Fill), nil
	}

	mod, err := env.Require(host.CryptoModule)
	if err != nil {
		return nil, errors.ModuleUnavailable(host.CryptoModule, err)
	}
	if mod == nil {
		return nil, errors.ModuleUnavailable(host.CryptoModule, nil)
	}
	Logger().Debug("resolved entropy source",
		zap.Stringer("kind", KindNode),
		zap.String("module", host.CryptoModule))
	return NewNodeSource(mod), nil
}
