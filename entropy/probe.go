package entropy

import "github.com/wippyai/getrandom/host"

// Probe is the outcome of feature-detecting a browser crypto object.
type Probe int

const (
	// ProbeAbsent means neither crypto nor msCrypto is defined.
	ProbeAbsent Probe = iota
	// ProbeNonFunctional means a crypto object exists but getRandomValues does not.
	ProbeNonFunctional
	// ProbeFunctional means getRandomValues can be called.
	ProbeFunctional
)

func (p Probe) String() string {
	switch p {
	case ProbeAbsent:
		return "absent"
	case ProbeNonFunctional:
		return "non-functional"
	case ProbeFunctional:
		return "functional"
	default:
		return "unknown"
	}
}

// Property names probed on the global object, in priority order.
const (
	PropCrypto   = "crypto"
	PropMSCrypto = "msCrypto"
)

// Detection describes the crypto object selected on a browser-style global.
type Detection struct {
	Object host.Object
	Fill   host.FillFunc
	Name   string
	Probe  Probe
}

// ProbeCrypto selects crypto over msCrypto and checks its getRandomValues.
func ProbeCrypto(g host.Global) Detection {
	var d Detection
	crypto, msCrypto := g.Crypto(), g.MSCrypto()
	switch {
	case crypto != nil:
		d.Name, d.Object = PropCrypto, crypto
	case msCrypto != nil:
		d.Name, d.Object = PropMSCrypto, msCrypto
	default:
		d.Probe = ProbeAbsent
		return d
	}

	d.Fill = d.Object.GetRandomValues()
	if d.Fill == nil {
		d.Probe = ProbeNonFunctional
		return d
	}
	d.Probe = ProbeFunctional
	return d
}
