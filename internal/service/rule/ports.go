package rule

import (
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

// ListenPorts derives the ports a rule listens on. Every rule must be built
// through it so persisted rules stay self-consistent:
//
//	TLS disabled                -> [80]
//	TLS enabled, redirect on    -> [80, 443]
//	TLS enabled, redirect off   -> [443]
func ListenPorts(tlsEnabled, redirectHTTP bool) []int {
	switch {
	case !tlsEnabled:
		return []int{entities.HTTPPort}
	case redirectHTTP:
		return []int{entities.HTTPPort, entities.HTTPSPort}
	default:
		return []int{entities.HTTPSPort}
	}
}

// RedirectsHTTP reports whether a TLS rule also listens on plain HTTP.
func RedirectsHTTP(r *entities.Rule) bool {
	return r.HasTLS() && containsPort(r.ListenPorts, entities.HTTPPort)
}

func portsConsistent(r *entities.Rule) bool {
	if !r.HasTLS() {
		return equalPorts(r.ListenPorts, ListenPorts(false, false))
	}
	return equalPorts(r.ListenPorts, ListenPorts(true, true)) ||
		equalPorts(r.ListenPorts, ListenPorts(true, false))
}

func equalPorts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsPort(ports []int, p int) bool {
	for _, x := range ports {
		if x == p {
			return true
		}
	}
	return false
}
