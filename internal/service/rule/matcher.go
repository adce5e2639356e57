package rule

import (
	"net/netip"
	"net/textproto"
	"strings"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

// Matches reports whether req satisfies cond: the source address lies inside
// the condition's CIDR and every declared header is present with exactly the
// declared value. Headers the condition does not mention are ignored, header
// names compare case-insensitively.
func Matches(cond entities.Condition, req entities.RequestContext) bool {
	return matchSource(cond.IPCIDR, req.SourceIP) && matchHeaders(cond.Headers, req.Headers)
}

func matchSource(cidr, source string) bool {
	if isMatchAll(cidr) {
		return true
	}

	prefix, err := parseCondition(cidr)
	if err != nil {
		return false
	}
	addr, ok := parseSource(source)
	if !ok {
		return false
	}

	return prefix.Contains(addr)
}

func matchHeaders(want, got map[string]string) bool {
	if len(want) == 0 {
		return true
	}

	canonical := make(map[string]string, len(got))
	for k, v := range got {
		canonical[textproto.CanonicalMIMEHeaderKey(k)] = v
	}

	for k, v := range want {
		actual, ok := canonical[textproto.CanonicalMIMEHeaderKey(k)]
		if !ok || actual != v {
			return false
		}
	}

	return true
}

func isMatchAll(cidr string) bool {
	cidr = strings.TrimSpace(cidr)
	return cidr == "" || cidr == entities.MatchAllCIDR
}

// parseCondition accepts a CIDR or a bare address, which is treated as a
// single-host prefix.
func parseCondition(cidr string) (netip.Prefix, error) {
	cidr = strings.TrimSpace(cidr)
	if strings.Contains(cidr, "/") {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}

	addr, err := netip.ParseAddr(cidr)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func parseSource(source string) (netip.Addr, bool) {
	source = strings.TrimSpace(source)
	if addr, err := netip.ParseAddr(source); err == nil {
		return addr.Unmap(), true
	}
	if ap, err := netip.ParseAddrPort(source); err == nil {
		return ap.Addr().Unmap(), true
	}
	return netip.Addr{}, false
}

// MatchPath reports whether a request path falls under a location path.
// "/" matches every request.
func MatchPath(requestPath, locationPath string) bool {
	if locationPath == "" || locationPath == entities.DefaultPath {
		return true
	}
	return strings.HasPrefix(requestPath, locationPath)
}

// Route is the result of evaluating a rule against a request.
type Route struct {
	LocationIndex int    `json:"location_index"`
	UpstreamIndex int    `json:"upstream_index"`
	Path          string `json:"path"`
	Target        string `json:"target"`
}

// Select walks the rule's locations and upstreams in declared order and
// returns the first upstream whose location path and condition both match.
func Select(r *entities.Rule, req entities.RequestContext) (Route, bool) {
	for li, loc := range r.Locations {
		if !MatchPath(req.Path, loc.Path) {
			continue
		}
		for ui, up := range loc.Upstreams {
			if Matches(up.Condition, req) {
				return Route{
					LocationIndex: li,
					UpstreamIndex: ui,
					Path:          loc.Path,
					Target:        up.Target,
				}, true
			}
		}
	}
	return Route{}, false
}
