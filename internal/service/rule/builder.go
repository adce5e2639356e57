package rule

import (
	"fmt"
	"net/textproto"
	"strings"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

// Form is raw rule input as an operator enters it.
type Form struct {
	ID            string         `json:"id,omitempty" yaml:"id,omitempty"`
	ServerName    string         `json:"server_name" yaml:"server_name"`
	TLS           bool           `json:"tls" yaml:"tls"`
	RedirectHTTP  bool           `json:"redirect_http" yaml:"redirect_http"`
	CertificateID string         `json:"certificate_id,omitempty" yaml:"certificate_id,omitempty"`
	Locations     []LocationForm `json:"locations" yaml:"locations"`
}

// LocationForm is raw input of one location.
type LocationForm struct {
	Path      string         `json:"path" yaml:"path"`
	Upstreams []UpstreamForm `json:"upstreams" yaml:"upstreams"`
}

// UpstreamForm is raw input of one upstream. Headers are key/value pairs as
// entered; pairs with an empty key or value are ignored.
type UpstreamForm struct {
	Target  string       `json:"target" yaml:"target"`
	IPCIDR  string       `json:"ip_cidr,omitempty" yaml:"ip_cidr,omitempty"`
	Headers []HeaderPair `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// HeaderPair is a single header condition.
type HeaderPair struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// CertificateLookup resolves the certificate selected on a form to the
// material a rule binds to. Implementations must answer from data fetched at
// submit time.
type CertificateLookup interface {
	LookupMaterial(id string) (entities.TLSBinding, bool)
}

// Build validates f and produces a Rule. It never persists anything.
//
// Checks run in a fixed order and the first violation wins: EmptyDomain,
// MissingTarget, NoUpstreams, DuplicateHeader, EmptyLocation, InvalidInput
// for values the proxy configuration cannot carry, InvalidCondition, then
// the TLS binding (MissingCertificate, UnknownCertificate). Two header pairs whose names differ only in case are
// duplicates; they are rejected rather than merged.
func Build(f Form, certs CertificateLookup) (entities.Rule, error) {
	r := entities.Rule{
		ID:          strings.TrimSpace(f.ID),
		ServerName:  strings.TrimSpace(f.ServerName),
		ListenPorts: ListenPorts(f.TLS, f.RedirectHTTP),
	}

	var dupErr error
	for li, lf := range f.Locations {
		set := NewUpstreamSet(strings.TrimSpace(lf.Path))
		for ui, uf := range lf.Upstreams {
			headers, err := headerMap(uf.Headers)
			if err != nil && dupErr == nil {
				dupErr = errs.Validation(errs.DuplicateHeader, upstreamField(li, ui, "headers"), err.Error())
			}
			set.Add(entities.Upstream{
				Target: strings.TrimSpace(uf.Target),
				Condition: entities.Condition{
					IPCIDR:  strings.TrimSpace(uf.IPCIDR),
					Headers: headers,
				},
			})
		}
		r.Locations = append(r.Locations, set.Location())
	}

	checks := []func() error{
		func() error { return checkServerName(&r) },
		func() error { return checkAllTargets(&r) },
		func() error { return checkCount(&r) },
		func() error { return dupErr },
		func() error { return checkEmptyLocations(&r) },
		func() error { return checkSyntax(&r) },
		func() error { return checkAllConditions(&r) },
		func() error { return bindTLS(&r, f, certs) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return entities.Rule{}, err
		}
	}

	normalizeConditions(&r)
	return r, nil
}

// Validate checks an already-built rule, as received from a client that did
// not go through Build. The order matches Build, followed by listen-port
// consistency with the TLS binding.
func Validate(r *entities.Rule) error {
	checks := []func() error{
		func() error { return checkServerName(r) },
		func() error { return checkAllTargets(r) },
		func() error { return checkCount(r) },
		func() error { return checkHeaderKeys(r) },
		func() error { return checkEmptyLocations(r) },
		func() error { return checkSyntax(r) },
		func() error { return checkAllConditions(r) },
		func() error { return checkBinding(r) },
		func() error { return checkPorts(r) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Normalize fills defaults in place: empty paths become "/", unset CIDRs
// become match-all and bare addresses become single-host prefixes.
func Normalize(r *entities.Rule) {
	r.ServerName = strings.TrimSpace(r.ServerName)
	for li := range r.Locations {
		r.Locations[li].Path = normalizePath(strings.TrimSpace(r.Locations[li].Path))
		for ui := range r.Locations[li].Upstreams {
			u := &r.Locations[li].Upstreams[ui]
			u.Target = strings.TrimSpace(u.Target)
			if isMatchAll(u.Condition.IPCIDR) {
				u.Condition.IPCIDR = entities.MatchAllCIDR
			}
		}
	}
	normalizeConditions(r)
}

func checkServerName(r *entities.Rule) error {
	if r.ServerName == "" {
		return errs.Validation(errs.EmptyDomain, "server_name", "")
	}
	return nil
}

func checkAllTargets(r *entities.Rule) error {
	for li, loc := range r.Locations {
		if err := checkTargets(li, loc); err != nil {
			return err
		}
	}
	return nil
}

func checkTargets(li int, loc entities.Location) error {
	for ui, u := range loc.Upstreams {
		if strings.TrimSpace(u.Target) == "" {
			return errs.Validation(errs.MissingTarget, upstreamField(li, ui, "target"), "")
		}
	}
	return nil
}

func checkCount(r *entities.Rule) error {
	for _, loc := range r.Locations {
		if len(loc.Upstreams) > 0 {
			return nil
		}
	}
	return errs.Validation(errs.NoUpstreams, "locations", "at least one upstream is required")
}

func checkEmptyLocations(r *entities.Rule) error {
	for li, loc := range r.Locations {
		if len(loc.Upstreams) == 0 {
			return errs.Validation(errs.EmptyLocation, fmt.Sprintf("locations[%d]", li), "location has no upstreams")
		}
	}
	return nil
}

func checkHeaderKeys(r *entities.Rule) error {
	for li, loc := range r.Locations {
		for ui, u := range loc.Upstreams {
			seen := make(map[string]struct{}, len(u.Condition.Headers))
			for k := range u.Condition.Headers {
				ck := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(k))
				if _, ok := seen[ck]; ok {
					return errs.Validation(errs.DuplicateHeader, upstreamField(li, ui, "headers"), ck)
				}
				seen[ck] = struct{}{}
			}
		}
	}
	return nil
}

func checkAllConditions(r *entities.Rule) error {
	for li, loc := range r.Locations {
		if err := checkConditions(li, loc); err != nil {
			return err
		}
	}
	return nil
}

func checkConditions(li int, loc entities.Location) error {
	for ui, u := range loc.Upstreams {
		if isMatchAll(u.Condition.IPCIDR) {
			continue
		}
		if _, err := parseCondition(u.Condition.IPCIDR); err != nil {
			return errs.Validation(errs.InvalidCondition, upstreamField(li, ui, "ip_cidr"), err.Error())
		}
	}
	return nil
}

func checkBinding(r *entities.Rule) error {
	if r.TLS != nil && (r.TLS.CertPath == "" || r.TLS.KeyPath == "") {
		return errs.Validation(errs.MissingCertificate, "tls", "cert_path and key_path must be provided together")
	}
	return nil
}

func checkPorts(r *entities.Rule) error {
	if !portsConsistent(r) {
		return errs.Validation(errs.InvalidListenPorts, "listen_ports",
			fmt.Sprintf("%v does not match the TLS setting", r.ListenPorts))
	}
	return nil
}

func bindTLS(r *entities.Rule, f Form, certs CertificateLookup) error {
	if !f.TLS {
		return nil
	}
	id := strings.TrimSpace(f.CertificateID)
	if id == "" {
		return errs.Validation(errs.MissingCertificate, "certificate_id", "TLS requires a certificate")
	}
	if certs == nil {
		return errs.Validation(errs.UnknownCertificate, "certificate_id", id)
	}
	binding, ok := certs.LookupMaterial(id)
	if !ok || binding.CertPath == "" || binding.KeyPath == "" {
		return errs.Validation(errs.UnknownCertificate, "certificate_id", id)
	}
	r.TLS = &binding
	return nil
}

func headerMap(pairs []HeaderPair) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(pairs))
	seen := make(map[string]string, len(pairs))
	var dupErr error
	for _, p := range pairs {
		k, v := strings.TrimSpace(p.Key), strings.TrimSpace(p.Value)
		if k == "" || v == "" {
			continue
		}
		ck := textproto.CanonicalMIMEHeaderKey(k)
		if prev, ok := seen[ck]; ok && dupErr == nil {
			dupErr = fmt.Errorf("header %q declared twice (%q)", ck, prev)
			continue
		}
		seen[ck] = k
		headers[k] = v
	}
	if len(headers) == 0 {
		headers = nil
	}
	return headers, dupErr
}

func normalizeConditions(r *entities.Rule) {
	for li := range r.Locations {
		for ui := range r.Locations[li].Upstreams {
			c := &r.Locations[li].Upstreams[ui].Condition
			if isMatchAll(c.IPCIDR) {
				continue
			}
			if p, err := parseCondition(c.IPCIDR); err == nil {
				c.IPCIDR = p.String()
			}
		}
	}
}

func upstreamField(li, ui int, name string) string {
	return fmt.Sprintf("locations[%d].upstreams[%d].%s", li, ui, name)
}
