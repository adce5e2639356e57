package entities

import (
	"time"
)

const (
	// DefaultPath is used for a location submitted without a path.
	DefaultPath = "/"
	// MatchAllCIDR is the condition applied when an upstream has no source restriction.
	MatchAllCIDR = "0.0.0.0/0"

	// HTTPPort and HTTPSPort are the only ports a rule listens on.
	HTTPPort  = 80
	HTTPSPort = 443
)

// Rule binds a server name to one or more path-scoped upstream sets.
type Rule struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	ServerName  string      `json:"server_name" yaml:"server_name"`
	ListenPorts []int       `json:"listen_ports" yaml:"listen_ports"`
	TLS         *TLSBinding `json:"tls,omitempty" yaml:"tls,omitempty"`
	Locations   []Location  `json:"locations" yaml:"locations"`
	CreatedAt   time.Time   `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time   `json:"updated_at" yaml:"-"`
}

// TLSBinding references the certificate material served for a rule.
type TLSBinding struct {
	CertPath string `json:"cert_path" yaml:"cert_path"`
	KeyPath  string `json:"key_path" yaml:"key_path"`
}

// Location maps a path prefix to an ordered set of upstreams.
type Location struct {
	Path      string     `json:"path" yaml:"path"`
	Upstreams []Upstream `json:"upstreams" yaml:"upstreams"`
}

// Upstream is one candidate backend plus the condition selecting it.
// Order inside a Location is the evaluation order: first match wins.
type Upstream struct {
	Target    string    `json:"target" yaml:"target"`
	Condition Condition `json:"condition" yaml:"condition"`
}

// Condition is a predicate over the request source address and headers.
type Condition struct {
	IPCIDR  string            `json:"ip_cidr" yaml:"ip_cidr"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// HasTLS reports whether the rule serves HTTPS.
func (r *Rule) HasTLS() bool {
	return r.TLS != nil
}

// UsesCertificate reports whether the rule is bound to the given material.
func (r *Rule) UsesCertificate(certPath, keyPath string) bool {
	if r.TLS == nil {
		return false
	}
	return (certPath != "" && r.TLS.CertPath == certPath) || (keyPath != "" && r.TLS.KeyPath == keyPath)
}

// Rules is an ordered rule listing.
type Rules []Rule

// RequestContext describes the request a Condition is evaluated against.
type RequestContext struct {
	Path     string            `json:"path"`
	SourceIP string            `json:"remote_addr"`
	Headers  map[string]string `json:"headers"`
}
