package entities

import (
	"fmt"
	"strings"
	"time"
)

// Origin is the provenance of a certificate.
type Origin string

// Known certificate origins.
const (
	OriginUpload Origin = "upload"
	OriginCloud  Origin = "cloud"
)

// ParseOrigin maps a stored source value to an Origin. Rows written before
// the cloud provider was generalized carry "tencent_cloud".
func ParseOrigin(s string) Origin {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cloud", "tencent_cloud":
		return OriginCloud
	default:
		return OriginUpload
	}
}

// RawStatusRenewing is the origin-reported status of a certificate being renewed.
const (
	RawStatusActive   = "active"
	RawStatusRenewing = "renewing"
)

// Certificate is the stored certificate row.
type Certificate struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Domain          string     `json:"domain"`
	CertPath        string     `json:"cert_path"`
	KeyPath         string     `json:"key_path"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	Source          Origin     `json:"source"`
	SourceID        string     `json:"source_id,omitempty"`
	Status          string     `json:"status,omitempty"`
	RenewalSourceID string     `json:"renewal_source_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Certificates is a certificate listing.
type Certificates []Certificate

// Expiry is an optional expiry timestamp. Present is false when the origin
// reported nothing; a present but unusable value has a zero At.
type Expiry struct {
	At      time.Time
	Present bool
}

// Usable reports whether the expiry can drive lifecycle math.
func (e Expiry) Usable() bool {
	return e.Present && !e.At.IsZero() && e.At.Year() >= 2000
}

// Record is the origin-agnostic view of a certificate.
type Record struct {
	ID        string `json:"id"`
	Origin    Origin `json:"origin"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	CertPath  string `json:"cert_path,omitempty"`
	KeyPath   string `json:"key_path,omitempty"`
	Expiry    Expiry `json:"-"`
	RawStatus string `json:"raw_status,omitempty"`
}

// HasMaterial reports whether certificate files exist for the record.
func (r *Record) HasMaterial() bool {
	return r.CertPath != ""
}

// State is the resolved, user-facing certificate status.
type State string

// Lifecycle states.
const (
	StateIssuing  State = "issuing"
	StateActive   State = "active"
	StateExpiring State = "expiring"
	StateExpired  State = "expired"
	StateRenewing State = "renewing"
)

// States lists every lifecycle state.
var States = []State{StateIssuing, StateActive, StateExpiring, StateExpired, StateRenewing} //nolint:gochecknoglobals

// ParseState maps a raw status string to a State.
func ParseState(s string) (State, bool) {
	switch st := State(strings.ToLower(strings.TrimSpace(s))); st {
	case StateIssuing, StateActive, StateExpiring, StateExpired, StateRenewing:
		return st, true
	default:
		return "", false
	}
}

// Action is an operator action on a certificate.
type Action uint8

// Certificate actions. The set is closed; see AllActions.
const (
	ActionDownload Action = iota + 1
	ActionRenew
	ActionCheckStatus
	ActionRename
	ActionDelete
)

// AllActions lists every Action in display order.
var AllActions = []Action{ActionDownload, ActionRenew, ActionCheckStatus, ActionRename, ActionDelete} //nolint:gochecknoglobals

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionDownload:
		return "download"
	case ActionRenew:
		return "renew"
	case ActionCheckStatus:
		return "check-status"
	case ActionRename:
		return "rename"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, bool) {
	for _, a := range AllActions {
		if a.String() == s {
			return a, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	v, ok := ParseAction(string(b))
	if !ok {
		return fmt.Errorf("unknown certificate action %q", b)
	}
	*a = v
	return nil
}

// Actions is a set of allowed actions in display order.
type Actions []Action

// Has reports whether a is in the set.
func (as Actions) Has(a Action) bool {
	for _, x := range as {
		if x == a {
			return true
		}
	}
	return false
}
