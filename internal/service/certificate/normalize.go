package certificate

import (
	"errors"
	"strings"
	"time"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

var errUnknownLayout = errors.New("unknown timestamp layout")

var expiryLayouts = []string{ //nolint:gochecknoglobals
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseExpiry parses an expiry timestamp as reported by an origin. An empty
// input is an absent expiry. Unparsable input yields a present expiry with a
// zero time together with a ParseError; the zero time is not usable, so
// callers can ignore the error and let Resolve fall back.
func ParseExpiry(raw string) (entities.Expiry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entities.Expiry{}, nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return entities.Expiry{At: t, Present: true}, nil
		}
	}
	return entities.Expiry{Present: true}, &errs.ParseError{Input: raw, Err: errUnknownLayout}
}

// FromCertificate normalizes a stored certificate row. Cloud records are
// identified by their issuance id, uploads by the local id.
func FromCertificate(c *entities.Certificate) entities.Record {
	rec := entities.Record{
		ID:        c.ID,
		Origin:    c.Source,
		Name:      c.Name,
		Domain:    c.Domain,
		CertPath:  c.CertPath,
		KeyPath:   c.KeyPath,
		RawStatus: c.Status,
	}
	if rec.Origin == "" {
		rec.Origin = entities.OriginUpload
	}
	if rec.Origin == entities.OriginCloud && c.SourceID != "" {
		rec.ID = c.SourceID
	}
	if c.ExpiresAt != nil {
		rec.Expiry = entities.Expiry{At: *c.ExpiresAt, Present: true}
	}
	return rec
}

// FromSummary normalizes a CA listing entry. Local, when not nil, is the
// stored row tracking the same issuance and provides the material paths, the
// operator-chosen name and the renewal marker.
func FromSummary(s cloud.Summary, local *entities.Certificate) entities.Record {
	rec := entities.Record{
		ID:        s.CertificateID,
		Origin:    entities.OriginCloud,
		Name:      s.Alias,
		Domain:    s.Domain,
		RawStatus: s.Status.String(),
	}
	// Unparsable CA timestamps fall back to the raw status.
	rec.Expiry, _ = ParseExpiry(s.EndTime)

	if local != nil {
		rec.CertPath = local.CertPath
		rec.KeyPath = local.KeyPath
		if local.Name != "" {
			rec.Name = local.Name
		}
		if local.Status == entities.RawStatusRenewing {
			rec.RawStatus = local.Status
		}
	}
	return rec
}

// View is a record with its resolved state and allowed actions.
type View struct {
	entities.Record
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	DaysLeft  *int             `json:"days_left,omitempty"`
	State     entities.State   `json:"state"`
	Actions   entities.Actions `json:"actions"`
}

// NewView resolves rec at now.
func NewView(rec entities.Record, now time.Time) View {
	state := Resolve(rec, now)
	v := View{
		Record:  rec,
		State:   state,
		Actions: Actions(rec.Origin, state),
	}
	if rec.Expiry.Usable() {
		at := rec.Expiry.At
		days := DaysUntil(at, now)
		v.ExpiresAt = &at
		v.DaysLeft = &days
	}
	return v
}
