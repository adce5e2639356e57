package console

import (
	"time"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
)

// View is a page of the console. The set is closed.
type View uint8

// Console views.
const (
	ViewRules View = iota + 1
	ViewCertificates
	ViewCloudCertificates
)

func (v View) String() string {
	switch v {
	case ViewRules:
		return "rules"
	case ViewCertificates:
		return "certificates"
	case ViewCloudCertificates:
		return "cloud-certificates"
	default:
		return "unknown"
	}
}

// Tag identifies a list request by the view it was issued for and the
// navigation it was issued in.
type Tag struct {
	View  View
	Epoch uint64
	Seq   uint64
}

// Snapshot is the working set of one view as returned by one fetch. It is
// never modified after construction; accessors return copies.
type Snapshot struct {
	tag       Tag
	rules     entities.Rules
	certs     []certificate.View
	fetchedAt time.Time
	err       error
}

// Tag returns the request the snapshot answers.
func (s Snapshot) Tag() Tag {
	return s.tag
}

// Rules returns the rules of a rules view.
func (s Snapshot) Rules() entities.Rules {
	return append(entities.Rules(nil), s.rules...)
}

// Certificates returns the certificates of a certificate view.
func (s Snapshot) Certificates() []certificate.View {
	return append([]certificate.View(nil), s.certs...)
}

// Certificate finds a certificate by id.
func (s Snapshot) Certificate(id string) (certificate.View, bool) {
	for i := range s.certs {
		if s.certs[i].ID == id {
			return s.certs[i], true
		}
	}
	return certificate.View{}, false
}

// FetchedAt is when the fetch completed.
func (s Snapshot) FetchedAt() time.Time {
	return s.fetchedAt
}

// Err is the failure of the fetch, if any. A failed fetch has an empty
// working set.
func (s Snapshot) Err() error {
	return s.err
}

// Len is the size of the working set.
func (s Snapshot) Len() int {
	return len(s.rules) + len(s.certs)
}

// LookupMaterial resolves a certificate id to its material. Certificates
// without material, including those still issuing, are not found.
func (s Snapshot) LookupMaterial(id string) (entities.TLSBinding, bool) {
	v, ok := s.Certificate(id)
	if !ok || v.State == entities.StateIssuing || !v.HasMaterial() {
		return entities.TLSBinding{}, false
	}
	return entities.TLSBinding{CertPath: v.CertPath, KeyPath: v.KeyPath}, true
}
