// Package cloud describes the certificate authority the admin service
// requests, renews and revokes certificates through.
package cloud

import (
	"context"
	"errors"
	"strconv"
)

//go:generate mockgen -source=cloud.go -package=cloud -destination=cloud_mock.go

// CA is a cloud certificate authority.
type CA interface {
	// Apply requests issuance of a certificate and returns its issuance id.
	Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error)
	// Describe returns the current state of an issuance.
	Describe(ctx context.Context, certificateID string) (Detail, error)
	// Download returns the certificate and key material of an approved issuance.
	Download(ctx context.Context, certificateID string) (Bundle, error)
	// Revoke revokes a certificate. ErrGone is returned when the CA no
	// longer knows the certificate or it cannot be revoked in its state.
	Revoke(ctx context.Context, certificateID string) error
	// List returns every certificate known to the CA.
	List(ctx context.Context) ([]Summary, error)
}

// ErrGone is returned by Revoke for certificates that no longer exist at the CA.
var ErrGone = errors.New("certificate not found at the CA")

// ValidateType is the domain validation method of an issuance.
type ValidateType string

// Validation methods.
const (
	ValidateDNSAuto ValidateType = "DNS_AUTO"
	ValidateDNS     ValidateType = "DNS"
	ValidateFile    ValidateType = "FILE"
)

// Valid reports whether v is a known validation method.
func (v ValidateType) Valid() bool {
	switch v {
	case ValidateDNSAuto, ValidateDNS, ValidateFile:
		return true
	default:
		return false
	}
}

// ApplyRequest requests a certificate.
type ApplyRequest struct {
	Domain       string       `json:"domain"`
	Alias        string       `json:"cert_alias"`
	ValidateType ValidateType `json:"validate_type"`
}

// Validation is the record an operator must publish to prove domain control.
type Validation struct {
	Type   string `json:"type"`
	Record string `json:"record"`
	Value  string `json:"value"`
}

// ApplyResult is the answer to an ApplyRequest.
type ApplyResult struct {
	CertificateID string      `json:"certificate_id"`
	Validation    *Validation `json:"validate_info,omitempty"`
}

// Status is the issuance status code reported by the CA.
type Status uint64

// Issuance status codes.
const (
	StatusReviewing Status = iota
	StatusApproved
	StatusReviewFailed
	StatusExpired
	StatusAddingDNSRecord
	StatusAwaitingSubmission
	StatusCancelling
	StatusCancelled
	StatusAwaitingConfirmation
	StatusRevoking
	StatusRevoked
	StatusReissuing
	StatusAwaitingRevocationLetter
)

var statusText = map[Status]string{ //nolint:gochecknoglobals
	StatusReviewing:                "under review",
	StatusApproved:                 "approved",
	StatusReviewFailed:             "review failed",
	StatusExpired:                  "expired",
	StatusAddingDNSRecord:          "adding DNS record",
	StatusAwaitingSubmission:       "awaiting submission",
	StatusCancelling:               "cancelling order",
	StatusCancelled:                "cancelled",
	StatusAwaitingConfirmation:     "awaiting confirmation letter",
	StatusRevoking:                 "revoking",
	StatusRevoked:                  "revoked",
	StatusReissuing:                "reissuing",
	StatusAwaitingRevocationLetter: "awaiting revocation letter",
}

func (s Status) String() string {
	if t, ok := statusText[s]; ok {
		return t
	}
	return "unknown status " + strconv.FormatUint(uint64(s), 10)
}

// Detail is the state of one issuance.
type Detail struct {
	CertificateID string
	Domain        string
	Alias         string
	Status        Status
	// EndTime is the expiry as reported by the CA, empty until approved.
	EndTime    string
	Validation *Validation
}

// Summary is one entry of the CA listing.
type Summary struct {
	CertificateID string
	Domain        string
	Alias         string
	Status        Status
	EndTime       string
}

// Bundle is downloaded certificate material in PEM form.
type Bundle struct {
	Cert []byte
	Key  []byte
}
