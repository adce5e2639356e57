package storage

import (
	"context"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

//go:generate mockgen -source=storage.go -package=storage -destination=storage_mock.go

// Common defines interface to the common persistent storage.
// Lookups of a missing row return errs.ErrNotFound; any other error is internal.
type Common interface {
	// GetRules returns all active rules ordered by creation time.
	GetRules(ctx context.Context) (entities.Rules, error)
	// GetRule returns one rule.
	GetRule(ctx context.Context, id string) (entities.Rule, error)
	// CreateRule stores a new rule. The rule ID must be set.
	CreateRule(ctx context.Context, rule *entities.Rule) error
	// UpdateRule replaces a stored rule.
	UpdateRule(ctx context.Context, rule *entities.Rule) error
	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, id string) error
	// ServerNameTaken reports whether an active rule other than excludeID
	// serves serverName.
	ServerNameTaken(ctx context.Context, serverName, excludeID string) (bool, error)

	// GetCertificates returns all certificates ordered by creation time.
	GetCertificates(ctx context.Context) (entities.Certificates, error)
	// GetCertificate returns one certificate.
	GetCertificate(ctx context.Context, id string) (entities.Certificate, error)
	// GetCertificateBySource returns the certificate tracking the given
	// issuance of an origin.
	GetCertificateBySource(ctx context.Context, origin entities.Origin, sourceID string) (entities.Certificate, error)
	// CreateCertificate stores a new certificate. The ID must be set.
	CreateCertificate(ctx context.Context, cert *entities.Certificate) error
	// UpdateCertificate replaces a stored certificate.
	UpdateCertificate(ctx context.Context, cert *entities.Certificate) error
	// DeleteCertificate removes a certificate.
	DeleteCertificate(ctx context.Context, id string) error
}
