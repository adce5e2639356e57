package http

import (
	"context"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/rule"
)

//go:generate mockgen -source=services.go -package=http -destination=services_mock.go

// RuleService is what the router needs from the rule service.
type RuleService interface {
	List(ctx context.Context) (entities.Rules, error)
	Get(ctx context.Context, id string) (entities.Rule, error)
	Create(ctx context.Context, r entities.Rule) (entities.Rule, error)
	Update(ctx context.Context, id string, r entities.Rule) (entities.Rule, error)
	Delete(ctx context.Context, id string) error
	Match(ctx context.Context, id string, req entities.RequestContext) (rule.Route, bool, error)
	Reload(ctx context.Context) error
}

// CertificateService is what the router needs from the certificate service.
type CertificateService interface {
	CloudEnabled() bool
	List(ctx context.Context) ([]certificate.View, error)
	Get(ctx context.Context, id string) (certificate.View, error)
	Upload(ctx context.Context, req certificate.UploadRequest) (certificate.View, error)
	Rename(ctx context.Context, id, name string) (certificate.View, error)
	Delete(ctx context.Context, id string) error

	ListCloud(ctx context.Context) ([]certificate.View, error)
	Apply(ctx context.Context, req cloud.ApplyRequest) (certificate.ApplyResult, error)
	CheckStatus(ctx context.Context, sourceID string) (certificate.StatusReport, error)
	Renew(ctx context.Context, sourceID string) (certificate.RenewResult, error)
	Download(ctx context.Context, sourceID string) (certificate.View, error)
	RenameCloud(ctx context.Context, sourceID, name string) (certificate.View, error)
	DeleteCloud(ctx context.Context, sourceID string) error
}
