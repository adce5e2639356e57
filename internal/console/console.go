// Package console is the operator side of the admin API: it keeps one
// working set per view, refreshes it wholesale and confirms every mutation
// with a single refresh.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/inflight"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/rule"
)

//go:generate mockgen -source=console.go -package=console -destination=console_mock.go

// Rules is the rule API the console drives.
type Rules interface {
	ListRules(ctx context.Context) (entities.Rules, error)
	CreateRule(ctx context.Context, r entities.Rule) (entities.Rule, error)
	UpdateRule(ctx context.Context, id string, r entities.Rule) (entities.Rule, error)
	DeleteRule(ctx context.Context, id string) error
}

// Certificates is the certificate API the console drives.
type Certificates interface {
	ListCertificates(ctx context.Context) ([]certificate.View, error)
	UploadCertificate(ctx context.Context, req certificate.UploadRequest) (certificate.View, error)
	RenameCertificate(ctx context.Context, id, name string) (certificate.View, error)
	DeleteCertificate(ctx context.Context, id string) error

	ListCloudCertificates(ctx context.Context) ([]certificate.View, error)
	ApplyCertificate(ctx context.Context, req cloud.ApplyRequest) (certificate.ApplyResult, error)
	CheckCertificateStatus(ctx context.Context, id string) (certificate.StatusReport, error)
	RenewCertificate(ctx context.Context, id string) (certificate.RenewResult, error)
	DownloadCertificate(ctx context.Context, id string) (certificate.View, error)
	RenameCloudCertificate(ctx context.Context, id, name string) (certificate.View, error)
	DeleteCloudCertificate(ctx context.Context, id string) error
}

var errUnknownView = errors.New("unknown view")

// Console holds the current view and the latest snapshot of every view.
type Console struct {
	rules  Rules
	certs  Certificates
	guard  *inflight.Guard
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	current   View
	epoch     uint64
	seq       uint64
	snapshots map[View]Snapshot
}

// New returns a Console showing the rules view.
func New(rules Rules, certs Certificates, guard *inflight.Guard, logger *zap.Logger) *Console {
	return &Console{
		rules:     rules,
		certs:     certs,
		guard:     guard,
		logger:    logger,
		now:       time.Now,
		current:   ViewRules,
		snapshots: make(map[View]Snapshot),
	}
}

// Navigate switches the current view. Responses to requests issued before
// the switch are dropped from now on, even when the operator comes back to
// the view they were issued for.
func (c *Console) Navigate(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = v
	c.epoch++
}

// Current returns the current view.
func (c *Console) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Snapshot returns the latest applied snapshot of v.
func (c *Console) Snapshot(v View) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots[v]
}

func (c *Console) begin(v View) Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return Tag{View: v, Epoch: c.epoch, Seq: c.seq}
}

// apply installs snap unless the operator navigated since it was requested
// or it was fetched for another view. Among responses for the same view the
// last arrival wins.
func (c *Console) apply(snap Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.tag.View != c.current || snap.tag.Epoch != c.epoch {
		return false
	}
	c.snapshots[snap.tag.View] = snap
	return true
}

// Refresh fetches the full working set of v and replaces the stored one.
// It reports whether the result was applied; a result for a view the
// operator has left is returned but not applied.
func (c *Console) Refresh(ctx context.Context, v View) (Snapshot, bool) {
	snap := c.fetch(ctx, c.begin(v))
	applied := c.apply(snap)
	if !applied {
		c.logger.Debug("dropped stale response", zap.Stringer("view", v), zap.Uint64("seq", snap.tag.Seq))
	}
	return snap, applied
}

func (c *Console) fetch(ctx context.Context, tag Tag) Snapshot {
	snap := Snapshot{tag: tag}

	var err error
	switch tag.View {
	case ViewRules:
		snap.rules, err = c.rules.ListRules(ctx)
	case ViewCertificates:
		snap.certs, err = c.certs.ListCertificates(ctx)
	case ViewCloudCertificates:
		snap.certs, err = c.certs.ListCloudCertificates(ctx)
	default:
		err = fmt.Errorf("%w: %d", errUnknownView, tag.View)
	}

	snap.fetchedAt = c.now()
	if err != nil {
		c.logger.Warn("list failed", zap.Stringer("view", tag.View), zap.Error(err))
		return Snapshot{tag: tag, fetchedAt: snap.fetchedAt, err: err}
	}
	for i := range snap.certs {
		snap.certs[i] = resolve(snap.certs[i], snap.fetchedAt)
	}
	return snap
}

// resolve recomputes state and actions with the local clock.
func resolve(v certificate.View, now time.Time) certificate.View {
	rec := v.Record
	if v.ExpiresAt != nil {
		rec.Expiry = entities.Expiry{At: *v.ExpiresAt, Present: true}
	}
	return certificate.NewView(rec, now)
}

// SubmitRule builds a rule from f and creates it, or updates the rule with
// f.ID. The selected certificate is resolved against a certificate list
// fetched for this submission; nothing is sent when the form is invalid.
func (c *Console) SubmitRule(ctx context.Context, f rule.Form) (entities.Rule, error) {
	var lookup rule.CertificateLookup
	if f.TLS && f.CertificateID != "" {
		certs := c.fetch(ctx, Tag{View: ViewCertificates})
		if err := certs.Err(); err != nil {
			return entities.Rule{}, err
		}
		lookup = certs
	}

	r, err := rule.Build(f, lookup)
	if err != nil {
		return entities.Rule{}, err
	}

	resource := "rule:" + r.ServerName
	action := "create"
	if r.ID != "" {
		resource = "rule:" + r.ID
		action = "update"
	}

	out, _, err := inflight.Do(c.guard, resource, action, inflight.Digest(r), func() (entities.Rule, error) {
		if r.ID == "" {
			return c.rules.CreateRule(ctx, r)
		}
		return c.rules.UpdateRule(ctx, r.ID, r)
	})
	if err != nil {
		return entities.Rule{}, err
	}

	c.Refresh(ctx, ViewRules)
	return out, nil
}

// DeleteRule deletes a rule.
func (c *Console) DeleteRule(ctx context.Context, id string) error {
	_, _, err := inflight.Do(c.guard, "rule:"+id, "delete", "", func() (struct{}, error) {
		return struct{}{}, c.rules.DeleteRule(ctx, id)
	})
	if err != nil {
		return err
	}

	c.Refresh(ctx, ViewRules)
	return nil
}

// Upload submits certificate material.
func (c *Console) Upload(ctx context.Context, req certificate.UploadRequest) (certificate.View, error) {
	v, _, err := inflight.Do(c.guard, "cert-upload:"+req.Name, "upload", inflight.Digest(req), func() (certificate.View, error) {
		return c.certs.UploadCertificate(ctx, req)
	})
	if err != nil {
		return certificate.View{}, err
	}

	c.Refresh(ctx, ViewCertificates)
	return v, nil
}

// Apply requests a certificate from the CA.
func (c *Console) Apply(ctx context.Context, req cloud.ApplyRequest) (certificate.ApplyResult, error) {
	if req.Domain == "" {
		return certificate.ApplyResult{}, errs.Validation(errs.EmptyDomain, "domain", "domain must not be empty")
	}
	if req.ValidateType != "" && !req.ValidateType.Valid() {
		return certificate.ApplyResult{}, errs.Validation(errs.InvalidInput, "validate_type", string(req.ValidateType))
	}

	res, _, err := inflight.Do(c.guard, "cert-apply:"+req.Domain, "apply", inflight.Digest(req), func() (certificate.ApplyResult, error) {
		return c.certs.ApplyCertificate(ctx, req)
	})
	if err != nil {
		return certificate.ApplyResult{}, err
	}

	c.Refresh(ctx, ViewCloudCertificates)
	return res, nil
}
