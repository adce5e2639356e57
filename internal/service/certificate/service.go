package certificate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/inflight"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage"
)

//go:generate mockgen -source=service.go -package=certificate -destination=service_mock.go

// Bindings is the view of the rules a certificate service needs.
type Bindings interface {
	// InUse reports whether any rule serves the given material.
	InUse(ctx context.Context, material entities.TLSBinding) (bool, error)
	// Repoint moves rules from one material to another and re-renders them.
	Repoint(ctx context.Context, from, to entities.TLSBinding) (int, error)
}

// UploadRequest is operator-supplied certificate material.
type UploadRequest struct {
	Name     string `json:"name,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Cert     string `json:"cert"`
	Key      string `json:"key"`
}

// ApplyResult is the answer to a cloud certificate request.
type ApplyResult struct {
	CertificateID string            `json:"certificate_id"`
	Status        string            `json:"status"`
	Validation    *cloud.Validation `json:"validate_info,omitempty"`
}

// StatusReport is the result of checking a cloud certificate at the CA.
type StatusReport struct {
	CertificateID string         `json:"certificate_id"`
	Status        string         `json:"status"`
	State         entities.State `json:"state"`
	Domain        string         `json:"domain"`
	ExpiresAt     string         `json:"expires_at,omitempty"`
	Message       string         `json:"message,omitempty"`
	Renewed       bool           `json:"renewed,omitempty"`
}

// RenewResult is the answer to a renewal request.
type RenewResult struct {
	OldCertificateID string            `json:"old_cert_id"`
	NewCertificateID string            `json:"new_cert_id"`
	Status           string            `json:"status"`
	Validation       *cloud.Validation `json:"validate_info,omitempty"`
}

// Service manages uploaded and cloud-issued certificates.
type Service struct {
	storage storage.Common
	ca      cloud.CA
	rules   Bindings
	files   *Files
	guard   *inflight.Guard
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService returns a certificate Service. A nil ca disables every cloud
// operation with errs.ErrCloudDisabled.
func NewService(
	st storage.Common,
	ca cloud.CA,
	rules Bindings,
	files *Files,
	guard *inflight.Guard,
	logger *zap.Logger,
) *Service {
	return &Service{
		storage: st,
		ca:      ca,
		rules:   rules,
		files:   files,
		guard:   guard,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// CloudEnabled reports whether a CA is configured.
func (s *Service) CloudEnabled() bool {
	return s.ca != nil
}

// List returns every stored certificate with its state and allowed actions.
func (s *Service) List(ctx context.Context) ([]View, error) {
	certs, err := s.storage.GetCertificates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	now := s.now()
	views := make([]View, 0, len(certs))
	for i := range certs {
		views = append(views, NewView(FromCertificate(&certs[i]), now))
	}
	return views, nil
}

// Get returns one certificate by local id.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	cert, err := s.storage.GetCertificate(ctx, id)
	if err != nil {
		return View{}, err
	}
	return NewView(FromCertificate(&cert), s.now()), nil
}

// ListCloud returns every certificate the CA knows, merged with the local
// records tracking them.
func (s *Service) ListCloud(ctx context.Context) ([]View, error) {
	ca, err := s.cloudCA()
	if err != nil {
		return nil, err
	}

	summaries, err := ca.List(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.storage.GetCertificates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	local := make(map[string]*entities.Certificate, len(certs))
	for i := range certs {
		if certs[i].Source == entities.OriginCloud && certs[i].SourceID != "" {
			local[certs[i].SourceID] = &certs[i]
		}
	}

	now := s.now()
	views := make([]View, 0, len(summaries))
	for _, sum := range summaries {
		if sum.EndTime != "" {
			if _, err := ParseExpiry(sum.EndTime); err != nil {
				s.logger.Debug("unusable expiry from CA", zap.String("certificate_id", sum.CertificateID), zap.Error(err))
			}
		}
		views = append(views, NewView(FromSummary(sum, local[sum.CertificateID]), now))
	}
	return views, nil
}

// Upload stores operator-supplied material.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (View, error) {
	if strings.TrimSpace(req.Cert) == "" || strings.TrimSpace(req.Key) == "" {
		return View{}, errs.Validation(errs.InvalidInput, "cert", "both certificate and key are required")
	}

	parsed, err := ParseMaterial([]byte(req.Cert), []byte(req.Key))
	if err != nil {
		return View{}, err
	}

	id := s.newID()
	binding, err := s.files.Write(id, cloud.Bundle{Cert: []byte(req.Cert), Key: []byte(req.Key)})
	if err != nil {
		return View{}, err
	}

	notAfter := parsed.NotAfter
	cert := entities.Certificate{
		ID:        id,
		Name:      uploadName(req, parsed),
		Domain:    parsed.Domain,
		CertPath:  binding.CertPath,
		KeyPath:   binding.KeyPath,
		ExpiresAt: &notAfter,
		Source:    entities.OriginUpload,
		Status:    entities.RawStatusActive,
	}
	if err := s.storage.CreateCertificate(ctx, &cert); err != nil {
		s.removeFiles(binding)
		return View{}, fmt.Errorf("failed to save certificate: %w", err)
	}

	s.logger.Info("certificate uploaded", zap.String("certificate_id", id), zap.String("domain", cert.Domain))
	return NewView(FromCertificate(&cert), s.now()), nil
}

func uploadName(req UploadRequest, parsed Parsed) string {
	if name := strings.TrimSpace(req.Name); name != "" {
		return name
	}
	if req.FileName != "" {
		base := filepath.Base(req.FileName)
		if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
			return name
		}
	}
	return parsed.Domain
}

// Rename changes the display name of an uploaded certificate.
func (s *Service) Rename(ctx context.Context, id, name string) (View, error) {
	cert, err := s.storage.GetCertificate(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.rename(ctx, cert, name)
}

// RenameCloud changes the display name of a cloud certificate.
func (s *Service) RenameCloud(ctx context.Context, sourceID, name string) (View, error) {
	cert, err := s.storage.GetCertificateBySource(ctx, entities.OriginCloud, sourceID)
	if err != nil {
		return View{}, err
	}
	return s.rename(ctx, cert, name)
}

func (s *Service) rename(ctx context.Context, cert entities.Certificate, name string) (View, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return View{}, errs.Validation(errs.InvalidInput, "name", "name must not be empty")
	}
	if err := s.allowed(&cert, entities.ActionRename); err != nil {
		return View{}, err
	}

	return guarded(s, cert.ID, entities.ActionRename, name, func() (View, error) {
		cert.Name = name
		if err := s.storage.UpdateCertificate(ctx, &cert); err != nil {
			return View{}, fmt.Errorf("failed to rename certificate: %w", err)
		}
		return NewView(FromCertificate(&cert), s.now()), nil
	})
}

// Delete removes a certificate by local id. Certificates served by a rule
// cannot be deleted. Cloud certificates are revoked at the CA first; a CA
// failure is logged and does not block the local removal.
func (s *Service) Delete(ctx context.Context, id string) error {
	cert, err := s.storage.GetCertificate(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, cert)
}

// DeleteCloud removes a cloud certificate by issuance id.
func (s *Service) DeleteCloud(ctx context.Context, sourceID string) error {
	cert, err := s.storage.GetCertificateBySource(ctx, entities.OriginCloud, sourceID)
	if err != nil {
		return err
	}
	return s.delete(ctx, cert)
}

func (s *Service) delete(ctx context.Context, cert entities.Certificate) error {
	_, err := guarded(s, cert.ID, entities.ActionDelete, "", func() (struct{}, error) {
		material := binding(&cert)
		if material.CertPath != "" || material.KeyPath != "" {
			used, err := s.rules.InUse(ctx, material)
			if err != nil {
				return struct{}{}, err
			}
			if used {
				return struct{}{}, fmt.Errorf("certificate %s is used by existing rules: %w", cert.ID, errs.ErrConflict)
			}
		}

		if cert.Source == entities.OriginCloud && cert.SourceID != "" && s.ca != nil {
			s.revoke(ctx, cert.SourceID)
		}

		s.removeFiles(material)
		if err := s.storage.DeleteCertificate(ctx, cert.ID); err != nil {
			return struct{}{}, fmt.Errorf("failed to delete certificate: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("certificate deleted", zap.String("certificate_id", cert.ID), zap.String("source", string(cert.Source)))
	return nil
}

func (s *Service) revoke(ctx context.Context, sourceID string) {
	err := s.ca.Revoke(ctx, sourceID)
	switch {
	case err == nil:
		s.logger.Info("certificate revoked at the CA", zap.String("certificate_id", sourceID))
	case errors.Is(err, cloud.ErrGone):
		s.logger.Info("certificate already gone at the CA", zap.String("certificate_id", sourceID))
	default:
		s.logger.Warn("failed to revoke certificate at the CA", zap.String("certificate_id", sourceID), zap.Error(err))
	}
}

// Apply requests a certificate from the CA and tracks it locally. The record
// has no material until the issuance is approved and downloaded.
func (s *Service) Apply(ctx context.Context, req cloud.ApplyRequest) (ApplyResult, error) {
	ca, err := s.cloudCA()
	if err != nil {
		return ApplyResult{}, err
	}

	req.Domain = strings.TrimSpace(req.Domain)
	if req.Domain == "" {
		return ApplyResult{}, errs.Validation(errs.EmptyDomain, "domain", "domain must not be empty")
	}
	if req.ValidateType == "" {
		req.ValidateType = cloud.ValidateDNSAuto
	}
	if !req.ValidateType.Valid() {
		return ApplyResult{}, errs.Validation(errs.InvalidInput, "validate_type", "unknown validation type "+string(req.ValidateType))
	}

	res, _, err := inflight.Do(s.guard, "cert-apply:"+req.Domain, "apply", inflight.Digest(req), func() (cloud.ApplyResult, error) {
		return ca.Apply(ctx, req)
	})
	if err != nil {
		return ApplyResult{}, err
	}

	_, err = s.storage.GetCertificateBySource(ctx, entities.OriginCloud, res.CertificateID)
	switch {
	case err == nil:
		s.logger.Info("certificate record already exists", zap.String("certificate_id", res.CertificateID))
	case errors.Is(err, errs.ErrNotFound):
		cert := entities.Certificate{
			ID:       s.newID(),
			Name:     req.Alias,
			Domain:   req.Domain,
			Source:   entities.OriginCloud,
			SourceID: res.CertificateID,
			Status:   entities.RawStatusActive,
		}
		if cert.Name == "" {
			cert.Name = req.Domain
		}
		if err := s.storage.CreateCertificate(ctx, &cert); err != nil {
			return ApplyResult{}, fmt.Errorf("failed to save certificate record: %w", err)
		}
	default:
		return ApplyResult{}, fmt.Errorf("failed to check existing certificate: %w", err)
	}

	s.logger.Info("certificate requested",
		zap.String("certificate_id", res.CertificateID),
		zap.String("domain", req.Domain),
		zap.String("validate_type", string(req.ValidateType)),
	)

	return ApplyResult{
		CertificateID: res.CertificateID,
		Status:        cloud.StatusReviewing.String(),
		Validation:    res.Validation,
	}, nil
}

// CheckStatus asks the CA about a cloud certificate and brings the local
// record up to date: the expiry of an approved certificate is stored, missing
// material is downloaded and a pending renewal whose new certificate is
// approved is completed.
func (s *Service) CheckStatus(ctx context.Context, sourceID string) (StatusReport, error) {
	ca, err := s.cloudCA()
	if err != nil {
		return StatusReport{}, err
	}

	cert, err := s.storage.GetCertificateBySource(ctx, entities.OriginCloud, sourceID)
	if err != nil {
		return StatusReport{}, err
	}

	return guarded(s, cert.ID, entities.ActionCheckStatus, "", func() (StatusReport, error) {
		detail, err := ca.Describe(ctx, cert.SourceID)
		if err != nil {
			return StatusReport{}, err
		}

		report := StatusReport{
			CertificateID: cert.SourceID,
			Status:        detail.Status.String(),
			Domain:        cert.Domain,
		}

		changed := false
		if detail.Status == cloud.StatusApproved {
			if s.applyExpiry(&cert, detail.EndTime) {
				changed = true
			}
			if cert.ExpiresAt != nil {
				report.ExpiresAt = detail.EndTime
			}

			if cert.CertPath == "" || cert.KeyPath == "" {
				if err := s.fetch(ctx, ca, &cert, cert.SourceID); err != nil {
					s.logger.Warn("failed to download approved certificate",
						zap.String("certificate_id", cert.SourceID), zap.Error(err))
					report.Message = "certificate approved, download failed: " + errs.Message(err)
				} else {
					changed = true
					report.Message = "certificate downloaded"
				}
			}
		}

		if detail.Alias != "" && cert.Name == "" {
			cert.Name = detail.Alias
			changed = true
		}

		if changed {
			if err := s.storage.UpdateCertificate(ctx, &cert); err != nil {
				return StatusReport{}, fmt.Errorf("failed to update certificate: %w", err)
			}
		}

		if cert.Status == entities.RawStatusRenewing && cert.RenewalSourceID != "" {
			done, err := s.completeRenewal(ctx, ca, &cert)
			switch {
			case err != nil:
				s.logger.Warn("failed to complete renewal",
					zap.String("certificate_id", cert.SourceID),
					zap.String("renewal_id", cert.RenewalSourceID),
					zap.Error(err))
				report.Message = "renewal pending: " + errs.Message(err)
			case done:
				report.Renewed = true
				report.Message = "renewal completed"
				if cert.ExpiresAt != nil {
					report.ExpiresAt = cert.ExpiresAt.UTC().Format(time.RFC3339)
				}
			}
		}

		report.State = Resolve(FromCertificate(&cert), s.now())
		return report, nil
	})
}

// completeRenewal switches cert to the renewal issuance once the CA has
// approved it. Rules served by the old material are moved to the new files
// and the old files are removed. It reports whether the switch happened.
func (s *Service) completeRenewal(ctx context.Context, ca cloud.CA, cert *entities.Certificate) (bool, error) {
	renewalID := cert.RenewalSourceID

	detail, err := ca.Describe(ctx, renewalID)
	if err != nil {
		return false, err
	}
	if detail.Status != cloud.StatusApproved {
		s.logger.Debug("renewal not approved yet",
			zap.String("renewal_id", renewalID), zap.String("status", detail.Status.String()))
		return false, nil
	}

	bundle, err := ca.Download(ctx, renewalID)
	if err != nil {
		return false, err
	}
	next, err := s.files.Write(renewalID, bundle)
	if err != nil {
		return false, err
	}

	prev := binding(cert)
	updated := *cert
	updated.CertPath = next.CertPath
	updated.KeyPath = next.KeyPath
	updated.Status = entities.RawStatusActive
	updated.RenewalSourceID = ""
	if !s.applyExpiry(&updated, detail.EndTime) {
		s.expiryFromMaterial(&updated, bundle.Cert)
	}

	if err := s.storage.UpdateCertificate(ctx, &updated); err != nil {
		s.removeFiles(next)
		return false, fmt.Errorf("failed to update certificate: %w", err)
	}
	*cert = updated

	if prev.CertPath != "" {
		n, err := s.rules.Repoint(ctx, prev, next)
		if err != nil {
			s.logger.Error("failed to move rules to renewed certificate", zap.Error(err))
		} else {
			s.logger.Info("rules moved to renewed certificate", zap.Int("rules", n))
		}
	}
	if prev.CertPath != next.CertPath {
		s.removeFiles(prev)
	}

	s.logger.Info("certificate renewed",
		zap.String("certificate_id", cert.SourceID), zap.String("renewal_id", renewalID))
	return true, nil
}

// Renew requests a new issuance for a cloud certificate. Only one renewal
// may be pending at a time.
func (s *Service) Renew(ctx context.Context, sourceID string) (RenewResult, error) {
	ca, err := s.cloudCA()
	if err != nil {
		return RenewResult{}, err
	}

	cert, err := s.storage.GetCertificateBySource(ctx, entities.OriginCloud, sourceID)
	if err != nil {
		return RenewResult{}, err
	}
	if cert.Status == entities.RawStatusRenewing {
		return RenewResult{}, fmt.Errorf("certificate %s: %w", sourceID, errs.ErrBusy)
	}
	if err := s.allowed(&cert, entities.ActionRenew); err != nil {
		return RenewResult{}, err
	}

	return guarded(s, cert.ID, entities.ActionRenew, "", func() (RenewResult, error) {
		cert.Status = entities.RawStatusRenewing
		if err := s.storage.UpdateCertificate(ctx, &cert); err != nil {
			return RenewResult{}, fmt.Errorf("failed to mark certificate renewing: %w", err)
		}

		res, err := ca.Apply(ctx, cloud.ApplyRequest{
			Domain:       cert.Domain,
			Alias:        cert.Name + "_renewed_" + s.now().Format("20060102"),
			ValidateType: cloud.ValidateDNSAuto,
		})
		if err != nil {
			cert.Status = entities.RawStatusActive
			if restoreErr := s.storage.UpdateCertificate(ctx, &cert); restoreErr != nil {
				s.logger.Error("failed to restore certificate status", zap.Error(restoreErr))
			}
			return RenewResult{}, err
		}

		cert.RenewalSourceID = res.CertificateID
		if err := s.storage.UpdateCertificate(ctx, &cert); err != nil {
			s.logger.Warn("failed to store renewal id", zap.String("renewal_id", res.CertificateID), zap.Error(err))
		}

		s.logger.Info("certificate renewal requested",
			zap.String("certificate_id", sourceID), zap.String("renewal_id", res.CertificateID))

		return RenewResult{
			OldCertificateID: sourceID,
			NewCertificateID: res.CertificateID,
			Status:           cloud.StatusReviewing.String(),
			Validation:       res.Validation,
		}, nil
	})
}

// Download fetches the material of a cloud certificate into the certificate
// directory and records its paths.
func (s *Service) Download(ctx context.Context, sourceID string) (View, error) {
	ca, err := s.cloudCA()
	if err != nil {
		return View{}, err
	}

	cert, err := s.storage.GetCertificateBySource(ctx, entities.OriginCloud, sourceID)
	if err != nil {
		return View{}, err
	}
	if err := s.allowed(&cert, entities.ActionDownload); err != nil {
		return View{}, err
	}

	return guarded(s, cert.ID, entities.ActionDownload, "", func() (View, error) {
		if err := s.fetch(ctx, ca, &cert, cert.SourceID); err != nil {
			return View{}, err
		}
		if err := s.storage.UpdateCertificate(ctx, &cert); err != nil {
			return View{}, fmt.Errorf("failed to update certificate: %w", err)
		}
		return NewView(FromCertificate(&cert), s.now()), nil
	})
}

// SyncCloud checks every cloud certificate that is still issuing or renewing.
// Failures are logged per certificate; it returns how many were checked.
func (s *Service) SyncCloud(ctx context.Context) (int, error) {
	if s.ca == nil {
		return 0, nil
	}

	certs, err := s.storage.GetCertificates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list certificates: %w", err)
	}

	now := s.now()
	var checked int
	for i := range certs {
		cert := &certs[i]
		if cert.Source != entities.OriginCloud || cert.SourceID == "" {
			continue
		}
		switch Resolve(FromCertificate(cert), now) {
		case entities.StateIssuing, entities.StateRenewing:
		default:
			continue
		}

		checked++
		report, err := s.CheckStatus(ctx, cert.SourceID)
		if err != nil {
			s.logger.Warn("cloud status check failed", zap.String("certificate_id", cert.SourceID), zap.Error(err))
			continue
		}
		s.logger.Debug("cloud status checked",
			zap.String("certificate_id", cert.SourceID),
			zap.String("status", report.Status),
			zap.String("state", string(report.State)),
		)
	}
	return checked, nil
}

func (s *Service) fetch(ctx context.Context, ca cloud.CA, cert *entities.Certificate, issuanceID string) error {
	bundle, err := ca.Download(ctx, issuanceID)
	if err != nil {
		return err
	}
	b, err := s.files.Write(issuanceID, bundle)
	if err != nil {
		return err
	}

	cert.CertPath = b.CertPath
	cert.KeyPath = b.KeyPath
	if cert.ExpiresAt == nil {
		s.expiryFromMaterial(cert, bundle.Cert)
	}
	return nil
}

// applyExpiry stores a usable CA-reported expiry and reports whether the
// record changed.
func (s *Service) applyExpiry(cert *entities.Certificate, raw string) bool {
	exp, err := ParseExpiry(raw)
	if err != nil {
		s.logger.Debug("unusable expiry from CA", zap.String("certificate_id", cert.SourceID), zap.Error(err))
		return false
	}
	if !exp.Usable() {
		return false
	}
	if cert.ExpiresAt != nil && cert.ExpiresAt.Equal(exp.At) {
		return false
	}
	cert.ExpiresAt = &exp.At
	return true
}

func (s *Service) expiryFromMaterial(cert *entities.Certificate, certPEM []byte) {
	p, err := ParseCertificate(certPEM)
	if err != nil {
		s.logger.Debug("failed to read expiry from material", zap.String("certificate_id", cert.SourceID), zap.Error(err))
		return
	}
	cert.ExpiresAt = &p.NotAfter
}

func (s *Service) allowed(cert *entities.Certificate, action entities.Action) error {
	rec := FromCertificate(cert)
	if !Allowed(rec, s.now(), action) {
		return fmt.Errorf("%s %s (%s): %w", action, rec.ID, Resolve(rec, s.now()), errs.ErrActionNotAllowed)
	}
	return nil
}

func (s *Service) cloudCA() (cloud.CA, error) {
	if s.ca == nil {
		return nil, errs.ErrCloudDisabled
	}
	return s.ca, nil
}

func (s *Service) removeFiles(b entities.TLSBinding) {
	if err := s.files.Remove(b); err != nil {
		s.logger.Warn("failed to remove certificate files",
			zap.String("cert_path", b.CertPath), zap.String("key_path", b.KeyPath), zap.Error(err))
	}
}

func binding(cert *entities.Certificate) entities.TLSBinding {
	return entities.TLSBinding{CertPath: cert.CertPath, KeyPath: cert.KeyPath}
}

func guarded[T any](s *Service, id string, action entities.Action, payload string, fn func() (T, error)) (T, error) {
	v, _, err := inflight.Do(s.guard, "cert:"+id, action.String(), payload, fn)
	return v, err
}
