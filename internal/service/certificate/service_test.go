package certificate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/inflight"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage"
)

type fixture struct {
	svc     *Service
	dir     string
	storage *storage.MockCommon
	ca      *cloud.MockCA
	rules   *MockBindings
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		dir:     t.TempDir(),
		storage: storage.NewMockCommon(ctrl),
		ca:      cloud.NewMockCA(ctrl),
		rules:   NewMockBindings(ctrl),
	}
	f.svc = NewService(f.storage, f.ca, f.rules, NewFiles(f.dir), inflight.New(), zap.NewNop())
	f.svc.now = func() time.Time { return now }
	f.svc.newID = func() string { return "local-id" }
	return f
}

func TestServiceCloudDisabled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := NewService(storage.NewMockCommon(ctrl), nil, NewMockBindings(ctrl), NewFiles(t.TempDir()), inflight.New(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Apply(ctx, cloud.ApplyRequest{Domain: "example.com"})
	require.ErrorIs(t, err, errs.ErrCloudDisabled)
	_, err = svc.CheckStatus(ctx, "tc-1")
	require.ErrorIs(t, err, errs.ErrCloudDisabled)
	_, err = svc.Renew(ctx, "tc-1")
	require.ErrorIs(t, err, errs.ErrCloudDisabled)
	_, err = svc.Download(ctx, "tc-1")
	require.ErrorIs(t, err, errs.ErrCloudDisabled)
	_, err = svc.ListCloud(ctx)
	require.ErrorIs(t, err, errs.ErrCloudDisabled)

	n, err := svc.SyncCloud(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestServiceUpload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	notAfter := now.Add(10 * 24 * time.Hour)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		cert, key := selfSigned(t, "example.com", []string{"example.com"}, notAfter)

		f.storage.EXPECT().CreateCertificate(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Certificate) error {
			require.Equal(t, "wildcard", c.Name)
			require.Equal(t, entities.OriginUpload, c.Source)
			require.Equal(t, filepath.Join(f.dir, "local-id.crt"), c.CertPath)
			return nil
		})

		v, err := f.svc.Upload(ctx, UploadRequest{FileName: "/tmp/wildcard.pem", Cert: string(cert), Key: string(key)})
		require.NoError(t, err)
		require.Equal(t, entities.StateExpiring, v.State)
		require.Equal(t, "example.com", v.Domain)
		require.Equal(t, entities.Actions{entities.ActionDelete}, v.Actions)
	})
	t.Run("storage failure removes files", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		cert, key := selfSigned(t, "example.com", nil, notAfter)
		f.storage.EXPECT().CreateCertificate(ctx, gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.Upload(ctx, UploadRequest{Cert: string(cert), Key: string(key)})
		require.Error(t, err)

		entries, err := os.ReadDir(f.dir)
		require.NoError(t, err)
		require.Empty(t, entries)
	})
	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.svc.Upload(ctx, UploadRequest{Cert: "x"})
		require.True(t, errs.IsValidation(err, errs.InvalidInput))
	})
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("in use", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		cert := entities.Certificate{ID: "c1", CertPath: "/a.crt", KeyPath: "/a.key", Source: entities.OriginUpload}
		f.storage.EXPECT().GetCertificate(ctx, "c1").Return(cert, nil)
		f.rules.EXPECT().InUse(ctx, entities.TLSBinding{CertPath: "/a.crt", KeyPath: "/a.key"}).Return(true, nil)

		require.ErrorIs(t, f.svc.Delete(ctx, "c1"), errs.ErrConflict)
	})
	t.Run("cloud revoke failure does not block", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		b, err := f.svc.files.Write("tc-1", cloud.Bundle{Cert: []byte("C"), Key: []byte("K")})
		require.NoError(t, err)

		cert := entities.Certificate{ID: "c2", CertPath: b.CertPath, KeyPath: b.KeyPath, Source: entities.OriginCloud, SourceID: "tc-1"}
		gomock.InOrder(
			f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(cert, nil),
			f.rules.EXPECT().InUse(ctx, b).Return(false, nil),
			f.ca.EXPECT().Revoke(ctx, "tc-1").Return(&errs.TransportError{Op: "revoke", Err: errors.New("timeout")}),
			f.storage.EXPECT().DeleteCertificate(ctx, "c2").Return(nil),
		)

		require.NoError(t, f.svc.DeleteCloud(ctx, "tc-1"))

		_, err = os.Stat(b.CertPath)
		require.True(t, os.IsNotExist(err))
	})
	t.Run("issuing cloud certificate", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		cert := entities.Certificate{ID: "c3", Source: entities.OriginCloud, SourceID: "tc-3"}
		f.storage.EXPECT().GetCertificate(ctx, "c3").Return(cert, nil)
		f.ca.EXPECT().Revoke(ctx, "tc-3").Return(cloud.ErrGone)
		f.storage.EXPECT().DeleteCertificate(ctx, "c3").Return(nil)

		require.NoError(t, f.svc.Delete(ctx, "c3"))
	})
}

func TestServiceRename(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").
		Return(entities.Certificate{ID: "c1", Source: entities.OriginCloud, SourceID: "tc-1"}, nil)
	f.storage.EXPECT().UpdateCertificate(ctx, gomock.Any()).Return(nil)

	v, err := f.svc.RenameCloud(ctx, "tc-1", " prod ")
	require.NoError(t, err)
	require.Equal(t, "prod", v.Name)
	require.Equal(t, "tc-1", v.ID)

	f.storage.EXPECT().GetCertificate(ctx, "c2").Return(entities.Certificate{ID: "c2"}, nil)
	_, err = f.svc.Rename(ctx, "c2", "  ")
	require.True(t, errs.IsValidation(err, errs.InvalidInput))
}

func TestServiceRenameConcurrentNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	cert := entities.Certificate{ID: "c1", Source: entities.OriginUpload, CertPath: "/c.crt"}

	entered := make(chan struct{})
	release := make(chan struct{})
	f.storage.EXPECT().GetCertificate(ctx, "c1").Return(cert, nil).Times(2)
	f.storage.EXPECT().UpdateCertificate(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Certificate) error {
		require.Equal(t, "first", c.Name)
		close(entered)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Rename(ctx, "c1", "first")
		done <- err
	}()
	<-entered

	_, err := f.svc.Rename(ctx, "c1", "second")
	require.ErrorIs(t, err, errs.ErrBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestServiceApply(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates issuing record", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		req := cloud.ApplyRequest{Domain: "example.com", Alias: "site", ValidateType: cloud.ValidateDNS}
		validation := &cloud.Validation{Type: "DNS", Record: "_dnsauth", Value: "token"}

		f.ca.EXPECT().Apply(ctx, req).Return(cloud.ApplyResult{CertificateID: "tc-9", Validation: validation}, nil)
		f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-9").Return(entities.Certificate{}, errs.ErrNotFound)
		f.storage.EXPECT().CreateCertificate(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Certificate) error {
			require.Empty(t, c.CertPath)
			require.Equal(t, "tc-9", c.SourceID)
			require.Equal(t, entities.StateIssuing, Resolve(FromCertificate(c), now))
			return nil
		})

		res, err := f.svc.Apply(ctx, req)
		require.NoError(t, err)
		require.Equal(t, "tc-9", res.CertificateID)
		require.Equal(t, validation, res.Validation)
	})
	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.svc.Apply(ctx, cloud.ApplyRequest{})
		require.True(t, errs.IsValidation(err, errs.EmptyDomain))

		_, err = f.svc.Apply(ctx, cloud.ApplyRequest{Domain: "a.com", ValidateType: "EMAIL"})
		require.True(t, errs.IsValidation(err, errs.InvalidInput))
	})
	t.Run("CA error", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ca.EXPECT().Apply(ctx, gomock.Any()).Return(cloud.ApplyResult{}, &errs.ServiceError{Op: "apply", Message: "LimitExceeded - quota"})

		_, err := f.svc.Apply(ctx, cloud.ApplyRequest{Domain: "a.com"})
		require.Equal(t, "LimitExceeded - quota", errs.Message(err))
	})
}

func TestServiceCheckStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("approved downloads material", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		certPEM, keyPEM := selfSigned(t, "example.com", nil, now.Add(200*24*time.Hour))
		cert := entities.Certificate{ID: "c1", Name: "site", Domain: "example.com", Source: entities.OriginCloud, SourceID: "tc-1"}

		f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(cert, nil)
		f.ca.EXPECT().Describe(ctx, "tc-1").Return(cloud.Detail{Status: cloud.StatusApproved, EndTime: "2025-01-01 00:00:00"}, nil)
		f.ca.EXPECT().Download(ctx, "tc-1").Return(cloud.Bundle{Cert: certPEM, Key: keyPEM}, nil)
		f.storage.EXPECT().UpdateCertificate(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Certificate) error {
			require.Equal(t, filepath.Join(f.dir, "tc-1.crt"), c.CertPath)
			require.NotNil(t, c.ExpiresAt)
			return nil
		})

		report, err := f.svc.CheckStatus(ctx, "tc-1")
		require.NoError(t, err)
		require.Equal(t, "approved", report.Status)
		require.Equal(t, "2025-01-01 00:00:00", report.ExpiresAt)
		require.Equal(t, entities.StateActive, report.State)
	})
	t.Run("still reviewing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		cert := entities.Certificate{ID: "c1", Name: "site", Source: entities.OriginCloud, SourceID: "tc-1"}

		f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(cert, nil)
		f.ca.EXPECT().Describe(ctx, "tc-1").Return(cloud.Detail{Status: cloud.StatusReviewing}, nil)

		report, err := f.svc.CheckStatus(ctx, "tc-1")
		require.NoError(t, err)
		require.Equal(t, entities.StateIssuing, report.State)
		require.Empty(t, report.ExpiresAt)
	})
	t.Run("renewal completes", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		old, err := f.svc.files.Write("tc-1", cloud.Bundle{Cert: []byte("OLD"), Key: []byte("OLDKEY")})
		require.NoError(t, err)

		expires := now.Add(5 * 24 * time.Hour)
		cert := entities.Certificate{
			ID:              "c1",
			Name:            "site",
			Domain:          "example.com",
			CertPath:        old.CertPath,
			KeyPath:         old.KeyPath,
			ExpiresAt:       &expires,
			Source:          entities.OriginCloud,
			SourceID:        "tc-1",
			Status:          entities.RawStatusRenewing,
			RenewalSourceID: "tc-2",
		}
		certPEM, keyPEM := selfSigned(t, "example.com", nil, now.Add(365*24*time.Hour))
		next := entities.TLSBinding{CertPath: filepath.Join(f.dir, "tc-2.crt"), KeyPath: filepath.Join(f.dir, "tc-2.key")}

		gomock.InOrder(
			f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(cert, nil),
			f.ca.EXPECT().Describe(ctx, "tc-1").Return(cloud.Detail{Status: cloud.StatusApproved}, nil),
			f.ca.EXPECT().Describe(ctx, "tc-2").Return(cloud.Detail{Status: cloud.StatusApproved, EndTime: "2025-06-01 00:00:00"}, nil),
			f.ca.EXPECT().Download(ctx, "tc-2").Return(cloud.Bundle{Cert: certPEM, Key: keyPEM}, nil),
			f.storage.EXPECT().UpdateCertificate(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Certificate) error {
				require.Equal(t, next.CertPath, c.CertPath)
				require.Equal(t, entities.RawStatusActive, c.Status)
				require.Empty(t, c.RenewalSourceID)
				return nil
			}),
			f.rules.EXPECT().Repoint(ctx, old, next).Return(2, nil),
		)

		report, err := f.svc.CheckStatus(ctx, "tc-1")
		require.NoError(t, err)
		require.True(t, report.Renewed)
		require.Equal(t, entities.StateActive, report.State)

		_, err = os.Stat(old.CertPath)
		require.True(t, os.IsNotExist(err))
		_, err = os.Stat(next.KeyPath)
		require.NoError(t, err)
	})
}

func TestServiceRenew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	expires := now.Add(-24 * time.Hour)
	active := entities.Certificate{
		ID:        "c1",
		Name:      "site",
		Domain:    "example.com",
		CertPath:  "/a.crt",
		KeyPath:   "/a.key",
		ExpiresAt: &expires,
		Source:    entities.OriginCloud,
		SourceID:  "tc-1",
		Status:    entities.RawStatusActive,
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		var statuses []string
		f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(active, nil)
		f.storage.EXPECT().UpdateCertificate(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Certificate) error {
			statuses = append(statuses, c.Status+"/"+c.RenewalSourceID)
			return nil
		}).Times(2)
		f.ca.EXPECT().Apply(ctx, cloud.ApplyRequest{
			Domain:       "example.com",
			Alias:        "site_renewed_20240601",
			ValidateType: cloud.ValidateDNSAuto,
		}).Return(cloud.ApplyResult{CertificateID: "tc-2"}, nil)

		res, err := f.svc.Renew(ctx, "tc-1")
		require.NoError(t, err)
		require.Equal(t, "tc-2", res.NewCertificateID)
		require.Equal(t, []string{"renewing/", "renewing/tc-2"}, statuses)
	})
	t.Run("CA failure restores status", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		var statuses []string
		f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(active, nil)
		f.storage.EXPECT().UpdateCertificate(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Certificate) error {
			statuses = append(statuses, c.Status)
			return nil
		}).Times(2)
		f.ca.EXPECT().Apply(ctx, gomock.Any()).Return(cloud.ApplyResult{}, &errs.TransportError{Op: "apply", Err: errors.New("reset")})

		_, err := f.svc.Renew(ctx, "tc-1")
		require.Error(t, err)
		require.Equal(t, []string{"renewing", "active"}, statuses)
	})
	t.Run("already renewing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		renewing := active
		renewing.Status = entities.RawStatusRenewing
		f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(renewing, nil)

		_, err := f.svc.Renew(ctx, "tc-1")
		require.ErrorIs(t, err, errs.ErrBusy)
	})
	t.Run("issuing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").
			Return(entities.Certificate{ID: "c1", Source: entities.OriginCloud, SourceID: "tc-1"}, nil)

		_, err := f.svc.Renew(ctx, "tc-1")
		require.ErrorIs(t, err, errs.ErrActionNotAllowed)
	})
}

func TestServiceSyncCloud(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	expires := now.Add(100 * 24 * time.Hour)
	certs := entities.Certificates{
		{ID: "u1", Source: entities.OriginUpload, CertPath: "/u.crt"},
		{ID: "c1", Source: entities.OriginCloud, SourceID: "tc-1"},
		{ID: "c2", Source: entities.OriginCloud, SourceID: "tc-2", CertPath: "/c2.crt", ExpiresAt: &expires},
	}
	f.storage.EXPECT().GetCertificates(ctx).Return(certs, nil)
	f.storage.EXPECT().GetCertificateBySource(ctx, entities.OriginCloud, "tc-1").Return(certs[1], nil)
	f.ca.EXPECT().Describe(ctx, "tc-1").Return(cloud.Detail{}, &errs.TransportError{Op: "describe", Err: errors.New("timeout")})

	n, err := f.svc.SyncCloud(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestServiceListCloud(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	f.ca.EXPECT().List(ctx).Return([]cloud.Summary{
		{CertificateID: "tc-1", Domain: "a.com", Status: cloud.StatusApproved, EndTime: "2024-06-05 00:00:00"},
		{CertificateID: "tc-2", Domain: "b.com", Status: cloud.StatusReviewing},
	}, nil)
	f.storage.EXPECT().GetCertificates(ctx).Return(entities.Certificates{
		{ID: "c1", Name: "a", Source: entities.OriginCloud, SourceID: "tc-1", CertPath: "/a.crt", KeyPath: "/a.key"},
	}, nil)

	views, err := f.svc.ListCloud(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, entities.StateExpiring, views[0].State)
	require.Equal(t, "a", views[0].Name)
	require.Equal(t, entities.StateIssuing, views[1].State)
}
