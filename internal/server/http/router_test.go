package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/environment"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/metrics"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/rule"
)

type fixture struct {
	handler http.Handler
	rules   *MockRuleService
	certs   *MockCertificateService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		rules: NewMockRuleService(ctrl),
		certs: NewMockCertificateService(ctrl),
	}
	srv, err := NewServer(zap.NewNop(), &config.AppConfig{}, f.rules, f.certs, metrics.New())
	require.NoError(t, err)

	ctx := environment.CtxWithEnv(context.Background(), environment.Env("testing"))
	f.handler = srv.router(ctx)
	return f
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) ErrorPayload {
	t.Helper()

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestNewServerRequiresServices(t *testing.T) {
	t.Parallel()

	_, err := NewServer(zap.NewNop(), &config.AppConfig{}, nil, nil, nil)
	require.Error(t, err)
}

func TestOpsRoutes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/check", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/deploy/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Equal(t, environment.ServiceName, info["service"])
	require.Equal(t, "testing", info["environment"])

	rec = f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRuleRoutes(t *testing.T) {
	t.Parallel()

	ruleBody := `{"server_name":"a.com","listen_ports":[80],"locations":[{"path":"/","upstreams":[{"target":"http://b:8080","condition":{"ip_cidr":"0.0.0.0/0"}}]}]}`

	t.Run("list empty", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().List(gomock.Any()).Return(nil, nil)

		rec := f.do(t, http.MethodGet, "/api/rules", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[]`, rec.Body.String())
	})
	t.Run("create", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r entities.Rule) (entities.Rule, error) {
			require.Equal(t, "a.com", r.ServerName)
			require.Equal(t, "http://b:8080", r.Locations[0].Upstreams[0].Target)
			r.ID = "r1"
			return r, nil
		})

		rec := f.do(t, http.MethodPost, "/api/rules", ruleBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var out entities.Rule
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Equal(t, "r1", out.ID)
	})
	t.Run("create invalid", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(entities.Rule{}, errs.Validation(errs.NoUpstreams, "locations", "at least one upstream is required"))

		rec := f.do(t, http.MethodPost, "/api/rules", ruleBody)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		p := errorOf(t, rec)
		require.Equal(t, errs.NoUpstreams, p.Kind)
		require.Equal(t, "locations", p.Field)
		require.NotEmpty(t, p.Error)
	})
	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/rules", `{"server_name":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, errs.InvalidInput, errorOf(t, rec).Kind)
	})
	t.Run("get missing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Get(gomock.Any(), "nope").Return(entities.Rule{}, errs.ErrNotFound)

		rec := f.do(t, http.MethodGet, "/api/rules/nope", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("update rejected by proxy", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Update(gomock.Any(), "r1", gomock.Any()).
			Return(entities.Rule{}, fmt.Errorf("nginx -t: %w", errs.ErrProxyRejected))

		rec := f.do(t, http.MethodPut, "/api/rules/r1", ruleBody)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
	t.Run("delete busy", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Delete(gomock.Any(), "r1").Return(errs.ErrBusy)

		rec := f.do(t, http.MethodDelete, "/api/rules/r1", "")
		require.Equal(t, http.StatusConflict, rec.Code)
	})
	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Delete(gomock.Any(), "r1").Return(nil)

		rec := f.do(t, http.MethodDelete, "/api/rules/r1", "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
	t.Run("match", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Match(gomock.Any(), "r1", entities.RequestContext{
			Path:     "/api/x",
			SourceIP: "10.0.0.1",
			Headers:  map[string]string{"X-Env": "beta"},
		}).Return(rule.Route{LocationIndex: 1, UpstreamIndex: 0, Path: "/api", Target: "http://beta"}, true, nil)

		rec := f.do(t, http.MethodPost, "/api/rules/r1/match", `{"path":"/api/x","remote_addr":"10.0.0.1","headers":{"X-Env":"beta"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"matched":true,"route":{"location_index":1,"upstream_index":0,"path":"/api","target":"http://beta"}}`, rec.Body.String())
	})
	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Match(gomock.Any(), "r1", gomock.Any()).Return(rule.Route{}, false, nil)

		rec := f.do(t, http.MethodPost, "/api/rules/r1/match", `{"path":"/"}`)
		require.JSONEq(t, `{"matched":false}`, rec.Body.String())
	})
	t.Run("reload failure", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.rules.EXPECT().Reload(gomock.Any()).Return(errors.New("exit status 1"))

		rec := f.do(t, http.MethodPost, "/api/reload", "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "internal error", errorOf(t, rec).Error)
	})
}

func TestCertificateRoutes(t *testing.T) {
	t.Parallel()

	t.Run("list carries state and actions", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().List(gomock.Any()).Return([]certificate.View{{
			Record:  entities.Record{ID: "c1", Origin: entities.OriginUpload, CertPath: "/c.crt"},
			State:   entities.StateActive,
			Actions: entities.Actions{entities.ActionDelete},
		}}, nil)

		rec := f.do(t, http.MethodGet, "/api/certificates", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var views []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
		require.Len(t, views, 1)
		require.Equal(t, "active", views[0]["state"])
		require.Equal(t, []interface{}{"delete"}, views[0]["actions"])
	})
	t.Run("upload", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().Upload(gomock.Any(), certificate.UploadRequest{Name: "n", Cert: "C", Key: "K"}).
			Return(certificate.View{Record: entities.Record{ID: "c1"}}, nil)

		rec := f.do(t, http.MethodPost, "/api/certificates", `{"name":"n","cert":"C","key":"K"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	})
	t.Run("delete in use", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().Delete(gomock.Any(), "c1").Return(fmt.Errorf("used: %w", errs.ErrConflict))

		rec := f.do(t, http.MethodDelete, "/api/certificates/c1", "")
		require.Equal(t, http.StatusConflict, rec.Code)
	})
	t.Run("rename", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().Rename(gomock.Any(), "c1", "prod").Return(certificate.View{}, nil)

		rec := f.do(t, http.MethodPut, "/api/certificates/c1/name", `{"name":"prod"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCloudRoutes(t *testing.T) {
	t.Parallel()

	t.Run("info", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().CloudEnabled().Return(true)

		rec := f.do(t, http.MethodGet, "/api/cloud", "")
		require.JSONEq(t, `{"enabled":true}`, rec.Body.String())
	})
	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().ListCloud(gomock.Any()).Return(nil, errs.ErrCloudDisabled)

		rec := f.do(t, http.MethodGet, "/api/cloud/certificates", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
	t.Run("apply", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().Apply(gomock.Any(), cloud.ApplyRequest{Domain: "a.com", Alias: "a", ValidateType: cloud.ValidateDNS}).
			Return(certificate.ApplyResult{CertificateID: "tc-1", Status: "under review"}, nil)

		rec := f.do(t, http.MethodPost, "/api/cloud/certificates", `{"domain":"a.com","cert_alias":"a","validate_type":"DNS"}`)
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Contains(t, rec.Body.String(), `"certificate_id":"tc-1"`)
	})
	t.Run("CA message is passed through", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().CheckStatus(gomock.Any(), "tc-1").
			Return(certificate.StatusReport{}, &errs.ServiceError{Op: "describe", Message: "ResourceNotFound - no such certificate"})

		rec := f.do(t, http.MethodGet, "/api/cloud/certificates/tc-1/status", "")
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Equal(t, "ResourceNotFound - no such certificate", errorOf(t, rec).Error)
	})
	t.Run("renew not allowed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().Renew(gomock.Any(), "tc-1").Return(certificate.RenewResult{}, errs.ErrActionNotAllowed)

		rec := f.do(t, http.MethodPost, "/api/cloud/certificates/tc-1/renew", "")
		require.Equal(t, http.StatusConflict, rec.Code)
	})
	t.Run("download transport failure", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().Download(gomock.Any(), "tc-1").
			Return(certificate.View{}, &errs.TransportError{Op: "download", Err: errors.New("i/o timeout")})

		rec := f.do(t, http.MethodPost, "/api/cloud/certificates/tc-1/download", "")
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Equal(t, "request failed, please retry", errorOf(t, rec).Error)
	})
	t.Run("rename and delete", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.certs.EXPECT().RenameCloud(gomock.Any(), "tc-1", "b").Return(certificate.View{}, nil)
		f.certs.EXPECT().DeleteCloud(gomock.Any(), "tc-1").Return(nil)

		require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/cloud/certificates/tc-1/name", `{"name":"b"}`).Code)
		require.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/cloud/certificates/tc-1", "").Code)
	})
}
