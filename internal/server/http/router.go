package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/environment"
)

const maxBodyBytes = 1 << 20

func (s *Server) router(ctx context.Context) http.Handler {
	mux := chi.NewRouter()

	mux.Use(
		middleware.Recoverer,
		middleware.Heartbeat("/check"),
	)
	if s.metrics != nil {
		mux.Use(s.metrics.Middleware)
		mux.Handle("/metrics", s.metrics.Handler())
	}

	mux.Get("/deploy/info", deployInfoHandlerFunc(ctx))

	mux.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestID)

		r.Post("/reload", s.reload)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.listRules)
			r.Post("/", s.createRule)
			r.Get("/{id}", s.getRule)
			r.Put("/{id}", s.updateRule)
			r.Delete("/{id}", s.deleteRule)
			r.Post("/{id}/match", s.matchRule)
		})

		r.Route("/certificates", func(r chi.Router) {
			r.Get("/", s.listCertificates)
			r.Post("/", s.uploadCertificate)
			r.Get("/{id}", s.getCertificate)
			r.Delete("/{id}", s.deleteCertificate)
			r.Put("/{id}/name", s.renameCertificate)
		})

		r.Get("/cloud", s.cloudInfo)
		r.Route("/cloud/certificates", func(r chi.Router) {
			r.Get("/", s.listCloudCertificates)
			r.Post("/", s.applyCertificate)
			r.Get("/{id}/status", s.checkCertificateStatus)
			r.Post("/{id}/renew", s.renewCertificate)
			r.Post("/{id}/download", s.downloadCertificate)
			r.Put("/{id}/name", s.renameCloudCertificate)
			r.Delete("/{id}", s.deleteCloudCertificate)
		})
	})

	return mux
}

func deployInfoHandlerFunc(ctx context.Context) http.HandlerFunc {
	info := map[string]string{
		"service":     environment.ServiceName,
		"environment": environment.EnvFromCtx(ctx).String(),
		"version":     environment.VersionFromCtx(ctx),
		"build_time":  environment.BuildTimeFromCtx(ctx),
	}

	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info) //nolint:errcheck,gosec
	}
}
