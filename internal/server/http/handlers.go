package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/rule"
)

// MatchResponse is the answer to a rule match preview.
type MatchResponse struct {
	Matched bool        `json:"matched"`
	Route   *rule.Route `json:"route,omitempty"`
}

// RenameRequest carries a new display name.
type RenameRequest struct {
	Name string `json:"name"`
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if err := s.rules.Reload(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.rules.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = entities.Rules{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) getRule(w http.ResponseWriter, r *http.Request) {
	rl, err := s.rules.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rl)
}

func (s *Server) createRule(w http.ResponseWriter, r *http.Request) {
	var in entities.Rule
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.rules.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) updateRule(w http.ResponseWriter, r *http.Request) {
	var in entities.Rule
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.rules.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.rules.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) matchRule(w http.ResponseWriter, r *http.Request) {
	var req entities.RequestContext
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	route, ok, err := s.rules.Match(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := MatchResponse{Matched: ok}
	if ok {
		resp.Route = &route
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listCertificates(w http.ResponseWriter, r *http.Request) {
	views, err := s.certs.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if views == nil {
		views = []certificate.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getCertificate(w http.ResponseWriter, r *http.Request) {
	v, err := s.certs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) uploadCertificate(w http.ResponseWriter, r *http.Request) {
	var in certificate.UploadRequest
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.certs.Upload(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) renameCertificate(w http.ResponseWriter, r *http.Request) {
	var in RenameRequest
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.certs.Rename(r.Context(), chi.URLParam(r, "id"), in.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) deleteCertificate(w http.ResponseWriter, r *http.Request) {
	if err := s.certs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) cloudInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": s.certs.CloudEnabled()})
}

func (s *Server) listCloudCertificates(w http.ResponseWriter, r *http.Request) {
	views, err := s.certs.ListCloud(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if views == nil {
		views = []certificate.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) applyCertificate(w http.ResponseWriter, r *http.Request) {
	var in cloud.ApplyRequest
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.certs.Apply(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

func (s *Server) checkCertificateStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.certs.CheckStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) renewCertificate(w http.ResponseWriter, r *http.Request) {
	res, err := s.certs.Renew(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

func (s *Server) downloadCertificate(w http.ResponseWriter, r *http.Request) {
	v, err := s.certs.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) renameCloudCertificate(w http.ResponseWriter, r *http.Request) {
	var in RenameRequest
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.certs.RenameCloud(r.Context(), chi.URLParam(r, "id"), in.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) deleteCloudCertificate(w http.ResponseWriter, r *http.Request) {
	if err := s.certs.DeleteCloud(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
