package rule

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/inflight"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage"
)

//go:generate mockgen -source=service.go -package=rule -destination=service_mock.go

// Proxy applies rules to the running reverse proxy.
type Proxy interface {
	// Apply renders rule and verifies the proxy accepts it.
	Apply(ctx context.Context, rule *entities.Rule) error
	// Remove drops the rendered configuration of a rule.
	Remove(ctx context.Context, ruleID string) error
	// Reload makes the proxy pick up rendered changes.
	Reload(ctx context.Context) error
}

// Service manages stored rules and keeps the proxy configuration in sync.
type Service struct {
	storage storage.Common
	proxy   Proxy
	guard   *inflight.Guard
	logger  *zap.Logger

	stat  func(name string) (os.FileInfo, error)
	newID func() string
}

// NewService returns a rule Service.
func NewService(st storage.Common, proxy Proxy, guard *inflight.Guard, logger *zap.Logger) *Service {
	return &Service{
		storage: st,
		proxy:   proxy,
		guard:   guard,
		logger:  logger,
		stat:    os.Stat,
		newID:   uuid.NewString,
	}
}

// List returns all rules.
func (s *Service) List(ctx context.Context) (entities.Rules, error) {
	rules, err := s.storage.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

// Get returns one rule.
func (s *Service) Get(ctx context.Context, id string) (entities.Rule, error) {
	return s.storage.GetRule(ctx, id)
}

// Create validates, renders and stores a new rule.
func (s *Service) Create(ctx context.Context, rule entities.Rule) (entities.Rule, error) {
	Normalize(&rule)
	if err := Validate(&rule); err != nil {
		return entities.Rule{}, err
	}

	created, _, err := inflight.Do(s.guard, "rule:"+rule.ServerName, "create", inflight.Digest(rule), func() (entities.Rule, error) {
		if err := s.check(ctx, &rule, ""); err != nil {
			return entities.Rule{}, err
		}
		rule.ID = s.newID()

		if err := s.proxy.Apply(ctx, &rule); err != nil {
			return entities.Rule{}, err
		}
		if err := s.storage.CreateRule(ctx, &rule); err != nil {
			s.discard(ctx, rule.ID)
			return entities.Rule{}, fmt.Errorf("failed to save rule: %w", err)
		}

		s.reload(ctx)
		return rule, nil
	})
	if err != nil {
		return entities.Rule{}, err
	}

	s.logger.Info("rule created", zap.String("rule_id", created.ID), zap.String("server_name", created.ServerName))
	return created, nil
}

// Update replaces a stored rule. When the proxy rejects the new version the
// previous one is rendered again.
func (s *Service) Update(ctx context.Context, id string, rule entities.Rule) (entities.Rule, error) {
	rule.ID = id
	Normalize(&rule)
	if err := Validate(&rule); err != nil {
		return entities.Rule{}, err
	}

	updated, _, err := inflight.Do(s.guard, "rule:"+id, "update", inflight.Digest(rule), func() (entities.Rule, error) {
		if err := s.check(ctx, &rule, id); err != nil {
			return entities.Rule{}, err
		}
		prev, err := s.storage.GetRule(ctx, id)
		if err != nil {
			return entities.Rule{}, err
		}

		if err := s.proxy.Apply(ctx, &rule); err != nil {
			s.restore(ctx, &prev)
			return entities.Rule{}, err
		}
		if err := s.storage.UpdateRule(ctx, &rule); err != nil {
			s.restore(ctx, &prev)
			return entities.Rule{}, fmt.Errorf("failed to save rule: %w", err)
		}

		s.reload(ctx)
		return rule, nil
	})
	if err != nil {
		return entities.Rule{}, err
	}

	s.logger.Info("rule updated", zap.String("rule_id", id))
	return updated, nil
}

// Delete removes a rule and its rendered configuration.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, _, err := inflight.Do(s.guard, "rule:"+id, "delete", "", func() (struct{}, error) {
		if _, err := s.storage.GetRule(ctx, id); err != nil {
			return struct{}{}, err
		}
		if err := s.proxy.Remove(ctx, id); err != nil {
			return struct{}{}, err
		}
		if err := s.storage.DeleteRule(ctx, id); err != nil {
			return struct{}{}, fmt.Errorf("failed to delete rule: %w", err)
		}

		s.reload(ctx)
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("rule deleted", zap.String("rule_id", id))
	return nil
}

// Match previews which location and upstream of a rule would serve req.
func (s *Service) Match(ctx context.Context, id string, req entities.RequestContext) (Route, bool, error) {
	rule, err := s.storage.GetRule(ctx, id)
	if err != nil {
		return Route{}, false, err
	}
	route, ok := Select(&rule, req)
	return route, ok, nil
}

// Repoint moves every rule bound to the old material to the new one and
// renders the affected rules. It returns the number of rules changed.
func (s *Service) Repoint(ctx context.Context, from, to entities.TLSBinding) (int, error) {
	rules, err := s.storage.GetRules(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list rules: %w", err)
	}

	var n int
	for i := range rules {
		rule := &rules[i]
		if !rule.UsesCertificate(from.CertPath, from.KeyPath) {
			continue
		}
		rule.TLS = &entities.TLSBinding{CertPath: to.CertPath, KeyPath: to.KeyPath}
		if err := s.storage.UpdateRule(ctx, rule); err != nil {
			return n, fmt.Errorf("failed to repoint rule %s: %w", rule.ID, err)
		}
		if err := s.proxy.Apply(ctx, rule); err != nil {
			s.logger.Error("failed to render repointed rule", zap.String("rule_id", rule.ID), zap.Error(err))
		}
		n++
	}
	if n > 0 {
		s.reload(ctx)
	}
	return n, nil
}

// InUse reports whether any rule is bound to the given material.
func (s *Service) InUse(ctx context.Context, material entities.TLSBinding) (bool, error) {
	rules, err := s.storage.GetRules(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list rules: %w", err)
	}
	for i := range rules {
		if rules[i].UsesCertificate(material.CertPath, material.KeyPath) {
			return true, nil
		}
	}
	return false, nil
}

// RenderAll renders every stored rule and reloads the proxy once. Rules the
// proxy rejects are logged and skipped.
func (s *Service) RenderAll(ctx context.Context) error {
	rules, err := s.storage.GetRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}

	var failed int
	for i := range rules {
		if err := s.proxy.Apply(ctx, &rules[i]); err != nil {
			failed++
			s.logger.Error("failed to render rule", zap.String("rule_id", rules[i].ID), zap.Error(err))
		}
	}
	s.logger.Info("rules rendered", zap.Int("total", len(rules)), zap.Int("failed", failed))

	return s.Reload(ctx)
}

// Reload reloads the proxy.
func (s *Service) Reload(ctx context.Context) error {
	if err := s.proxy.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload proxy: %w", err)
	}
	return nil
}

func (s *Service) check(ctx context.Context, rule *entities.Rule, excludeID string) error {
	if rule.TLS != nil {
		if _, err := s.stat(rule.TLS.CertPath); err != nil {
			return errs.Validation(errs.UnknownCertificate, "tls.cert_path", "certificate file not found")
		}
		if _, err := s.stat(rule.TLS.KeyPath); err != nil {
			return errs.Validation(errs.UnknownCertificate, "tls.key_path", "key file not found")
		}
	}

	taken, err := s.storage.ServerNameTaken(ctx, rule.ServerName, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("server name %s is already used by another rule: %w", rule.ServerName, errs.ErrConflict)
	}
	return nil
}

func (s *Service) reload(ctx context.Context) {
	if err := s.proxy.Reload(ctx); err != nil {
		s.logger.Error("failed to reload proxy", zap.Error(err))
	}
}

func (s *Service) discard(ctx context.Context, id string) {
	if err := s.proxy.Remove(ctx, id); err != nil {
		s.logger.Error("failed to remove rendered rule", zap.String("rule_id", id), zap.Error(err))
	}
}

func (s *Service) restore(ctx context.Context, prev *entities.Rule) {
	if err := s.proxy.Apply(ctx, prev); err != nil {
		s.logger.Error("failed to restore previous rule", zap.String("rule_id", prev.ID), zap.Error(err))
	}
}
