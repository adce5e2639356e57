package nginx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Proxy renders rules and keeps the running nginx in sync with them.
type Proxy struct {
	gen     *Generator
	binary  string
	enabled bool
	run     Runner
	logger  *zap.Logger
}

// New returns a Proxy for the given configuration. When process control is
// disabled, files are still rendered but nginx is never invoked.
func New(conf *config.Nginx, logger *zap.Logger) *Proxy {
	return &Proxy{
		gen:     NewGenerator(conf.ConfigDir, conf.Resolver),
		binary:  conf.Binary,
		enabled: conf.Reload,
		run:     execRunner,
		logger:  logger,
	}
}

// WithRunner replaces the command runner.
func (p *Proxy) WithRunner(r Runner) *Proxy {
	p.run = r
	return p
}

// Apply renders rule and tests the resulting configuration. A rejected
// configuration is removed again and reported as errs.ErrProxyRejected.
func (p *Proxy) Apply(ctx context.Context, rule *entities.Rule) error {
	path, err := p.gen.Write(rule)
	if err != nil {
		return err
	}

	if err := p.Test(ctx); err != nil {
		if rmErr := p.gen.Remove(rule.ID); rmErr != nil {
			p.logger.Error("failed to remove rejected config", zap.String("path", path), zap.Error(rmErr))
		}
		return err
	}

	p.logger.Debug("rule rendered", zap.String("rule_id", rule.ID), zap.String("path", path))
	return nil
}

// Remove deletes the rendered configuration of a rule.
func (p *Proxy) Remove(_ context.Context, ruleID string) error {
	return p.gen.Remove(ruleID)
}

// Test runs nginx -t.
func (p *Proxy) Test(ctx context.Context) error {
	if !p.enabled {
		return nil
	}
	out, err := p.run(ctx, p.binary, "-t")
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrProxyRejected, strings.TrimSpace(string(out)))
	}
	return nil
}

// Reload tests the configuration and signals nginx to reload it.
func (p *Proxy) Reload(ctx context.Context) error {
	if !p.enabled {
		return nil
	}
	if err := p.Test(ctx); err != nil {
		return err
	}
	out, err := p.run(ctx, p.binary, "-s", "reload")
	if err != nil {
		return fmt.Errorf("nginx reload failed: %w, output: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
