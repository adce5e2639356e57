// Package probe checks the certificate every TLS rule actually serves.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/geozo-tech/go-curl"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

const parseDateFormat = "Jan 2 15:04:05 2006 MST"

var (
	errMissingExpireDate = errors.New("expire date is not found in cert info")
	errNoCertInfo        = errors.New("no cert info")
	selfSignedPattern    = regexp.MustCompile(`(CN = ISRG Root)|(R\d)`)
)

// Rules lists the rules to probe.
type Rules interface {
	List(ctx context.Context) (entities.Rules, error)
}

// Result is the certificate seen on one address of a server name.
type Result struct {
	RuleID     string     `json:"rule_id"`
	ServerName string     `json:"server_name"`
	IP         string     `json:"ip"`
	ExpiredAt  *time.Time `json:"expired_at,omitempty"`
	Valid      bool       `json:"valid"`
	Error      string     `json:"error,omitempty"`
}

// Observer receives probe results.
type Observer interface {
	ObserveProbe(r Result)
}

// Fetcher fetches the certificate served by ip for domain.
type Fetcher func(ip, domain string, timeout time.Duration) (Result, error)

// Resolver resolves a server name into addresses.
type Resolver func(host string) ([]net.IP, error)

// Service probes TLS rules.
type Service struct {
	rules    Rules
	observer Observer
	logger   *zap.Logger
	timeout  time.Duration

	fetch   Fetcher
	resolve Resolver
}

// New returns new Service ready to use. A nil observer discards results.
func New(rules Rules, observer Observer, logger *zap.Logger, timeout time.Duration) *Service {
	return &Service{
		rules:    rules,
		observer: observer,
		logger:   logger,
		timeout:  timeout,
		fetch:    getSSLInfo,
		resolve:  net.LookupIP,
	}
}

// ProbeRules probes every address of every TLS rule's server name.
func (s *Service) ProbeRules(ctx context.Context) ([]Result, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules list: %w", err)
	}

	var results []Result
	for i := range rules {
		rule := &rules[i]
		if !rule.HasTLS() || strings.HasPrefix(rule.ServerName, "*") {
			continue
		}
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		ipList, err := s.resolve(rule.ServerName)
		if err != nil {
			s.logger.Error("failed to resolve server name",
				zap.String("server_name", rule.ServerName),
				zap.Error(err),
			)
			continue
		}

		for _, ip := range ipList {
			res := s.probe(rule, ip.String())
			results = append(results, res)
			if s.observer != nil {
				s.observer.ObserveProbe(res)
			}
		}
	}

	return results, nil
}

func (s *Service) probe(rule *entities.Rule, ip string) Result {
	res, err := s.fetch(ip, rule.ServerName, s.timeout)
	res.RuleID = rule.ID
	res.ServerName = rule.ServerName
	res.IP = ip
	if err != nil {
		s.logger.Error("failed to find certificate info",
			zap.String("server_name", rule.ServerName),
			zap.String("ip", ip),
			zap.Error(err),
		)
		res.Valid = false
		res.Error = err.Error()
		return res
	}

	s.logger.Debug("probed served certificate",
		zap.String("server_name", rule.ServerName),
		zap.String("ip", ip),
		zap.Bool("valid", res.Valid),
	)
	return res
}

func getSSLInfo(ip, domain string, timeout time.Duration) (Result, error) {
	easy := curl.EasyInit()
	defer easy.Cleanup()

	seconds := int(timeout / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	if err := easy.Setopt(curl.OPT_URL, "https://"+domain); err != nil {
		return Result{}, fmt.Errorf("failed append param url: %w", err)
	}
	if err := easy.Setopt(curl.OPT_CONNECT_TO, []string{fmt.Sprintf("%s:443:%s:443", domain, ip)}); err != nil {
		return Result{}, fmt.Errorf("failed append param connect to: %w", err)
	}
	if err := easy.Setopt(curl.OPT_SSL_VERIFYPEER, true); err != nil {
		return Result{}, fmt.Errorf("failed append param verifypeer: %w", err)
	}
	if err := easy.Setopt(curl.OPT_SSL_VERIFYHOST, true); err != nil {
		return Result{}, fmt.Errorf("failed append param verifyhost: %w", err)
	}
	if err := easy.Setopt(curl.OPT_TIMEOUT, seconds); err != nil {
		return Result{}, fmt.Errorf("failed append param timeout: %w", err)
	}
	if err := easy.Setopt(curl.OPT_CERTINFO, true); err != nil {
		return Result{}, fmt.Errorf("failed append param certinfo: %w", err)
	}
	if err := easy.Setopt(curl.OPT_NOPROGRESS, true); err != nil {
		return Result{}, fmt.Errorf("failed append param noprogress: %w", err)
	}
	if err := easy.Setopt(curl.OPT_NOBODY, true); err != nil {
		return Result{}, fmt.Errorf("failed append param nobody: %w", err)
	}
	if err := easy.Perform(); err != nil {
		return Result{}, fmt.Errorf("failed to send curl: %w", err)
	}

	info, err := easy.Getinfo(curl.INFO_CERTINFO)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get info: %w", err)
	}

	switch certs := info.(type) {
	case []string:
		return getCertInfo(certs, time.Now())
	default:
		return Result{}, errors.New("unsupported certificate info format") //nolint:goerr113
	}
}

// getCertInfo reads the leaf of a curl certificate chain dump.
func getCertInfo(certs []string, now time.Time) (Result, error) {
	lc := len("Expire date") + 1
	for _, cert := range certs {
		matchExpiredAt := strings.Index(cert, "Expire date")
		if matchExpiredAt == -1 {
			return Result{}, errMissingExpireDate
		}

		certT := strings.Split(cert[matchExpiredAt+lc:], "\n")[0]

		expiredAt, err := time.Parse(parseDateFormat, strings.TrimSpace(certT))
		if err != nil {
			return Result{}, fmt.Errorf("parse date error: %w", err)
		}

		isSelfSignedCert := selfSignedPattern.MatchString(strings.Split(cert, "\n")[0])
		return Result{
			ExpiredAt: &expiredAt,
			Valid:     !expiredAt.Before(now) && !isSelfSignedCert,
		}, nil
	}

	return Result{}, errNoCertInfo
}
