// Package nginx renders rules into nginx server blocks and drives the nginx
// process.
package nginx

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

//go:embed server.conf.tmpl
var serverTemplate string

var tmpl = template.Must(template.New("server").Parse(serverTemplate)) //nolint:gochecknoglobals

var errUnsafeValue = errors.New("value cannot be written to the configuration")

// Characters that end a directive, open a block or start a variable when
// written unquoted.
const unsafeChars = " \t;{}\"'\\$#`"

// Generator writes one configuration file per rule into a directory
// included by the main nginx configuration.
type Generator struct {
	dir      string
	resolver string
}

// NewGenerator returns a Generator writing into dir. Resolver, when set, is
// emitted for locations that pick their upstream at request time.
func NewGenerator(dir, resolver string) *Generator {
	return &Generator{dir: dir, resolver: resolver}
}

// Path returns the file a rule is rendered to.
func (g *Generator) Path(ruleID string) string {
	return filepath.Join(g.dir, ruleID+".conf")
}

type geoBlock struct {
	Var  string
	CIDR string
}

type headerCheck struct {
	Var   string
	Value string
}

type branch struct {
	Target  string
	Always  bool
	GeoVar  string
	Headers []headerCheck
}

type locationBlock struct {
	Path     string
	Direct   string
	Branches []branch
}

type serverData struct {
	ID         string
	ServerName string
	Listen     []string
	Redirect   bool
	TLS        *entities.TLSBinding
	Resolver   string
	Geo        []geoBlock
	Locations  []locationBlock
}

// Render returns the configuration of rule.
//
// Upstreams of a location are evaluated in declared order and the first match
// wins. Nginx has no ordered branch construct, so branches are emitted in
// reverse order and each match overwrites the target chosen by the ones after it.
func (g *Generator) Render(rule *entities.Rule) ([]byte, error) {
	if err := checkValues(rule); err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}

	data := serverData{
		ID:         rule.ID,
		ServerName: rule.ServerName,
		TLS:        rule.TLS,
	}

	hasHTTP, hasHTTPS := false, false
	for _, p := range rule.ListenPorts {
		switch p {
		case entities.HTTPPort:
			hasHTTP = true
		case entities.HTTPSPort:
			hasHTTPS = true
		}
	}
	if hasHTTPS && rule.TLS == nil {
		return nil, fmt.Errorf("rule %s listens on %d without a certificate", rule.ID, entities.HTTPSPort)
	}

	switch {
	case hasHTTPS:
		data.Listen = []string{strconv.Itoa(entities.HTTPSPort) + " ssl"}
		data.Redirect = hasHTTP
	default:
		data.Listen = []string{strconv.Itoa(entities.HTTPPort)}
	}

	prefix := "pa_" + strings.NewReplacer("-", "_", ".", "_").Replace(rule.ID)
	dynamic := false
	for li, loc := range rule.Locations {
		block := locationBlock{Path: loc.Path}
		if block.Path == "" {
			block.Path = entities.DefaultPath
		}

		if len(loc.Upstreams) == 1 && unconditional(loc.Upstreams[0].Condition) {
			block.Direct = loc.Upstreams[0].Target
			data.Locations = append(data.Locations, block)
			continue
		}

		dynamic = true
		for ui := len(loc.Upstreams) - 1; ui >= 0; ui-- {
			up := loc.Upstreams[ui]
			b := branch{Target: quote(up.Target), Always: unconditional(up.Condition)}
			if !b.Always {
				if !matchAll(up.Condition.IPCIDR) {
					b.GeoVar = fmt.Sprintf("%s_%d_%d", prefix, li, ui)
					data.Geo = append(data.Geo, geoBlock{Var: b.GeoVar, CIDR: up.Condition.IPCIDR})
				}
				b.Headers = headerChecks(up.Condition.Headers)
			}
			block.Branches = append(block.Branches, b)
		}
		data.Locations = append(data.Locations, block)
	}
	if dynamic {
		data.Resolver = g.resolver
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render rule %s: %w", rule.ID, err)
	}
	return buf.Bytes(), nil
}

// Write renders rule to its file, replacing any previous version.
func (g *Generator) Write(rule *entities.Rule) (string, error) {
	body, err := g.Render(rule)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil { //nolint:gosec
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := g.Path(rule.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil { //nolint:gosec
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck,gosec
		return "", fmt.Errorf("failed to replace config file: %w", err)
	}
	return path, nil
}

// Remove deletes the file of a rule. A missing file is not an error.
func (g *Generator) Remove(ruleID string) error {
	if err := os.Remove(g.Path(ruleID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// checkValues refuses rules whose fields would change the structure of the
// rendered configuration. Quoted values may hold anything but variables.
func checkValues(rule *entities.Rule) error {
	words := []string{rule.ID, rule.ServerName}
	if rule.TLS != nil {
		words = append(words, rule.TLS.CertPath, rule.TLS.KeyPath)
	}
	for _, loc := range rule.Locations {
		if loc.Path != "" {
			words = append(words, loc.Path)
		}
		for _, up := range loc.Upstreams {
			words = append(words, up.Target)
			if !matchAll(up.Condition.IPCIDR) {
				words = append(words, up.Condition.IPCIDR)
			}
			for k, v := range up.Condition.Headers {
				if !headerName(k) {
					return fmt.Errorf("%w: header name %q", errUnsafeValue, k)
				}
				if strings.ContainsRune(v, '$') || hasControl(v) {
					return fmt.Errorf("%w: value of header %s", errUnsafeValue, k)
				}
			}
		}
	}

	for _, w := range words {
		if w == "" || strings.ContainsAny(w, unsafeChars) || hasControl(w) {
			return fmt.Errorf("%w: %q", errUnsafeValue, w)
		}
	}
	return nil
}

func headerName(k string) bool {
	if k == "" {
		return false
	}
	for _, c := range k {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

func hasControl(s string) bool {
	for _, c := range s {
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}

func matchAll(cidr string) bool {
	return cidr == "" || cidr == entities.MatchAllCIDR
}

func unconditional(c entities.Condition) bool {
	return matchAll(c.IPCIDR) && len(c.Headers) == 0
}

func headerChecks(headers map[string]string) []headerCheck {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	checks := make([]headerCheck, 0, len(keys))
	for _, k := range keys {
		checks = append(checks, headerCheck{
			Var:   strings.ToLower(strings.ReplaceAll(k, "-", "_")),
			Value: quote(headers[k]),
		})
	}
	return checks
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
