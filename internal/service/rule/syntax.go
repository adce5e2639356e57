package rule

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

// Rule fields end up as bare words or quoted strings in the proxy
// configuration. None of them may carry a character that ends a directive,
// opens a block or starts a variable.
const unsafeChars = " \t;{}\"'\\$#`"

var (
	hostLabel  = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)
	headerName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)
)

func checkSyntax(r *entities.Rule) error {
	if !validServerName(r.ServerName) {
		return errs.Validation(errs.InvalidInput, "server_name", "not a host name: "+r.ServerName)
	}

	for li, loc := range r.Locations {
		if !validPath(loc.Path) {
			return errs.Validation(errs.InvalidInput, fmt.Sprintf("locations[%d].path", li), "invalid path: "+loc.Path)
		}
		for ui, u := range loc.Upstreams {
			if !validTarget(u.Target) {
				return errs.Validation(errs.InvalidInput, upstreamField(li, ui, "target"), "invalid target: "+u.Target)
			}
			if err := checkHeaderSyntax(li, ui, u.Condition.Headers); err != nil {
				return err
			}
		}
	}

	if r.TLS != nil {
		if r.TLS.CertPath != "" && !bare(r.TLS.CertPath) {
			return errs.Validation(errs.InvalidInput, "tls.cert_path", "invalid path: "+r.TLS.CertPath)
		}
		if r.TLS.KeyPath != "" && !bare(r.TLS.KeyPath) {
			return errs.Validation(errs.InvalidInput, "tls.key_path", "invalid path: "+r.TLS.KeyPath)
		}
	}
	return nil
}

func checkHeaderSyntax(li, ui int, headers map[string]string) error {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !headerName.MatchString(k) {
			return errs.Validation(errs.InvalidInput, upstreamField(li, ui, "headers"), "invalid header name: "+k)
		}
		if !literal(headers[k]) {
			return errs.Validation(errs.InvalidInput, upstreamField(li, ui, "headers"), "invalid value of header "+k)
		}
	}
	return nil
}

// validServerName accepts a host name, optionally with a leading "*." label.
func validServerName(name string) bool {
	name = strings.TrimPrefix(name, "*.")
	if name == "" || len(name) > 253 {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if !hostLabel.MatchString(label) {
			return false
		}
	}
	return true
}

func validPath(p string) bool {
	return strings.HasPrefix(p, "/") && bare(p)
}

func validTarget(target string) bool {
	if !bare(target) {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// bare reports whether s can be written unquoted.
func bare(s string) bool {
	return s != "" && !strings.ContainsAny(s, unsafeChars) && !hasControl(s)
}

// literal reports whether s can be written as a quoted string that nginx
// does not interpolate.
func literal(s string) bool {
	return !strings.ContainsRune(s, '$') && !hasControl(s)
}

func hasControl(s string) bool {
	for _, c := range s {
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}
