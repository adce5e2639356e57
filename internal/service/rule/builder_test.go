package rule

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

type lookup map[string]entities.TLSBinding

func (l lookup) LookupMaterial(id string) (entities.TLSBinding, bool) {
	b, ok := l[id]
	return b, ok
}

func simpleForm() Form {
	return Form{
		ServerName: "app.example.com",
		Locations: []LocationForm{{
			Upstreams: []UpstreamForm{{Target: "http://10.0.0.1:8080"}},
		}},
	}
}

func TestListenPorts(t *testing.T) {
	t.Parallel()

	require.Equal(t, []int{80}, ListenPorts(false, false))
	require.Equal(t, []int{80}, ListenPorts(false, true))
	require.Equal(t, []int{80, 443}, ListenPorts(true, true))
	require.Equal(t, []int{443}, ListenPorts(true, false))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	certs := lookup{"c1": {CertPath: "/certs/c1.crt", KeyPath: "/certs/c1.key"}}

	t.Run("defaults are filled", func(t *testing.T) {
		t.Parallel()

		r, err := Build(simpleForm(), nil)
		require.NoError(t, err)

		require.Equal(t, []int{80}, r.ListenPorts)
		require.Nil(t, r.TLS)
		require.Equal(t, "/", r.Locations[0].Path)
		require.Equal(t, entities.MatchAllCIDR, r.Locations[0].Upstreams[0].Condition.IPCIDR)
	})
	t.Run("tls binding is resolved through the lookup", func(t *testing.T) {
		t.Parallel()

		f := simpleForm()
		f.TLS, f.RedirectHTTP, f.CertificateID = true, true, "c1"

		r, err := Build(f, certs)
		require.NoError(t, err)
		require.Equal(t, []int{80, 443}, r.ListenPorts)
		require.Equal(t, &entities.TLSBinding{CertPath: "/certs/c1.crt", KeyPath: "/certs/c1.key"}, r.TLS)

		f.RedirectHTTP = false
		r, err = Build(f, certs)
		require.NoError(t, err)
		require.Equal(t, []int{443}, r.ListenPorts)
	})
	t.Run("single address becomes a host prefix", func(t *testing.T) {
		t.Parallel()

		f := simpleForm()
		f.Locations[0].Upstreams[0].IPCIDR = "192.168.1.10"
		r, err := Build(f, nil)
		require.NoError(t, err)
		require.Equal(t, "192.168.1.10/32", r.Locations[0].Upstreams[0].Condition.IPCIDR)
	})
	t.Run("empty header pairs are ignored", func(t *testing.T) {
		t.Parallel()

		f := simpleForm()
		f.Locations[0].Upstreams[0].Headers = []HeaderPair{{Key: "X-Env", Value: "beta"}, {Key: "", Value: "x"}, {Key: "X-A"}}
		r, err := Build(f, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"X-Env": "beta"}, r.Locations[0].Upstreams[0].Condition.Headers)
	})
}

func TestBuildValidationOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		form func() Form
		kind errs.Kind
	}{
		{
			name: "empty domain wins over everything",
			form: func() Form {
				return Form{ServerName: "  ", Locations: []LocationForm{{Upstreams: []UpstreamForm{{Target: ""}}}}}
			},
			kind: errs.EmptyDomain,
		},
		{
			name: "missing target",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams = append(f.Locations[0].Upstreams, UpstreamForm{Target: " "})
				return f
			},
			kind: errs.MissingTarget,
		},
		{
			name: "no upstreams",
			form: func() Form {
				return Form{ServerName: "a.example.com", Locations: []LocationForm{{Path: "/"}}}
			},
			kind: errs.NoUpstreams,
		},
		{
			name: "no locations at all",
			form: func() Form { return Form{ServerName: "a.example.com"} },
			kind: errs.NoUpstreams,
		},
		{
			name: "one empty location among others",
			form: func() Form {
				f := simpleForm()
				f.Locations = append(f.Locations, LocationForm{Path: "/api"})
				return f
			},
			kind: errs.EmptyLocation,
		},
		{
			name: "duplicate header",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams[0].Headers = []HeaderPair{{Key: "X-Env", Value: "a"}, {Key: "x-env", Value: "b"}}
				f.Locations[0].Upstreams[0].IPCIDR = "not-a-cidr"
				return f
			},
			kind: errs.DuplicateHeader,
		},
		{
			name: "duplicate header wins over an empty location",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams[0].Headers = []HeaderPair{{Key: "X-Env", Value: "a"}, {Key: "x-env", Value: "b"}}
				f.Locations = append(f.Locations, LocationForm{Path: "/api"})
				return f
			},
			kind: errs.DuplicateHeader,
		},
		{
			name: "server name carrying directives",
			form: func() Form {
				f := simpleForm()
				f.ServerName = "a.example.com; location /leak { alias /etc/; }"
				return f
			},
			kind: errs.InvalidInput,
		},
		{
			name: "path opening a block",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Path = "/a {"
				return f
			},
			kind: errs.InvalidInput,
		},
		{
			name: "path without leading slash",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Path = "~regex"
				return f
			},
			kind: errs.InvalidInput,
		},
		{
			name: "header name with a space",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams[0].Headers = []HeaderPair{{Key: "X Env", Value: "a"}}
				return f
			},
			kind: errs.InvalidInput,
		},
		{
			name: "header value with a variable",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams[0].Headers = []HeaderPair{{Key: "X-Env", Value: "$host"}}
				return f
			},
			kind: errs.InvalidInput,
		},
		{
			name: "target ending the directive",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams[0].Target = "http://b:8080; return 200"
				return f
			},
			kind: errs.InvalidInput,
		},
		{
			name: "target without scheme",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams[0].Target = "b:8080"
				return f
			},
			kind: errs.InvalidInput,
		},
		{
			name: "invalid condition",
			form: func() Form {
				f := simpleForm()
				f.Locations[0].Upstreams[0].IPCIDR = "10.0.0.0/33"
				return f
			},
			kind: errs.InvalidCondition,
		},
		{
			name: "tls without certificate",
			form: func() Form {
				f := simpleForm()
				f.TLS = true
				return f
			},
			kind: errs.MissingCertificate,
		},
		{
			name: "tls with a certificate that is gone",
			form: func() Form {
				f := simpleForm()
				f.TLS, f.CertificateID = true, "deleted"
				return f
			},
			kind: errs.UnknownCertificate,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(tc.form(), lookup{})
			require.Error(t, err)
			require.True(t, errs.IsValidation(err, tc.kind), "got %v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() entities.Rule {
		return entities.Rule{
			ServerName:  "a.example.com",
			ListenPorts: []int{80, 443},
			TLS:         &entities.TLSBinding{CertPath: "/c.crt", KeyPath: "/c.key"},
			Locations: []entities.Location{{
				Path:      "/",
				Upstreams: []entities.Upstream{{Target: "http://b:80", Condition: entities.Condition{IPCIDR: entities.MatchAllCIDR}}},
			}},
		}
	}

	r := valid()
	require.NoError(t, Validate(&r))

	r = valid()
	r.ListenPorts = []int{80}
	require.True(t, errs.IsValidation(Validate(&r), errs.InvalidListenPorts))

	r = valid()
	r.TLS = nil
	require.True(t, errs.IsValidation(Validate(&r), errs.InvalidListenPorts))

	r = valid()
	r.TLS.KeyPath = ""
	require.True(t, errs.IsValidation(Validate(&r), errs.MissingCertificate))

	r = valid()
	r.Locations[0].Upstreams[0].Condition.Headers = map[string]string{"X-A": "1", "x-a": "2"}
	require.True(t, errs.IsValidation(Validate(&r), errs.DuplicateHeader))

	r = valid()
	r.ServerName = "a.example.com;"
	require.True(t, errs.IsValidation(Validate(&r), errs.InvalidInput))

	r = valid()
	r.TLS.CertPath = "/c.crt; include /etc/passwd"
	require.True(t, errs.IsValidation(Validate(&r), errs.InvalidInput))

	r = valid()
	r.Locations[0].Upstreams[0].Condition.Headers = map[string]string{"X-A": "a\nb"}
	require.True(t, errs.IsValidation(Validate(&r), errs.InvalidInput))

	r = valid()
	r.Locations[0].Upstreams[0].Condition.Headers = map[string]string{"X-A": `say "hi" \ bye`}
	require.NoError(t, Validate(&r))
}

func TestServerNameSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ok   bool
	}{
		{name: "example.com", ok: true},
		{name: "*.example.com", ok: true},
		{name: "a", ok: true},
		{name: "10.0.0.1", ok: true},
		{name: "xn--d1acufc.xn--p1ai", ok: true},
		{name: "a..com", ok: false},
		{name: "-a.com", ok: false},
		{name: "a.com.", ok: false},
		{name: "*.", ok: false},
		{name: "a.*.com", ok: false},
		{name: "a.com b.com", ok: false},
		{name: "a.com;", ok: false},
		{name: "$host", ok: false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.ok, validServerName(tt.name), tt.name)
	}
}

func TestOrderSurvivesSerialization(t *testing.T) {
	t.Parallel()

	const n, m = 4, 5
	f := Form{ServerName: "order.example.com"}
	for i := 0; i < n; i++ {
		lf := LocationForm{Path: fmt.Sprintf("/l%d", i)}
		for j := 0; j < m; j++ {
			lf.Upstreams = append(lf.Upstreams, UpstreamForm{
				Target: fmt.Sprintf("http://backend-%d-%d:80", i, j),
				IPCIDR: fmt.Sprintf("10.%d.%d.0/24", i, j),
			})
		}
		f.Locations = append(f.Locations, lf)
	}

	r, err := Build(f, nil)
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(r)
		require.NoError(t, err)

		var back entities.Rule
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, r.Locations, back.Locations)
	})
	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		data, err := yaml.Marshal(r)
		require.NoError(t, err)

		var back entities.Rule
		require.NoError(t, yaml.Unmarshal(data, &back))
		require.Equal(t, r.Locations, back.Locations)
	})
}
