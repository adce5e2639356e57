package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

func TestUpstreamSet(t *testing.T) {
	t.Parallel()

	s := NewUpstreamSet("")
	require.Equal(t, "/", s.Path())
	require.True(t, errs.IsValidation(s.Validate(), errs.NoUpstreams))

	s.Add(entities.Upstream{Target: "http://a"})
	s.Add(entities.Upstream{Target: "http://b", Condition: entities.Condition{IPCIDR: "10.0.0.0/8"}})
	s.Add(entities.Upstream{Target: "http://c"})
	require.NoError(t, s.Validate())
	require.Equal(t, entities.MatchAllCIDR, s.Location().Upstreams[0].Condition.IPCIDR)

	require.Error(t, s.Remove(3))
	require.NoError(t, s.Remove(0))

	loc := s.Location()
	require.Equal(t, []string{"http://b", "http://c"}, []string{loc.Upstreams[0].Target, loc.Upstreams[1].Target})

	u, i, ok := s.Select(entities.RequestContext{SourceIP: "10.9.9.9"})
	require.True(t, ok)
	require.Equal(t, 0, i)
	require.Equal(t, "http://b", u.Target)

	u, i, ok = s.Select(entities.RequestContext{SourceIP: "192.0.2.1"})
	require.True(t, ok)
	require.Equal(t, 1, i)
	require.Equal(t, "http://c", u.Target)

	s.Add(entities.Upstream{})
	require.True(t, errs.IsValidation(s.Validate(), errs.MissingTarget))
}

func TestUpstreamSetCopiesHeaders(t *testing.T) {
	t.Parallel()

	h := map[string]string{"X-A": "1"}
	s := NewUpstreamSet("/", entities.Upstream{Target: "http://a", Condition: entities.Condition{Headers: h}})
	h["X-A"] = "2"

	require.Equal(t, "1", s.Location().Upstreams[0].Condition.Headers["X-A"])
}
