package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

func TestRuleColumns(t *testing.T) {
	t.Parallel()

	in := entities.Rule{
		ID:          "r1",
		ServerName:  "example.com",
		ListenPorts: []int{80, 443},
		TLS:         &entities.TLSBinding{CertPath: "/c.crt", KeyPath: "/c.key"},
		Locations: []entities.Location{
			{Path: "/api", Upstreams: []entities.Upstream{
				{Target: "http://b", Condition: entities.Condition{IPCIDR: "10.0.0.0/8", Headers: map[string]string{"X-Env": "beta"}}},
				{Target: "http://a", Condition: entities.Condition{IPCIDR: entities.MatchAllCIDR}},
			}},
		},
	}

	cols, err := EncodeRule(&in)
	require.NoError(t, err)
	require.Equal(t, "/c.crt", cols.CertPath)

	out := entities.Rule{ID: in.ID, ServerName: in.ServerName}
	require.NoError(t, cols.Decode(&out))
	require.Equal(t, in, out)

	plain := entities.Rule{ID: "r2", ListenPorts: []int{80}}
	cols, err = EncodeRule(&plain)
	require.NoError(t, err)

	var back entities.Rule
	require.NoError(t, cols.Decode(&back))
	require.Nil(t, back.TLS)

	require.Error(t, RuleColumns{Locations: []byte("{")}.Decode(&back))
}
