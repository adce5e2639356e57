package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func at(t time.Time) entities.Expiry {
	return entities.Expiry{At: t, Present: true}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	withMaterial := func(rec entities.Record) entities.Record {
		rec.CertPath = "/certs/a.crt"
		rec.KeyPath = "/certs/a.key"
		return rec
	}

	tests := []struct {
		name string
		rec  entities.Record
		want entities.State
	}{
		{
			name: "no material is issuing regardless of status",
			rec:  entities.Record{Origin: entities.OriginCloud, RawStatus: entities.RawStatusRenewing, Expiry: at(now.Add(-time.Hour))},
			want: entities.StateIssuing,
		},
		{
			name: "renewing beats expiry",
			rec:  withMaterial(entities.Record{RawStatus: entities.RawStatusRenewing, Expiry: at(now.Add(-48 * time.Hour))}),
			want: entities.StateRenewing,
		},
		{
			name: "ten days left",
			rec:  withMaterial(entities.Record{Expiry: at(now.Add(10 * 24 * time.Hour))}),
			want: entities.StateExpiring,
		},
		{
			name: "one hour left rounds up to a day",
			rec:  withMaterial(entities.Record{Expiry: at(now.Add(time.Hour))}),
			want: entities.StateExpiring,
		},
		{
			name: "exactly thirty days",
			rec:  withMaterial(entities.Record{Expiry: at(now.Add(30 * 24 * time.Hour))}),
			want: entities.StateExpiring,
		},
		{
			name: "thirty days and a minute",
			rec:  withMaterial(entities.Record{Expiry: at(now.Add(30*24*time.Hour + time.Minute))}),
			want: entities.StateActive,
		},
		{
			name: "expired an hour ago is zero days",
			rec:  withMaterial(entities.Record{Expiry: at(now.Add(-time.Hour))}),
			want: entities.StateExpiring,
		},
		{
			name: "expired two days ago",
			rec:  withMaterial(entities.Record{RawStatus: "active", Expiry: at(now.Add(-48 * time.Hour))}),
			want: entities.StateExpired,
		},
		{
			name: "pre-2000 expiry falls back to raw status",
			rec:  withMaterial(entities.Record{RawStatus: "expired", Expiry: at(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))}),
			want: entities.StateExpired,
		},
		{
			name: "absent expiry and unknown status",
			rec:  withMaterial(entities.Record{RawStatus: "approved"}),
			want: entities.StateActive,
		},
		{
			name: "absent expiry and no status",
			rec:  withMaterial(entities.Record{}),
			want: entities.StateActive,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Resolve(tt.rec, now))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, DaysUntil(now.Add(time.Second), now))
	require.Equal(t, 0, DaysUntil(now, now))
	require.Equal(t, 0, DaysUntil(now.Add(-23*time.Hour), now))
	require.Equal(t, -1, DaysUntil(now.Add(-25*time.Hour), now))
	require.Equal(t, 31, DaysUntil(now.Add(30*24*time.Hour+time.Nanosecond), now))
}

func TestActions(t *testing.T) {
	t.Parallel()

	states := []entities.State{
		entities.StateIssuing,
		entities.StateActive,
		entities.StateExpiring,
		entities.StateExpired,
		entities.StateRenewing,
	}

	for _, st := range states {
		up := Actions(entities.OriginUpload, st)
		require.Equal(t, entities.Actions{entities.ActionDelete}, up, st)

		cl := Actions(entities.OriginCloud, st)
		require.True(t, cl.Has(entities.ActionDelete), st)
		require.True(t, cl.Has(entities.ActionCheckStatus), st)
		require.False(t, cl.Has(entities.ActionRename), st)
	}

	require.Equal(t, entities.Actions{entities.ActionCheckStatus, entities.ActionDelete},
		Actions(entities.OriginCloud, entities.StateRenewing))
	require.Equal(t, entities.Actions{
		entities.ActionDownload, entities.ActionRenew, entities.ActionCheckStatus, entities.ActionDelete,
	}, Actions(entities.OriginCloud, entities.StateActive))

	require.False(t, Actions(entities.OriginCloud, entities.StateIssuing).Has(entities.ActionDownload))
	require.False(t, Actions(entities.OriginCloud, entities.StateRenewing).Has(entities.ActionRenew))
	require.True(t, Actions(entities.OriginCloud, entities.StateExpired).Has(entities.ActionRenew))
	require.True(t, Actions(entities.OriginCloud, entities.StateActive).Has(entities.ActionDownload))
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	issuing := entities.Record{Origin: entities.OriginCloud}
	require.False(t, Allowed(issuing, now, entities.ActionRenew))
	require.True(t, Allowed(issuing, now, entities.ActionCheckStatus))

	uploaded := entities.Record{Origin: entities.OriginUpload, CertPath: "a", Expiry: at(now.Add(-72 * time.Hour))}
	require.False(t, Allowed(uploaded, now, entities.ActionRenew))
	require.True(t, Allowed(uploaded, now, entities.ActionDelete))

	for _, st := range entities.States {
		require.True(t, AlwaysAllowed(entities.ActionRename), st)
	}
	require.True(t, Allowed(issuing, now, entities.ActionRename))
	require.True(t, Allowed(uploaded, now, entities.ActionRename))
	require.False(t, AlwaysAllowed(entities.ActionDelete))
}
