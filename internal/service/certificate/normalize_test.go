package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	e, err := ParseExpiry("")
	require.NoError(t, err)
	require.False(t, e.Present)

	e, err = ParseExpiry("2025-03-04 05:06:07")
	require.NoError(t, err)
	require.True(t, e.Usable())
	require.Equal(t, time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC), e.At)

	e, err = ParseExpiry("2025-03-04T05:06:07Z")
	require.NoError(t, err)
	require.True(t, e.Usable())

	e, err = ParseExpiry("next tuesday")
	var pe *errs.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "next tuesday", pe.Input)
	require.True(t, e.Present)
	require.False(t, e.Usable())

	e, err = ParseExpiry("0001-01-01")
	require.NoError(t, err)
	require.False(t, e.Usable())
}

func TestFromCertificate(t *testing.T) {
	t.Parallel()

	exp := now.Add(5 * 24 * time.Hour)
	rec := FromCertificate(&entities.Certificate{
		ID:        "c1",
		Name:      "main",
		Domain:    "example.com",
		CertPath:  "/c.crt",
		KeyPath:   "/c.key",
		ExpiresAt: &exp,
	})
	require.Equal(t, entities.OriginUpload, rec.Origin)
	require.Equal(t, entities.StateExpiring, Resolve(rec, now))

	rec = FromCertificate(&entities.Certificate{ID: "c2", Source: entities.OriginCloud, SourceID: "abc"})
	require.Equal(t, "abc", rec.ID)
	require.False(t, rec.Expiry.Present)
	require.Equal(t, entities.StateIssuing, Resolve(rec, now))
}

func TestFromSummary(t *testing.T) {
	t.Parallel()

	s := cloud.Summary{
		CertificateID: "tc-1",
		Domain:        "example.com",
		Alias:         "alias",
		Status:        cloud.StatusApproved,
		EndTime:       "garbage",
	}

	rec := FromSummary(s, nil)
	require.Equal(t, "tc-1", rec.ID)
	require.Equal(t, entities.StateIssuing, Resolve(rec, now))

	rec = FromSummary(s, &entities.Certificate{ID: "c1", Name: "mine", CertPath: "/a", KeyPath: "/b", Status: "renewing"})
	require.Equal(t, "tc-1", rec.ID)
	require.Equal(t, "mine", rec.Name)
	require.Equal(t, entities.StateRenewing, Resolve(rec, now))
}

func TestNewView(t *testing.T) {
	t.Parallel()

	v := NewView(entities.Record{Origin: entities.OriginCloud, CertPath: "/a", Expiry: at(now.Add(-36 * time.Hour))}, now)
	require.Equal(t, entities.StateExpired, v.State)
	require.NotNil(t, v.DaysLeft)
	require.Equal(t, -1, *v.DaysLeft)
	require.True(t, v.Actions.Has(entities.ActionRenew))

	v = NewView(entities.Record{Origin: entities.OriginUpload, CertPath: "/a"}, now)
	require.Nil(t, v.ExpiresAt)
	require.Equal(t, entities.StateActive, v.State)
}
