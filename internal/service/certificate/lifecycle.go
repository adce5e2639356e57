package certificate

import (
	"math"
	"time"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

// ExpiringWindowDays is the number of days before expiry a certificate is
// reported as expiring.
const ExpiringWindowDays = 30

const day = 24 * time.Hour

// Resolve derives the lifecycle state of a record. The first matching rule
// wins: missing material, an in-progress renewal, a usable expiry, the raw
// status reported by the origin and finally active.
func Resolve(rec entities.Record, now time.Time) entities.State {
	if !rec.HasMaterial() {
		return entities.StateIssuing
	}
	if rec.RawStatus == entities.RawStatusRenewing {
		return entities.StateRenewing
	}
	if rec.Expiry.Usable() {
		days := DaysUntil(rec.Expiry.At, now)
		switch {
		case days < 0:
			return entities.StateExpired
		case days <= ExpiringWindowDays:
			return entities.StateExpiring
		default:
			return entities.StateActive
		}
	}
	if st, ok := entities.ParseState(rec.RawStatus); ok {
		return st
	}
	return entities.StateActive
}

// DaysUntil returns the whole days remaining until at, rounded up. A
// certificate expiring in one hour has one day left; one that expired an
// hour ago has zero.
func DaysUntil(at, now time.Time) int {
	return int(math.Ceil(float64(at.Sub(now)) / float64(day)))
}

// Actions returns the lifecycle actions allowed for a certificate of the
// given origin in the given state. Rename is not a lifecycle action, see
// AlwaysAllowed.
func Actions(origin entities.Origin, state entities.State) entities.Actions {
	if origin != entities.OriginCloud {
		return entities.Actions{entities.ActionDelete}
	}

	switch state {
	case entities.StateIssuing, entities.StateRenewing:
		return entities.Actions{entities.ActionCheckStatus, entities.ActionDelete}
	default:
		return entities.Actions{
			entities.ActionDownload,
			entities.ActionRenew,
			entities.ActionCheckStatus,
			entities.ActionDelete,
		}
	}
}

// AlwaysAllowed reports whether action is independent of the lifecycle
// state. Renaming only touches the display name.
func AlwaysAllowed(action entities.Action) bool {
	return action == entities.ActionRename
}

// Allowed reports whether action may be performed on rec at now.
func Allowed(rec entities.Record, now time.Time, action entities.Action) bool {
	return AlwaysAllowed(action) || Actions(rec.Origin, Resolve(rec, now)).Has(action)
}
