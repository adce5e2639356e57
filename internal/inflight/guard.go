// Package inflight serializes mutations per resource.
//
// At most one mutation runs for a resource id at a time. A concurrent call
// for the same resource, action and payload joins the running call and
// receives its result; any other call fails with errs.ErrBusy.
package inflight

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

type entry struct {
	action  string
	payload string
	n       int
}

// Guard tracks running mutations. The zero value is not usable, use New.
type Guard struct {
	group singleflight.Group

	mu   sync.Mutex
	busy map[string]*entry
}

// New returns an empty Guard.
func New() *Guard {
	return &Guard{busy: make(map[string]*entry)}
}

// Busy returns the action running for resource, if any.
func (g *Guard) Busy(resource string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.busy[resource]
	if !ok {
		return "", false
	}
	return e.action, true
}

func (g *Guard) enter(resource, action, payload string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.busy[resource]
	if ok && (e.action != action || e.payload != payload) {
		return fmt.Errorf("%s %s: %w (running: %s)", action, resource, errs.ErrBusy, e.action)
	}
	if !ok {
		e = &entry{action: action, payload: payload}
		g.busy[resource] = e
	}
	e.n++
	return nil
}

func (g *Guard) leave(resource string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.busy[resource]; ok {
		e.n--
		if e.n <= 0 {
			delete(g.busy, resource)
		}
	}
}

// Digest returns a stable key for a mutation payload. Values that encode
// to the same JSON share a digest.
func Digest(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Do runs fn as the mutation action of resource carrying payload. Only a
// call with the same action and payload joins a running one; shared reports
// whether the result came from a call another caller started.
func Do[T any](g *Guard, resource, action, payload string, fn func() (T, error)) (result T, shared bool, err error) {
	if err := g.enter(resource, action, payload); err != nil {
		var zero T
		return zero, false, err
	}
	defer g.leave(resource)

	v, err, shared := g.group.Do(resource+"\x00"+action+"\x00"+payload, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, shared, err
	}
	return v.(T), shared, nil
}
