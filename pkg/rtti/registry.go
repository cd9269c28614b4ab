package rtti

import "sync"

// registry is the process-wide table of every TypeTraits that has
// described itself, keyed by TypeId. Promotion and common-type search
// walk it to find candidate destination traits (e.g. "every list
// traits whose element type is promotable from mine").
type registry struct {
	mu     sync.RWMutex
	byID   map[TypeId]TypeTraits
	byName map[string]TypeTraits
}

var global = &registry{
	byID:   make(map[TypeId]TypeTraits),
	byName: make(map[string]TypeTraits),
}

// Register installs t in the process-wide registry. Re-registering the
// same TypeId is idempotent (composite traits are frequently
// constructed on demand and register themselves each time); the first
// registration wins.
func Register(t TypeTraits) {
	infos := t.Infos()
	global.mu.Lock()
	defer global.mu.Unlock()
	if _, ok := global.byID[infos.Id]; !ok {
		global.byID[infos.Id] = t
	}
	if _, ok := global.byName[infos.Name]; !ok {
		global.byName[infos.Name] = t
	}
}

// Lookup returns the traits registered under id, if any.
func Lookup(id TypeId) (TypeTraits, bool) {
	global.mu.RLock()
	defer global.mu.RUnlock()
	t, ok := global.byID[id]
	return t, ok
}

// LookupName returns the traits registered under a human-readable
// name, if any.
func LookupName(name string) (TypeTraits, bool) {
	global.mu.RLock()
	defer global.mu.RUnlock()
	t, ok := global.byName[name]
	return t, ok
}

// All returns every currently-registered traits, in no particular
// order.
func All() []TypeTraits {
	global.mu.RLock()
	defer global.mu.RUnlock()
	out := make([]TypeTraits, 0, len(global.byID))
	for _, t := range global.byID {
		out = append(out, t)
	}
	return out
}
