package formflow

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds the form definitions and their mounted instances.
type Registry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	forms    map[string]*Form
	attempts map[string]*Attempt
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logger,
		forms:    make(map[string]*Form),
		attempts: make(map[string]*Attempt),
	}
}

// Register adds or replaces a form definition.
func (r *Registry) Register(forms ...*Form) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range forms {
		r.forms[f.Name] = f
	}
}

// Form returns the named definition.
func (r *Registry) Form(name string) (*Form, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.forms[name]
	return f, ok
}

// Forms returns all definitions sorted by name.
func (r *Registry) Forms() []*Form {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Form, 0, len(r.forms))
	for _, f := range r.forms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Mount creates a new Idle instance of the named form owned by owner.
func (r *Registry) Mount(formName, owner string) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[formName]
	if !ok {
		return nil, ErrUnknownForm
	}
	a := NewAttempt(uuid.NewString(), owner, f)
	r.attempts[a.ID] = a
	r.logger.Debug("form mounted", "form", formName, "attempt", a.ID)
	return a, nil
}

// Get returns a mounted instance.
func (r *Registry) Get(id string) (*Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// Unmount discards an instance. An in-flight call keeps running but its
// outcome is no longer observable.
func (r *Registry) Unmount(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attempts[id]; !ok {
		return false
	}
	delete(r.attempts, id)
	r.logger.Debug("form unmounted", "attempt", id)
	return true
}

// Len returns the number of mounted instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}

// Sweep discards succeeded instances older than grace and idle or failed
// instances older than ttl. In-flight instances are never swept.
func (r *Registry) Sweep(now time.Time, ttl, grace time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, a := range r.attempts {
		status, since := a.idleSince()
		age := now.Sub(since)
		switch {
		case status == StatusInFlight:
			continue
		case status == StatusSucceeded && age > grace:
		case status != StatusSucceeded && age > ttl:
		default:
			continue
		}
		delete(r.attempts, id)
		removed++
	}
	if removed > 0 {
		r.logger.Info("swept form instances", "removed", removed, "remaining", len(r.attempts))
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, ttl, grace time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			r.Sweep(now, ttl, grace)
		}
	}
}
