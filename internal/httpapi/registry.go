package httpapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spigell/talentscout/internal/dialogue"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

const defaultIdleTimeout = 30 * time.Minute

type entry struct {
	ctrl         *dialogue.Controller
	lastActivity time.Time
}

// Registry keeps the live interviews in memory and drops idle ones.
type Registry struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	idleTimeout time.Duration
	now         func() time.Time
}

func NewRegistry(idleTimeout time.Duration) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	return &Registry{
		entries:     make(map[string]*entry),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

func (r *Registry) Add(ctrl *dialogue.Controller) string {
	id := ctrl.ID()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry{ctrl: ctrl, lastActivity: r.now()}
	return id
}

// Get returns the controller for id and marks it as active.
func (r *Registry) Get(id string) (*dialogue.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastActivity = r.now()
	return e.ctrl, nil
}

// Restart begins a new interview on the controller stored under oldID and
// stores it under the new session id. Both happen under the registry lock so
// a concurrent restart of oldID finds nothing.
func (r *Registry) Restart(oldID string) (*dialogue.Controller, dialogue.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[oldID]
	if !ok {
		return nil, dialogue.Reply{}, ErrSessionNotFound
	}

	reply := e.ctrl.Restart()
	delete(r.entries, oldID)
	e.lastActivity = r.now()
	r.entries[e.ctrl.ID()] = e
	return e.ctrl, reply, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// StartJanitor evicts idle sessions every interval until ctx is done.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.expireIdle()
			}
		}
	}()
}

func (r *Registry) expireIdle() int {
	now := r.now()
	var expired []*dialogue.Controller

	r.mu.Lock()
	for id, e := range r.entries {
		if now.Sub(e.lastActivity) < r.idleTimeout {
			continue
		}
		expired = append(expired, e.ctrl)
		delete(r.entries, id)
	}
	r.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	return len(expired)
}

// Close drops every session.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.ctrl.Close()
	}
}
