/*
Package txn is the per-client transaction registry: MULTI/EXEC/DISCARD
state keyed by client identity (the remote socket address string), kept
independent of connection or handler lifetime so it can be addressed
strictly by that identity.
*/
package txn

import (
	"errors"
	"sync"

	"github.com/arjunverma/kvredis/internal/common"
)

var (
	ErrNested         = errors.New("MULTI cannot be nested")
	ErrExecNoMulti  = errors.New("EXEC without MULTI")
	ErrDiscardNoMulti = errors.New("DISCARD without MULTI")
)

// state holds one client's transaction: nil queue means "not in a
// transaction", a non-nil (possibly empty) queue means commands are being
// collected.
type state struct {
	queue []common.Value
}

// Registry is the process-wide, address-keyed transaction table.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*state
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*state)}
}

// Start begins a transaction for addr. Returns ErrNested if addr already
// has an open transaction.
func (r *Registry) Start(addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.clients[addr]
	if !ok {
		st = &state{}
		r.clients[addr] = st
	}
	if st.queue != nil {
		return ErrNested
	}
	st.queue = make([]common.Value, 0)
	return nil
}

// InTransaction reports whether addr currently has an open transaction.
func (r *Registry) InTransaction(addr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.clients[addr]
	return ok && st.queue != nil
}

// Queue appends cmd to addr's open transaction. Returns ErrExecNoMulti if
// addr has no open transaction — the registry's own queuing decision, not
// an error path any caller should normally hit since InTransaction is the
// gate used before calling Queue.
func (r *Registry) Queue(addr string, cmd common.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.clients[addr]
	if !ok || st.queue == nil {
		return ErrExecNoMulti
	}
	st.queue = append(st.queue, cmd)
	return nil
}

// Discard closes addr's open transaction without executing it. Returns
// ErrDiscardNoMulti if there was none open.
func (r *Registry) Discard(addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.clients[addr]
	if !ok || st.queue == nil {
		return ErrDiscardNoMulti
	}
	st.queue = nil
	return nil
}

// Exec takes and clears addr's queued commands. ok is false if addr had no
// open transaction; the caller is responsible for turning that into an
// ErrExecNoMulti reply.
func (r *Registry) Exec(addr string) (cmds []common.Value, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, exists := r.clients[addr]
	if !exists || st.queue == nil {
		return nil, false
	}
	cmds = st.queue
	st.queue = nil
	return cmds, true
}

// Forget drops any transaction state held for addr, called when a
// connection closes so the registry does not grow unbounded over the
// server's lifetime.
func (r *Registry) Forget(addr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, addr)
}
