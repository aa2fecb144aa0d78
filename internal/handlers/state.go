/*
Package handlers is the command dispatcher: it turns one decoded command
array into a typed intent, consults the transaction registry for the
calling client's identity, and routes to the store/replication
packages. AppState is defined here rather than in internal/common because
it aggregates the store, txn and replication engines — putting it in common
would force common to import those packages, and txn already imports common
for its Value type, so common is kept a leaf package instead.
*/
package handlers

import (
	"time"

	"github.com/arjunverma/kvredis/internal/common"
	"github.com/arjunverma/kvredis/internal/replication"
	"github.com/arjunverma/kvredis/internal/store"
	"github.com/arjunverma/kvredis/internal/txn"
)

// blockingForever is substituted for a zero BLPOP/BLOCK timeout: the core
// store engines never see an actually-infinite wait.
const blockingForever = 24 * time.Hour

// AppState is the shared, per-server collection of engines the dispatcher
// routes commands against. One AppState is created at startup and shared
// by every connection goroutine.
type AppState struct {
	KV      *store.KVStore
	Lists   *store.ListStore
	Streams *store.StreamStore
	Txns    *txn.Registry
	Repl    *replication.Info
	Config  *common.Config

	// Done is closed on server shutdown, unblocking any connection parked
	// in BLPOP or blocking XREAD.
	Done chan struct{}
}

// NewAppState wires together fresh engines for a server instance.
func NewAppState(cfg *common.Config, port int) *AppState {
	return &AppState{
		KV:      store.NewKVStore(),
		Lists:   store.NewListStore(),
		Streams: store.NewStreamStore(),
		Txns:    txn.NewRegistry(),
		Repl:    replication.NewInfo(port),
		Config:  cfg,
		Done:    make(chan struct{}),
	}
}
