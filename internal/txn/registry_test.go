package txn

import (
	"testing"

	"github.com/arjunverma/kvredis/internal/common"
	"github.com/stretchr/testify/require"
)

func TestMultiQueueExec(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()
	addr := "127.0.0.1:1"

	require.False(r.InTransaction(addr))
	require.NoError(r.Start(addr))
	require.True(r.InTransaction(addr))

	cmd := common.NewArrayValue([]common.Value{common.NewBulkValue("SET"), common.NewBulkValue("k"), common.NewBulkValue("v")})
	require.NoError(r.Queue(addr, cmd))

	cmds, ok := r.Exec(addr)
	require.True(ok)
	require.Len(cmds, 1)
	require.False(r.InTransaction(addr), "Exec clears the open transaction")
}

func TestMultiCannotNest(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()
	addr := "127.0.0.1:2"

	require.NoError(r.Start(addr))
	err := r.Start(addr)
	require.ErrorIs(err, ErrNested)
}

func TestExecWithoutMulti(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()
	_, ok := r.Exec("127.0.0.1:3")
	require.False(ok)
}

func TestDiscardWithoutMulti(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()
	err := r.Discard("127.0.0.1:4")
	require.ErrorIs(err, ErrDiscardNoMulti)
}

func TestDiscardDropsQueuedCommands(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()
	addr := "127.0.0.1:5"

	require.NoError(r.Start(addr))
	require.NoError(r.Queue(addr, common.NewArrayValue([]common.Value{common.NewBulkValue("PING")})))
	require.NoError(r.Discard(addr))
	require.False(r.InTransaction(addr))

	_, ok := r.Exec(addr)
	require.False(ok, "discarded transaction leaves nothing to exec")
}

func TestForgetClearsState(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()
	addr := "127.0.0.1:6"

	require.NoError(r.Start(addr))
	r.Forget(addr)
	require.False(r.InTransaction(addr))
}

func TestQueueWithoutMultiErrors(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()
	err := r.Queue("127.0.0.1:7", common.NewArrayValue(nil))
	require.ErrorIs(err, ErrExecNoMulti)
}
