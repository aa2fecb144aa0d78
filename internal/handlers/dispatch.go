package handlers

import (
	"strings"

	"github.com/arjunverma/kvredis/internal/common"
)

// commandFunc executes one already-parsed command (name already uppercased,
// args already extracted) against state on behalf of client.
type commandFunc func(state *AppState, client *common.Client, args []string) common.Value

// commandTable is the full set of commands the dispatcher recognizes,
// excluding MULTI/EXEC/DISCARD, which are special-cased ahead of the
// transaction gate in Dispatch.
var commandTable = map[string]commandFunc{
	"PING":     cmdPing,
	"ECHO":     cmdEcho,
	"SET":      cmdSet,
	"GET":      cmdGet,
	"DEL":      cmdDel,
	"EXISTS":   cmdExists,
	"TTL":      cmdTTL,
	"PERSIST":  cmdPersist,
	"INCR":     cmdIncr,
	"KEYS":     cmdKeys,
	"TYPE":     cmdType,
	"RPUSH":    cmdRPush,
	"LPUSH":    cmdLPush,
	"LLEN":     cmdLLen,
	"LRANGE":   cmdLRange,
	"LINDEX":   cmdLIndex,
	"LPOP":     cmdLPop,
	"BLPOP":    cmdBLPop,
	"XADD":     cmdXAdd,
	"XLEN":     cmdXLen,
	"XRANGE":   cmdXRange,
	"XREAD":    cmdXRead,
	"CONFIG":   cmdConfig,
	"COMMAND":  cmdCommand,
	"INFO":     cmdInfo,
	"REPLCONF": cmdReplconf,
}

// CommandNames lists every command name the COMMAND handler reports: the
// keys of commandTable, in Go's unspecified map iteration order, followed by
// the three transaction control commands dispatch handles separately.
func CommandNames() []string {
	names := make([]string, 0, len(commandTable)+3)
	for name := range commandTable {
		names = append(names, name)
	}
	return append(names, "MULTI", "EXEC", "DISCARD")
}

// Dispatch is the entry point for one decoded command frame. It enforces
// the transaction gate (MULTI/EXEC/DISCARD bypass it; anything else is
// queued instead of executed while a transaction is open for this client)
// before handing off to execute.
func Dispatch(state *AppState, client *common.Client, v common.Value) common.Value {
	if !v.IsBulkStringArray() || len(v.Arr) == 0 {
		return common.NewErrorValue("ERR invalid command format")
	}

	name := strings.ToUpper(v.Arr[0].Blk)
	args := v.Strings()[1:]
	addr := client.Addr()

	switch name {
	case "MULTI":
		return cmdMulti(state, addr)
	case "EXEC":
		return cmdExec(state, client)
	case "DISCARD":
		return cmdDiscard(state, addr)
	}

	if state.Txns.InTransaction(addr) {
		if err := state.Txns.Queue(addr, v); err != nil {
			return common.NewErrorValue("ERR " + err.Error())
		}
		return common.NewStringValue("QUEUED")
	}

	return execute(state, client, name, args)
}

// execute routes an already-transaction-gated command straight to its
// handler, used both by Dispatch and by EXEC replaying a queued command.
func execute(state *AppState, client *common.Client, name string, args []string) common.Value {
	fn, ok := commandTable[name]
	if !ok {
		return common.NewErrorValue("ERR unknown command '" + name + "'")
	}
	return fn(state, client, args)
}

func arityError(name string) common.Value {
	return common.NewErrorValue("ERR wrong number of arguments for '" + strings.ToLower(name) + "' command")
}
