package handlers

import "github.com/arjunverma/kvredis/internal/common"

// cmdInfo returns the full Replication/Server/Stats block wrapped as a
// bulk string, regardless of which section name (if any) was requested:
// this server does not segment INFO output by section.
func cmdInfo(state *AppState, client *common.Client, args []string) common.Value {
	return common.NewBulkValue(state.Repl.Render())
}

// cmdReplconf acknowledges REPLCONF listening-port/capa subcommands sent
// during the replica handshake. PSYNC is not in commandTable and the
// connection loop does not intercept it, so it gets the unknown-command
// error.
func cmdReplconf(state *AppState, client *common.Client, args []string) common.Value {
	return common.NewStringValue("OK")
}
