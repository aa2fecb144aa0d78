package handlers

import (
	"strings"

	"github.com/arjunverma/kvredis/internal/common"
)

func cmdMulti(state *AppState, addr string) common.Value {
	if err := state.Txns.Start(addr); err != nil {
		return common.NewErrorValue("ERR " + err.Error())
	}
	return common.NewStringValue("OK")
}

func cmdDiscard(state *AppState, addr string) common.Value {
	if err := state.Txns.Discard(addr); err != nil {
		return common.NewErrorValue("ERR " + err.Error())
	}
	return common.NewStringValue("OK")
}

// cmdExec takes the client's queued commands and runs them back-to-back
// against the stores, collating their replies into one array reply. The
// registry never executes commands itself; this is the only place queued
// frames are replayed.
func cmdExec(state *AppState, client *common.Client) common.Value {
	addr := client.Addr()
	cmds, ok := state.Txns.Exec(addr)
	if !ok {
		return common.NewErrorValue("ERR EXEC without MULTI")
	}

	replies := make([]common.Value, len(cmds))
	for i, cmd := range cmds {
		name := strings.ToUpper(cmd.Arr[0].Blk)
		args := cmd.Strings()[1:]
		replies[i] = execute(state, client, name, args)
	}
	return common.NewArrayValue(replies)
}
