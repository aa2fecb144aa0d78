package handlers

import "github.com/arjunverma/kvredis/internal/common"

func cmdPing(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) > 0 {
		return common.NewBulkValue(args[0])
	}
	return common.NewStringValue("PONG")
}

func cmdEcho(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("ECHO")
	}
	return common.NewBulkValue(args[0])
}

func cmdCommand(state *AppState, client *common.Client, args []string) common.Value {
	names := CommandNames()
	out := make([]common.Value, len(names))
	for i, n := range names {
		out[i] = common.NewBulkValue(n)
	}
	return common.NewArrayValue(out)
}
