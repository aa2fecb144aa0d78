package handlers

import (
	"strconv"
	"strings"

	"github.com/arjunverma/kvredis/internal/common"
	"github.com/arjunverma/kvredis/internal/store"
)

func cmdSet(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) < 2 {
		return arityError("SET")
	}
	key, value := args[0], args[1]

	if len(args) == 2 {
		state.KV.Set(key, value, false, store.ExpiryNone, 0)
		return common.NewStringValue("OK")
	}
	if len(args) != 4 {
		return arityError("SET")
	}
	mode := store.ParseExpiryToken(args[2])
	n, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return common.NewErrorValue("ERR value is not an integer or out of range")
	}
	state.KV.Set(key, value, true, mode, n)
	return common.NewStringValue("OK")
}

func cmdGet(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("GET")
	}
	v, ok := state.KV.Get(args[0])
	if !ok {
		return common.NewNullBulkValue()
	}
	return common.NewBulkValue(v)
}

func cmdDel(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) == 0 {
		return arityError("DEL")
	}
	var n int64
	for _, k := range args {
		if state.KV.Del(k) {
			n++
		}
	}
	return common.NewIntegerValue(n)
}

func cmdExists(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) == 0 {
		return arityError("EXISTS")
	}
	var n int64
	for _, k := range args {
		if _, ok := state.KV.Get(k); ok {
			n++
		}
	}
	return common.NewIntegerValue(n)
}

func cmdTTL(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("TTL")
	}
	return common.NewIntegerValue(state.KV.TTL(args[0]))
}

func cmdPersist(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("PERSIST")
	}
	if state.KV.Persist(args[0]) {
		return common.NewIntegerValue(1)
	}
	return common.NewIntegerValue(0)
}

func cmdIncr(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("INCR")
	}
	n, err := state.KV.Incr(args[0])
	if err != nil {
		return common.NewErrorValue("ERR " + err.Error())
	}
	return common.NewIntegerValue(n)
}

func cmdKeys(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("KEYS")
	}
	keys := state.KV.Keys(args[0])
	out := make([]common.Value, len(keys))
	for i, k := range keys {
		out[i] = common.NewBulkValue(k)
	}
	return common.NewArrayValue(out)
}

// cmdType reports "string" or "stream" based on KV and Stream containment,
// "none" otherwise.
func cmdType(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("TYPE")
	}
	key := args[0]
	if state.KV.Contains(key) {
		return common.NewStringValue("string")
	}
	if state.Streams.XLen(key) > 0 {
		return common.NewStringValue("stream")
	}
	return common.NewStringValue("none")
}

// cmdConfig implements CONFIG GET dir|dbfilename, the only subcommand and
// keys this server recognizes. Any other key yields a null array.
func cmdConfig(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 2 || strings.ToUpper(args[0]) != "GET" {
		return common.NewNullArrayValue()
	}
	switch args[1] {
	case "dir":
		return common.NewArrayValue([]common.Value{
			common.NewBulkValue("dir"),
			common.NewBulkValue(state.Config.Dir),
		})
	case "dbfilename":
		return common.NewArrayValue([]common.Value{
			common.NewBulkValue("dbfilename"),
			common.NewBulkValue(state.Config.Dbfilename),
		})
	default:
		return common.NewNullArrayValue()
	}
}
