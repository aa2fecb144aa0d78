package handlers

import (
	"strconv"
	"time"

	"github.com/arjunverma/kvredis/internal/common"
)

func cmdRPush(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) < 2 {
		return arityError("RPUSH")
	}
	key := args[0]
	var n int64
	for _, v := range args[1:] {
		n = state.Lists.RPush(key, v)
	}
	return common.NewIntegerValue(n)
}

func cmdLPush(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) < 2 {
		return arityError("LPUSH")
	}
	key := args[0]
	var n int64
	for _, v := range args[1:] {
		n = state.Lists.LPush(key, v)
	}
	return common.NewIntegerValue(n)
}

func cmdLLen(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("LLEN")
	}
	return common.NewIntegerValue(state.Lists.LLen(args[0]))
}

func cmdLRange(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 3 {
		return arityError("LRANGE")
	}
	start, err1 := strconv.ParseInt(args[1], 10, 64)
	stop, err2 := strconv.ParseInt(args[2], 10, 64)
	if err1 != nil || err2 != nil {
		return common.NewErrorValue("ERR value is not an integer or out of range")
	}
	vals := state.Lists.LRange(args[0], start, stop)
	out := make([]common.Value, len(vals))
	for i, v := range vals {
		out[i] = common.NewBulkValue(v)
	}
	return common.NewArrayValue(out)
}

func cmdLIndex(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 2 {
		return arityError("LINDEX")
	}
	idx, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return common.NewErrorValue("ERR value is not an integer or out of range")
	}
	v, ok := state.Lists.LIndex(args[0], idx)
	if !ok {
		return common.NewNullBulkValue()
	}
	return common.NewBulkValue(v)
}

// cmdLPop implements LPOP key [count]. With no count, a single popped
// element unwraps to a scalar bulk reply (or null bulk if absent); with an
// explicit count, the reply is always an array (or null array if absent).
func cmdLPop(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) < 1 || len(args) > 2 {
		return arityError("LPOP")
	}
	key := args[0]
	if len(args) == 1 {
		vals, ok := state.Lists.LPop(key, 1)
		if !ok {
			return common.NewNullBulkValue()
		}
		return common.NewBulkValue(vals[0])
	}

	count, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || count < 0 {
		return common.NewErrorValue("ERR value is not an integer or out of range")
	}
	vals, ok := state.Lists.LPop(key, count)
	if !ok {
		return common.NewNullArrayValue()
	}
	out := make([]common.Value, len(vals))
	for i, v := range vals {
		out[i] = common.NewBulkValue(v)
	}
	return common.NewArrayValue(out)
}

// cmdBLPop implements BLPOP key timeout, where timeout is seconds
// (fractional allowed); a zero timeout is translated to blockingForever
// before the store ever sees it, so the core never waits "forever".
func cmdBLPop(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 2 {
		return arityError("BLPOP")
	}
	key := args[0]
	secs, err := strconv.ParseFloat(args[1], 64)
	if err != nil || secs < 0 {
		return common.NewErrorValue("ERR timeout is not a float or negative")
	}

	timeout := time.Duration(secs * float64(time.Second))
	if timeout == 0 {
		timeout = blockingForever
	}

	value, ok := state.Lists.BLPop(key, timeout, state.Done)
	if !ok {
		return common.NewNullArrayValue()
	}
	return common.NewArrayValue([]common.Value{
		common.NewBulkValue(key),
		common.NewBulkValue(value),
	})
}
