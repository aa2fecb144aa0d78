package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/arjunverma/kvredis/internal/common"
	"github.com/arjunverma/kvredis/internal/store"
)

func cmdXAdd(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) < 4 || len(args)%2 != 0 {
		return arityError("XADD")
	}
	key, idSpec := args[0], args[1]
	fields := args[2:]

	id, err := state.Streams.XAdd(key, idSpec, fields)
	if err != nil {
		return common.NewErrorValue("ERR The ID specified in XADD " + err.Error())
	}
	return common.NewBulkValue(id.String())
}

func cmdXLen(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 1 {
		return arityError("XLEN")
	}
	return common.NewIntegerValue(state.Streams.XLen(args[0]))
}

func cmdXRange(state *AppState, client *common.Client, args []string) common.Value {
	if len(args) != 3 {
		return arityError("XRANGE")
	}
	start, err := store.ParseRangeBound(args[1], true)
	if err != nil {
		return common.NewErrorValue("ERR Invalid stream ID specified as stream command argument")
	}
	end, err := store.ParseRangeBound(args[2], false)
	if err != nil {
		return common.NewErrorValue("ERR Invalid stream ID specified as stream command argument")
	}
	entries := state.Streams.XRange(args[0], start, end)
	return common.NewArrayValue(streamEntriesToValue(entries))
}

func streamEntriesToValue(entries []store.StreamEntry) []common.Value {
	out := make([]common.Value, len(entries))
	for i, e := range entries {
		fields := make([]common.Value, len(e.Fields))
		for j, f := range e.Fields {
			fields[j] = common.NewBulkValue(f)
		}
		out[i] = common.NewArrayValue([]common.Value{
			common.NewBulkValue(e.ID.String()),
			common.NewArrayValue(fields),
		})
	}
	return out
}

// cmdXRead implements XREAD [BLOCK ms] STREAMS key [key ...] id [id ...].
func cmdXRead(state *AppState, client *common.Client, args []string) common.Value {
	blocking, timeout, specs, err := parseXReadArgs(args)
	if err != nil {
		return common.NewErrorValue("ERR " + err.Error())
	}

	if !blocking {
		reads := state.Streams.XRead(specs)
		if len(reads) == 0 {
			return common.NewNullArrayValue()
		}
		return common.NewArrayValue(streamReadsToValue(reads))
	}

	if timeout == 0 {
		timeout = blockingForever
	}
	reads, ok := state.Streams.BlockingXRead(specs, timeout, state.Done)
	if !ok {
		return common.NewNullArrayValue()
	}
	return common.NewArrayValue(streamReadsToValue(reads))
}

func streamReadsToValue(reads []store.StreamRead) []common.Value {
	out := make([]common.Value, len(reads))
	for i, r := range reads {
		out[i] = common.NewArrayValue([]common.Value{
			common.NewBulkValue(r.Key),
			common.NewArrayValue(streamEntriesToValue(r.Entries)),
		})
	}
	return out
}

func parseXReadArgs(args []string) (blocking bool, timeout time.Duration, specs []store.ReadSpec, err error) {
	i := 0
	if i < len(args) && strings.EqualFold(args[i], "BLOCK") {
		if i+1 >= len(args) {
			return false, 0, nil, errArity("XREAD")
		}
		ms, perr := strconv.ParseInt(args[i+1], 10, 64)
		if perr != nil || ms < 0 {
			return false, 0, nil, errArity("XREAD")
		}
		blocking = true
		timeout = time.Duration(ms) * time.Millisecond
		i += 2
	}

	if i >= len(args) || !strings.EqualFold(args[i], "STREAMS") {
		return false, 0, nil, errArity("XREAD")
	}
	i++

	rest := args[i:]
	if len(rest) == 0 || len(rest)%2 != 0 {
		return false, 0, nil, errArity("XREAD")
	}
	n := len(rest) / 2
	keys := rest[:n]
	ids := rest[n:]

	specs = make([]store.ReadSpec, n)
	for j := 0; j < n; j++ {
		if ids[j] == "$" {
			specs[j] = store.ReadSpec{Key: keys[j], FromDollar: true}
			continue
		}
		id, perr := store.ParseID(ids[j])
		if perr != nil {
			return false, 0, nil, perr
		}
		specs[j] = store.ReadSpec{Key: keys[j], From: id}
	}
	return blocking, timeout, specs, nil
}

type arityErr string

func (e arityErr) Error() string {
	return "wrong number of arguments for '" + strings.ToLower(string(e)) + "' command"
}

func errArity(name string) error { return arityErr(name) }
