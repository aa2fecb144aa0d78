package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/arjunverma/kvredis/internal/common"
	"github.com/arjunverma/kvredis/internal/handlers"
	"github.com/arjunverma/kvredis/internal/rdb"
	"github.com/arjunverma/kvredis/internal/store"
)

var logger = common.WithComponent("main")

// Entry point of the kvredis server.
//
// Startup sequence:
//  1. Print server banner
//  2. Read configuration from a Redis-style config file (argv[1], default
//     ./config/redis.conf) plus a data directory (argv[2], default ./data/)
//     that always replaces any "dir" directive from the file
//  3. Build the shared AppState (KV, list, stream, transaction, replication
//     engines)
//  4. Load the RDB snapshot at Config.RDBPath(), if any, seeding the KV
//     store; a missing or malformed snapshot is logged and otherwise ignored
//  5. Apply a "replicaof" config directive by switching the replication
//     role to slave (no handshake with the primary is made; there are no
//     command-line flags beyond the two positional arguments)
//  6. Listen on Config.Port and accept connections until a shutdown signal
func main() {
	fmt.Println(common.ASCII_ART)
	logger.Info(">>>> kvredis Server <<<<")

	configFilePath := "./config/redis.conf"
	dataDirectoryPath := "./data/"

	args := os.Args[1:]
	if len(args) > 0 {
		configFilePath = args[0]
	}
	if len(args) > 1 {
		dataDirectoryPath = args[1]
	}
	if len(args) > 2 {
		logger.Fatal("usage: ./kvredis [config-file] [data-directory]")
	}

	logger.Infof("config file: %s", configFilePath)
	logger.Infof("data directory: %s", dataDirectoryPath)
	conf := common.ReadConf(configFilePath, dataDirectoryPath)

	state := handlers.NewAppState(conf, conf.Port)
	loadSnapshot(state, conf)

	if conf.ReplicaOf != "" {
		logger.Infof("starting as replica of %s", conf.ReplicaOf)
		state.Repl.BecomeSlave()
	}

	addr := fmt.Sprintf(":%d", conf.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatalf("failed to listen on %s: %v", addr, err)
	}
	logger.Infof("listening on %s", addr)
	fmt.Printf("[SERVER] kvredis is up on port %d\n", conf.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	conns := newConnSet()

	go func() {
		<-sigChan
		logger.Warn("signal received, starting graceful shutdown...")
		listener.Close()
		close(state.Done)
		conns.closeAll()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			logger.Warn("listener closed, no longer accepting connections")
			break
		}
		conns.add(conn)
		state.Repl.IncrConnectionsTotal()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conns.remove(conn)
			serveConnection(conn, state)
		}()
	}
	wg.Wait()

	logger.Warn("all connections closed, goodbye")
}

// loadSnapshot reads the configured RDB file, if present, and seeds the KV
// store from it. Any failure — missing file, bad header, unsupported
// encoding — is logged and otherwise non-fatal: the server starts with an
// empty keyspace rather than refusing to start.
func loadSnapshot(state *handlers.AppState, conf *common.Config) {
	path := conf.RDBPath()
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warnf("could not open RDB file %s: %v", path, err)
		}
		return
	}
	defer f.Close()

	file, err := rdb.ParseFile(f)
	if err != nil {
		logger.Warnf("failed to load RDB snapshot %s: %v", path, err)
		return
	}

	var seeds []store.SeedEntry
	for _, db := range file.Databases {
		for _, e := range db.Entries {
			seeds = append(seeds, store.SeedEntry{
				Key:       e.Key,
				Value:     e.Value,
				HasExpiry: e.HasExpiry,
				ExpireAt:  e.ExpireAt,
			})
		}
	}
	state.KV.SeedFromRDB(seeds)
	logger.Infof("loaded %d keys from %s", len(seeds), path)
}

// serveConnection runs the read-decode-dispatch-write loop for one
// connection for its entire lifetime. It owns the connection's growing
// decode buffer: bytes are appended as they arrive and Decode is retried
// until it stops reporting ErrIncomplete.
func serveConnection(conn net.Conn, state *handlers.AppState) {
	remote := conn.RemoteAddr().String()
	logger.Infof("accepted connection from %s", remote)
	defer func() {
		state.Txns.Forget(remote)
		conn.Close()
		logger.Infof("closed connection from %s", remote)
	}()

	client := common.NewClient(conn)

	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		v, consumed, err := common.Decode(buf)
		if err == nil {
			buf = buf[consumed:]
			reply := handlers.Dispatch(state, client, v)
			state.Repl.IncrCommandsProcessed()
			if werr := client.Writer.Write(&reply); werr != nil {
				return
			}
			if werr := client.Writer.Flush(); werr != nil {
				return
			}
			continue
		}
		if !errors.Is(err, common.ErrIncomplete) {
			logger.Warnf("protocol error from %s: %v", remote, err)
			return
		}

		n, rerr := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if rerr != nil {
			if rerr != io.EOF {
				logger.Debugf("read error from %s: %v", remote, rerr)
			}
			return
		}
	}
}

// connSet tracks every live connection so a shutdown signal can force them
// all closed, unblocking any goroutine parked in a blocking read.
type connSet struct {
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func newConnSet() *connSet {
	return &connSet{conns: make(map[net.Conn]struct{})}
}

func (c *connSet) add(conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[conn] = struct{}{}
}

func (c *connSet) remove(conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, conn)
}

func (c *connSet) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for conn := range c.conns {
		conn.Close()
	}
}
