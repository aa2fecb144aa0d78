/*
Package replication holds the server's replication-facing state (role,
replication ID/offset, connected-slave fan-out) and its INFO serialization.
This package does not perform the replica handshake, and the server's
connection loop does not either: PSYNC is not handled anywhere, and nothing
in the server calls AddSlave, RemoveSlave or Propagate.
*/
package replication

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

// Role is this server's position in a replication topology.
type Role string

const (
	RoleMaster Role = "master"
	RoleSlave  Role = "slave"
)

// Info tracks the mutable replication/server state that INFO reports.
type Info struct {
	mu sync.Mutex

	role            Role
	replID          string
	replOffset      int64
	connectedSlaves []net.Conn

	startTime time.Time
	port      int

	commandsProcessed int64
	connectionsTotal  int64
}

// NewInfo creates a master-role Info with a freshly generated 40-hex-char
// replication ID (the conventional SHA-1-sized replid; 40 hex chars, not
// the 42 some documentation quotes, matches what a fresh master actually
// emits).
func NewInfo(port int) *Info {
	return &Info{
		role:      RoleMaster,
		replID:    randomHex(40),
		port:      port,
		startTime: time.Now(),
	}
}

func randomHex(n int) string {
	buf := make([]byte, n/2)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// BecomeSlave switches this server's reported role to slave, used when
// --replicaof points it at a primary during startup.
func (i *Info) BecomeSlave() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.role = RoleSlave
}

// AddSlave registers a replica connection for write-command fan-out.
func (i *Info) AddSlave(conn net.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.connectedSlaves = append(i.connectedSlaves, conn)
}

// RemoveSlave drops conn from the fan-out set, e.g. when it disconnects.
func (i *Info) RemoveSlave(conn net.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for idx, c := range i.connectedSlaves {
		if c == conn {
			i.connectedSlaves = append(i.connectedSlaves[:idx], i.connectedSlaves[idx+1:]...)
			return
		}
	}
}

// Propagate forwards raw protocol bytes (an encoded write command) to
// every currently connected slave. Best-effort: a write error on one
// slave's connection does not block delivery to the others.
func (i *Info) Propagate(raw []byte) {
	i.mu.Lock()
	slaves := append([]net.Conn(nil), i.connectedSlaves...)
	i.replOffset += int64(len(raw))
	i.mu.Unlock()

	for _, c := range slaves {
		_, _ = c.Write(raw)
	}
}

// IncrCommandsProcessed bumps the total-commands-processed counter,
// called once per dispatched command.
func (i *Info) IncrCommandsProcessed() {
	i.mu.Lock()
	i.commandsProcessed++
	i.mu.Unlock()
}

// IncrConnectionsTotal bumps the total-connections-received counter,
// called once per accepted connection.
func (i *Info) IncrConnectionsTotal() {
	i.mu.Lock()
	i.connectionsTotal++
	i.mu.Unlock()
}

// FullResyncHeader is the primary's reply to PSYNC ? -1, giving the
// replica the replid and offset it should resume from.
func (i *Info) FullResyncHeader() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return fmt.Sprintf("FULLRESYNC %s %d", i.replID, i.replOffset)
}

// category renders one INFO section as the conventional
// "# Header\r\nkey:value\r\n..." block.
func category(header string, fields [][2]string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(header)
	b.WriteString("\r\n")
	for _, kv := range fields {
		b.WriteString(kv[0])
		b.WriteString(":")
		b.WriteString(kv[1])
		b.WriteString("\r\n")
	}
	return b.String()
}

// Render builds the full INFO reply body across the Replication, Server,
// and Stats sections.
func (i *Info) Render() string {
	i.mu.Lock()
	role := i.role
	replID := i.replID
	offset := i.replOffset
	slaves := len(i.connectedSlaves)
	uptime := int64(time.Since(i.startTime).Seconds())
	port := i.port
	cmds := i.commandsProcessed
	conns := i.connectionsTotal
	i.mu.Unlock()

	replication := category("Replication", [][2]string{
		{"role", string(role)},
		{"connected_slaves", itoa(slaves)},
		{"master_replid", replID},
		{"master_repl_offset", itoa64(offset)},
		{"repl_backlog_active", "0"},
		{"repl_backlog_size", "1048576"},
		{"repl_backlog_histlen", "0"},
	})

	server := category("Server", [][2]string{
		{"tcp_port", itoa(port)},
		{"uptime_in_seconds", itoa64(uptime)},
	})

	stats := category("Stats", [][2]string{
		{"total_connections_received", itoa64(conns)},
		{"total_commands_processed", itoa64(cmds)},
		{"used_memory", itoa64(int64(usedSystemMemory()))},
	})

	return replication + "\r\n" + server + "\r\n" + stats
}

// usedSystemMemory reports total system memory used, in bytes, falling
// back to 0 if the host stats are unavailable (e.g. in a sandboxed CI
// environment without /proc).
func usedSystemMemory() uint64 {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return v.Used
}

func itoa(n int) string { return itoa64(int64(n)) }

func itoa64(n int64) string {
	return fmt.Sprintf("%d", n)
}
