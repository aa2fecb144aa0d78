package common

import (
	"bufio"
	"net"
)

// Client represents one connected client session. A Client is created when
// a connection is accepted and lives for the connection's lifetime.
//
// Transaction state (MULTI/EXEC/DISCARD queuing) is intentionally not held
// here: it lives in the txn registry, keyed by the client's remote address,
// so it can be addressed independently of this struct's lifetime and so
// internal/common has no dependency on internal/txn.
//
// Thread safety: a Client is driven by a single goroutine (one per
// connection); no internal synchronization is needed.
type Client struct {
	Conn   net.Conn
	Reader *bufio.Reader
	Writer *Writer

	DatabaseID int
}

// NewClient creates a Client wrapping conn, with buffered read/write sides
// ready for RESP traffic.
func NewClient(conn net.Conn) *Client {
	return &Client{
		Conn:   conn,
		Reader: bufio.NewReaderSize(conn, 64*1024),
		Writer: NewWriter(conn),
	}
}

// Addr returns the opaque identity used to key per-client registries (the
// transaction registry, in particular): the remote socket address string.
func (c *Client) Addr() string {
	return c.Conn.RemoteAddr().String()
}
