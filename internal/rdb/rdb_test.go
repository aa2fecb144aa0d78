package rdb

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildMinimalFile assembles a byte-for-byte RDB snapshot with one database
// containing a plain string key and an expiring string key, used to drive
// the parser end to end without needing an on-disk fixture.
func buildMinimalFile() []byte {
	var buf bytes.Buffer
	buf.WriteString("REDIS0011")

	buf.WriteByte(0xFA)
	writeString(&buf, "redis-ver")
	writeString(&buf, "7.0.0")

	buf.WriteByte(0xFE)
	buf.WriteByte(0x00) // db index 0, 6-bit length

	buf.WriteByte(0xFB)
	buf.WriteByte(0x02) // hash size 2
	buf.WriteByte(0x01) // expire hash size 1

	// plain key
	buf.WriteByte(0x00) // value type: string
	writeString(&buf, "greeting")
	writeString(&buf, "hello")

	// expiring key (milliseconds form)
	buf.WriteByte(0xFC)
	var msBuf [8]byte
	binary.LittleEndian.PutUint64(msBuf[:], 1893456000000) // far future
	buf.Write(msBuf[:])
	buf.WriteByte(0x00)
	writeString(&buf, "session")
	writeString(&buf, "token123")

	buf.WriteByte(0xFF)
	buf.Write(make([]byte, 8)) // unvalidated checksum

	return buf.Bytes()
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte(byte(len(s))) // 6-bit length encoding, values used here are all < 64
	buf.WriteString(s)
}

func TestParseMinimalFile(t *testing.T) {
	require := require.New(t)

	file, err := ParseFile(bytes.NewReader(buildMinimalFile()))
	require.NoError(err)
	require.Equal("0011", file.Version)
	require.Equal("7.0.0", file.Metadata["redis-ver"])
	require.Len(file.Databases, 1)

	db := file.Databases[0]
	require.Equal(uint64(0), db.Index)
	require.Len(db.Entries, 2)

	require.Equal("greeting", db.Entries[0].Key)
	require.Equal("hello", db.Entries[0].Value)
	require.False(db.Entries[0].HasExpiry)

	require.Equal("session", db.Entries[1].Key)
	require.Equal("token123", db.Entries[1].Value)
	require.True(db.Entries[1].HasExpiry)
}

func TestParseRejectsBadHeader(t *testing.T) {
	require := require.New(t)
	_, err := ParseFile(bytes.NewReader([]byte("NOTREDIS01")))
	require.ErrorIs(err, ErrInvalidHeader)
}

func TestParseRejectsLZFString(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	buf.WriteString("REDIS0011")
	buf.WriteByte(0xFE)
	buf.WriteByte(0x00)
	buf.WriteByte(0x00) // entry type: string
	writeString(&buf, "k")
	buf.WriteByte(0xC3) // LZF-compressed length prefix on the value

	_, err := ParseFile(&buf)
	require.ErrorIs(err, ErrLZFUnsupported)
}
