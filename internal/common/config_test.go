package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadConfMissingFileUsesDefaults(t *testing.T) {
	require := require.New(t)
	conf := ReadConf(filepath.Join(t.TempDir(), "does-not-exist.conf"), "")
	require.Equal(6379, conf.Port)
	require.Equal("dump.rdb", conf.Dbfilename)
}

func TestReadConfParsesDirectives(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	confPath := filepath.Join(dir, "redis.conf")
	body := "port 7000\ndbfilename snap.rdb\nsave 60 100\nreplicaof 127.0.0.1 6380\n# a comment\n\n"
	require.NoError(os.WriteFile(confPath, []byte(body), 0644))

	conf := ReadConf(confPath, "")
	require.Equal(7000, conf.Port)
	require.Equal("snap.rdb", conf.Dbfilename)
	require.Equal([]RDBSnapshot{{Secs: 60, KeysChanged: 100}}, conf.Save)
	require.Equal("127.0.0.1 6380", conf.ReplicaOf)
}

func TestReadConfDataDirOverridesFileDir(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	confPath := filepath.Join(dir, "redis.conf")
	require.NoError(os.WriteFile(confPath, []byte("dir /from/file\n"), 0644))

	override := filepath.Join(dir, "override")
	conf := ReadConf(confPath, override)
	abs, err := filepath.Abs(override)
	require.NoError(err)
	require.Equal(abs, conf.Dir)

	info, err := os.Stat(conf.Dir)
	require.NoError(err)
	require.True(info.IsDir())
}

func TestRDBPathJoinsDirAndFilename(t *testing.T) {
	require := require.New(t)
	conf := NewConfig()
	conf.Dir = "/var/lib/kvredis"
	conf.Dbfilename = "dump.rdb"
	require.Equal("/var/lib/kvredis/dump.rdb", conf.RDBPath())
}
