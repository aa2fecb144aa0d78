package common

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var configLog = WithComponent("config")

// RDBSnapshot defines a save-trigger rule: a snapshot is saved if
// KeysChanged keys were touched within Secs seconds. The loader only needs
// to read these from a config file; this server does not write snapshots.
type RDBSnapshot struct {
	Secs        int
	KeysChanged int
}

// Config holds the server's startup settings, parsed from a Redis-style
// config file plus any command-line data-directory override.
type Config struct {
	Port      int
	Dir       string
	Dbfilename string
	Save      []RDBSnapshot
	ReplicaOf string // "<host> <port>", empty if this server is a master

	filepath string
}

// NewConfig returns a Config populated with the server's defaults.
func NewConfig() *Config {
	return &Config{
		Port:       6379,
		Dbfilename: "dump.rdb",
	}
}

// ReadConf reads a Redis-style config file line by line. A missing file is
// not an error: the default Config is returned and a warning is logged,
// matching how a fresh `redis-server` with no config behaves. dataDir, when
// non-empty, overrides whatever "dir" directive the file set.
func ReadConf(filename string, dataDir string) *Config {
	config := NewConfig()

	f, err := os.Open(filename)
	if err != nil {
		configLog.Warnf("can't read config file %s - using defaults", filename)
	} else {
		defer f.Close()
		config.filepath = filename

		s := bufio.NewScanner(f)
		for s.Scan() {
			parseConfigLine(s.Text(), config)
		}
		if err := s.Err(); err != nil {
			configLog.Warnf("error scanning config file %s: %v", filename, err)
		}
	}

	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			configLog.Warnf("could not resolve absolute path for %q, using as-is", dataDir)
			abs = dataDir
		}
		config.Dir = abs
	}

	if config.Dir != "" {
		if err := os.MkdirAll(config.Dir, 0755); err != nil {
			configLog.Fatalf("failed to create data directory %q: %v", config.Dir, err)
		}
	}
	return config
}

// parseConfigLine applies one directive line to config. Unknown directives,
// blank lines, and comment lines (leading '#') are silently ignored: this
// server only understands the directives its components actually use.
func parseConfigLine(l string, config *Config) {
	l = strings.TrimSpace(l)
	if l == "" || strings.HasPrefix(l, "#") {
		return
	}
	args := strings.Fields(l)
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "port":
		if len(args) >= 2 {
			if p, err := strconv.Atoi(args[1]); err == nil {
				config.Port = p
			}
		}
	case "dir":
		if len(args) >= 2 {
			config.Dir = args[1]
		}
	case "dbfilename":
		if len(args) >= 2 {
			config.Dbfilename = args[1]
		}
	case "save":
		if len(args) >= 3 {
			secs, err1 := strconv.Atoi(args[1])
			keys, err2 := strconv.Atoi(args[2])
			if err1 == nil && err2 == nil {
				config.Save = append(config.Save, RDBSnapshot{Secs: secs, KeysChanged: keys})
			}
		}
	case "replicaof", "slaveof":
		if len(args) >= 3 {
			config.ReplicaOf = args[1] + " " + args[2]
		}
	}
}

// RDBPath is the path to the RDB file this config points at: Dir joined
// with Dbfilename (relative if Dir is relative or empty).
func (c *Config) RDBPath() string {
	return filepath.Join(c.Dir, c.Dbfilename)
}
