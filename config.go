package ttd

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/hashicorp/logutils"
	"github.com/mitchellh/mapstructure"

	"github.com/hashicorp/ttd-eventlog/logformat"
)

// Config configures a Log. Grounded on serf.Config's plain
// duration/size struct shape (serf/config.go).
type Config struct {
	// LogDir is the single external-state directory (spec §6
	// "Environment"): snapshot companion files live here.
	LogDir string

	// ChunkSize is the event list's per-chunk capacity B (spec §3,
	// recommended 512).
	ChunkSize int

	// SnapshotInterval is the wall-clock period between extractions
	// (spec §4.9).
	SnapshotInterval time.Duration

	// SnapshotHistoryLength is the retention bound for on-disk
	// snapshots (spec §4.9, minimum 2).
	SnapshotHistoryLength int

	// Arch and DiagBuild feed the log-format compatibility check
	// (spec §6).
	Arch      logformat.Arch
	DiagBuild bool

	// LogWriter is where the Log's own [ERR]/[WARN]/[DEBUG] runtime
	// diagnostics are written, filtered at LogLevel; the textual event
	// log is written by SaveLog through the StreamProvider instead.
	// Grounded on
	// command/agent/command.go's logutils.LevelFilter setup.
	LogWriter io.Writer
	LogLevel  string
}

// DefaultConfig returns a Config with the spec's recommended defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:             DefaultChunkSize,
		SnapshotInterval:      5 * time.Second,
		SnapshotHistoryLength: 4,
		Arch:                  currentArch(),
		DiagBuild:             false,
		LogWriter:             os.Stderr,
		LogLevel:              "WARN",
	}
}

// ConfigFromMap decodes a loose option map (as an embedder's own
// JSON/HCL config layer would produce) into a Config, mirroring
// command/agent/config.go's mapstructure-tagged struct and ipc.go's
// mapstructure.Decode call sites.
func ConfigFromMap(m map[string]interface{}) (*Config, error) {
	cfg := DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the *log.Logger a Log uses for its own diagnostics,
// filtered through logutils the way command/agent/command.go wires it
// around os.Stderr.
func newLogger(cfg *Config) *log.Logger {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "WARN", "ERR"},
		MinLevel: logutils.LogLevel(cfg.LogLevel),
		Writer:   cfg.LogWriter,
	}
	return log.New(filter, "", log.LstdFlags)
}

func currentArch() logformat.Arch {
	switch archFromRuntime() {
	case "amd64":
		return logformat.ArchX64
	case "386":
		return logformat.ArchX86
	case "arm64":
		return logformat.ArchARM64
	default:
		return logformat.ArchUnknown
	}
}
