package hdrgen

import (
	"io"
	"log"
	"os"

	"github.com/hashicorp/logutils"
)

// SetupLogging installs a level filter on the standard logger so a
// single --log-level flag gates per-pass tracing (DEBUG) against
// normal operation (WARN and up).  Messages must carry a level prefix
// like "[DEBUG]"; unprefixed messages always pass.
func SetupLogging(minLevel string, sink io.Writer) {
	if sink == nil {
		sink = os.Stderr
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: logutils.LogLevel(minLevel),
		Writer:   sink,
	}
	log.SetOutput(filter)
	log.SetFlags(0)
}

func debugf(format string, args ...any) {
	log.Printf("[DEBUG] "+format, args...)
}

func infof(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}

func warnf(format string, args ...any) {
	log.Printf("[WARN] "+format, args...)
}

func errorf(format string, args ...any) {
	log.Printf("[ERROR] "+format, args...)
}
