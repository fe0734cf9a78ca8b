package console

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestOutput(t *testing.T) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	defer SetOutput(os.Stdout, os.Stderr)

	Infof("read %d sensors", 2)
	Warnf("measurement clamped: %s", "WarnMaxPres")
	Errorf("bus %x", 0x76)
	Debugf("hidden")
	Trace = true
	Debugf("chip %#x", 0x60)
	Trace = false

	assert.Equal(t, "... read 2 sensors\n[DEBUG] chip 0x60\n", out.String())
	assert.Equal(t, "WARN: measurement clamped: WarnMaxPres\nERROR: bus 76\n", errOut.String())
}

func TestExit(t *testing.T) {
	color.NoColor = true
	err := Exit(3, "read error (code %d)", -2)
	assert.Equal(t, 3, err.ExitCode())
	assert.Equal(t, "ERROR: read error (code -2)", err.Error())
}
