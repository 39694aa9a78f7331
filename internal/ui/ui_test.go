package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xish-project/xish/internal/logging"
)

func TestErrorWritesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Printer{Out: &out, Err: &errOut, NoColor: true}
	p.Error("boom: %d", 42)
	require.Contains(t, errOut.String(), "boom: 42")
	require.Empty(t, out.String())
}

func TestWarnWritesToOutWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Printer{Out: &out, Err: &errOut, NoColor: true}
	p.Warn("careful: %s", "stopped jobs")
	require.Contains(t, out.String(), "careful: stopped jobs")
	require.Empty(t, errOut.String())
}

// Logger is optional; a nil Logger must never panic Error/Warn.
func TestErrorAndWarnAreNilSafeWithoutLogger(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out, Err: &out, NoColor: true}
	require.NotPanics(t, func() { p.Error("no logger set") })
	require.NotPanics(t, func() { p.Warn("no logger set") })
}

// A non-nil, non-debug Logger (the default outside --debug) is a no-op
// logger and must not panic or otherwise disrupt message output.
func TestErrorAndWarnToleratesNoopLogger(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out, Err: &out, NoColor: true, Logger: logging.New(false)}
	require.NotPanics(t, func() { p.Error("logged: %d", 1) })
	require.NotPanics(t, func() { p.Warn("logged: %d", 2) })
	require.Contains(t, out.String(), "logged: 1")
	require.Contains(t, out.String(), "logged: 2")
}

func TestColorEnabledFalseForNonFileWriter(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out, Err: &out}
	require.False(t, p.colorEnabled(&out))
}

func TestColorEnabledFalseWhenNoColorSet(t *testing.T) {
	p := &Printer{NoColor: true}
	require.False(t, p.colorEnabled(nil))
}
