package jobtable

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xish-project/xish/internal/logging"
	"github.com/xish-project/xish/internal/ui"
)

func newTestTable() (*Table, *bytes.Buffer) {
	var out bytes.Buffer
	printer := &ui.Printer{Out: &out, Err: &out, NoColor: true}
	return New(logging.New(false), printer), &out
}

func TestAddRunningPrintsAnnouncement(t *testing.T) {
	tbl, out := newTestTable()
	idx := tbl.Add("sleep 10", 4242, Running)
	require.Equal(t, 1, idx)
	require.Contains(t, out.String(), "[1] 4242")
}

func TestAddStoppedDoesNotAnnounce(t *testing.T) {
	tbl, out := newTestTable()
	tbl.Add("vi file.go", 99, Stopped)
	require.Empty(t, out.String())
}

func TestGetMissingAndPresent(t *testing.T) {
	tbl, _ := newTestTable()
	_, ok := tbl.Get(1)
	require.False(t, ok)

	tbl.Add("cmd", 1, Running)
	job, ok := tbl.Get(1)
	require.True(t, ok)
	require.Equal(t, "cmd", job.Command)
	require.NotEqual(t, job.SessionID.String(), "")
}

func TestRemoveTrimsTrailingNoneSlots(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, Running)
	tbl.Add("b", 2, Running)
	require.Equal(t, 2, tbl.Len())

	tbl.Remove(2)
	require.Equal(t, 1, tbl.Len())
}

func TestRemoveMiddleSlotKeepsIndicesStable(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, Running)
	tbl.Add("b", 2, Running)
	tbl.Add("c", 3, Running)

	tbl.Remove(2)
	require.Equal(t, 3, tbl.Len())
	_, ok := tbl.Get(2)
	require.False(t, ok)
	job3, ok := tbl.Get(3)
	require.True(t, ok)
	require.Equal(t, "c", job3.Command)
}

func TestLastIndexSkipsNoneSlots(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, Running)
	tbl.Add("b", 2, Running)
	tbl.Remove(2)

	idx, ok := tbl.LastIndex()
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestLastStoppedIndex(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, Running)
	tbl.Add("b", 2, Stopped)

	idx, ok := tbl.LastStoppedIndex()
	require.True(t, ok)
	require.Equal(t, 2, idx)
}

func TestHasStoppedConsidersJustStopped(t *testing.T) {
	tbl, _ := newTestTable()
	require.False(t, tbl.HasStopped())
	tbl.Add("a", 1, JustStopped)
	require.True(t, tbl.HasStopped())
}

func TestRenderIncludeActiveFalseSuppressesRunning(t *testing.T) {
	tbl, out := newTestTable()
	tbl.Add("a", 1, Running)
	out.Reset()

	tbl.Render(false)
	require.Empty(t, out.String())
}

func TestRenderJustStoppedPrintsOnceThenBecomesStopped(t *testing.T) {
	tbl, out := newTestTable()
	tbl.Add("a", 1, JustStopped)
	out.Reset()

	tbl.Render(true)
	require.Contains(t, out.String(), "[1] Stopped")

	job, _ := tbl.Get(1)
	require.Equal(t, Stopped, job.Status)

	out.Reset()
	tbl.Render(false)
	require.Empty(t, out.String(), "a Stopped (not JustStopped) entry is suppressed when includeActive is false")
}

func TestRenderLinesMatchesRenderOutputShape(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, Running)
	tbl.Add("b", 2, Done)

	lines := tbl.RenderLines()
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "[1] Running")
	require.Contains(t, lines[1], "[2] Done")
}

func TestRenderLinesDoesNotMutateJustStopped(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, JustStopped)

	tbl.RenderLines()
	job, _ := tbl.Get(1)
	require.Equal(t, JustStopped, job.Status)
}

func TestPruneDoneRemovesOnlyDoneEntries(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, Running)
	tbl.Add("b", 2, Done)

	tbl.PruneDone()
	require.Equal(t, 1, tbl.Len())
	job, ok := tbl.Get(1)
	require.True(t, ok)
	require.Equal(t, "a", job.Command)
}

func TestClearEmptiesTheTable(t *testing.T) {
	tbl, _ := newTestTable()
	tbl.Add("a", 1, Running)
	tbl.Clear()
	require.Equal(t, 0, tbl.Len())
}
