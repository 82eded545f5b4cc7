package sink_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mtlist/internal/sink"
)

func TestRegions(t *testing.T) {
	regions := sink.NewRegions()
	_, ok := regions.Get("servers_table")
	require.False(t, ok)

	regions.Replace("servers_table", "<table></table>")
	regions.Replace("servers_table", "<table>2</table>")
	markup, ok := regions.Get("servers_table")
	require.True(t, ok)
	require.Equal(t, "<table>2</table>", markup)
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	fs, errNew := sink.NewFileSink(dir, zap.NewNop())
	require.NoError(t, errNew)

	fs.Replace("servers_table", "<table>1</table>")
	fs.Replace("servers_table", "<table>2</table>")
	body, errRead := os.ReadFile(fs.Path("servers_table"))
	require.NoError(t, errRead)
	require.Equal(t, "<table>2</table>", string(body))

	fs.Replace("../escape", "x")
	entries, errDir := os.ReadDir(dir)
	require.NoError(t, errDir)
	require.Len(t, entries, 1, "invalid targets and temp files leave nothing behind")
}

func TestMulti(t *testing.T) {
	a, b := sink.NewRegions(), sink.NewRegions()
	sink.Multi{a, b}.Replace("t", "m")
	for _, r := range []*sink.Regions{a, b} {
		markup, ok := r.Get("t")
		require.True(t, ok)
		require.Equal(t, "m", markup)
	}
}
