package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		kind Kind
		in   string
		want string
	}{
		{KindPrefab, "coin.yaml", "coin.yaml"},
		{KindPrefab, "prefabs/coin.yaml", "coin.yaml"},
		{KindScript, "archer.tengo", "scripts/archer.tengo"},
		{KindScript, "scripts/archer.tengo", "scripts/archer.tengo"},
		{KindScript, "prefabs/scripts/archer.tengo", "scripts/archer.tengo"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, resolve(c.kind, c.in), c.in)
	}
}

func TestDiskCopyOverridesEmbedded(t *testing.T) {
	root := t.TempDir()
	prev := DiskRoot
	DiskRoot = root
	t.Cleanup(func() { DiskRoot = prev })

	require.NoError(t, os.WriteFile(filepath.Join(root, "coin.yaml"), []byte("name: shiny\n"), 0o644))
	data, err := Load("coin.yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: shiny\n", string(data))

	data, err = Load("heart.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "heart", "falls back to the embedded copy")
}

func TestClassify(t *testing.T) {
	kind, ok := classify("prefabs/bat.YML")
	assert.True(t, ok)
	assert.Equal(t, KindPrefab, kind)

	kind, ok = classify("prefabs/scripts/archer.tengo")
	assert.True(t, ok)
	assert.Equal(t, KindScript, kind)

	_, ok = classify("prefabs/.bat.yaml.swp")
	assert.False(t, ok)
}

func TestWatcherBatchesBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	yamlPath := filepath.Join(dir, "bat.yaml")
	scriptPath := filepath.Join(dir, "bat.tengo")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(yamlPath, []byte("name: bat\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(scriptPath, []byte("x := 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	select {
	case batch := <-w.Batches():
		assert.Equal(t, []Change{
			{Path: scriptPath, Kind: KindScript},
			{Path: yamlPath, Kind: KindPrefab},
		}, batch)
	case <-time.After(3 * time.Second):
		t.Fatal("no batch delivered")
	}

	require.NoError(t, w.Close())
	for range w.Batches() {
	}
}
