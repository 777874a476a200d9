package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Kind tells prefab specs and AI scripts apart.
type Kind int

const (
	KindPrefab Kind = iota
	KindScript
)

func (k Kind) String() string {
	if k == KindScript {
		return "script"
	}
	return "prefab"
}

// DiskRoot is searched before the embedded copies so edits under ./prefabs
// take effect on the next load. Empty disables the override.
var DiskRoot = "prefabs"

func Load(name string) ([]byte, error) { return read(KindPrefab, name) }

func LoadScript(name string) ([]byte, error) { return read(KindScript, name) }

// resolve maps "x.yaml", "prefabs/x.yaml", "scripts/a.tengo" and
// "prefabs/scripts/a.tengo" to the slash path inside the embedded tree.
func resolve(kind Kind, name string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	if kind == KindScript {
		return path.Join("scripts", strings.TrimPrefix(rel, "scripts/"))
	}
	return rel
}

func read(kind Kind, name string) ([]byte, error) {
	rel := resolve(kind, name)
	if DiskRoot != "" {
		if data, err := os.ReadFile(filepath.Join(DiskRoot, filepath.FromSlash(rel))); err == nil {
			return data, nil
		}
	}
	if kind == KindScript {
		return ScriptsFS.ReadFile(rel)
	}
	return PrefabsFS.ReadFile(rel)
}

func classify(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return KindPrefab, true
	case ".tengo":
		return KindScript, true
	}
	return 0, false
}
