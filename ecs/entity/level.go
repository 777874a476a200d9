package entity

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/levels"
	"github.com/milk9111/hollowreach/prefabs"
)

const defaultKillMargin = common.TileSize * 2

var defaultTileColor = color.RGBA{R: 70, G: 64, B: 82, A: 255}

// LoadLevel reads an embedded level and populates w with it.
func LoadLevel(w *ecs.World, name string) error {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return err
	}
	return LoadLevelToWorld(w, lvl)
}

// LoadLevelToWorld creates tile sprites for every layer, merged static
// colliders for physics layers, the level bounds and one prefab per
// placement.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) error {
	if w == nil || lvl == nil {
		return fmt.Errorf("load level: nil world or level")
	}
	tileSize := common.TileSize

	margin := lvl.KillMargin
	if margin <= 0 {
		margin = defaultKillMargin
	}
	boundsEntity := ecs.CreateEntity(w)
	if err := ecs.Add(w, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:      float64(lvl.Width) * tileSize,
		Height:     float64(lvl.Height) * tileSize,
		KillMargin: margin,
	}); err != nil {
		return err
	}

	for layerIdx, layer := range lvl.Layers {
		var meta levels.LayerMeta
		if layerIdx < len(lvl.LayerMeta) {
			meta = lvl.LayerMeta[layerIdx]
		}
		palette, err := layerPalette(meta)
		if err != nil {
			return fmt.Errorf("load level: layer %d: %w", layerIdx, err)
		}

		for y := 0; y < lvl.Height; y++ {
			for x := 0; x < lvl.Width; x++ {
				tileID := layer[y*lvl.Width+x]
				if tileID <= 0 {
					continue
				}
				if err := addTile(w, float64(x)*tileSize, float64(y)*tileSize, layerIdx, palette(tileID)); err != nil {
					return err
				}
			}
		}
		if meta.Physics {
			if err := addMergedTileColliders(w, layer, lvl.Width, lvl.Height, tileSize); err != nil {
				return err
			}
		}
	}

	for i, ent := range lvl.Entities {
		if _, err := BuildPlacement(w, ent); err != nil {
			return fmt.Errorf("load level: entity %d (%s): %w", i, ent.Type, err)
		}
	}

	if lvl.Music != "" {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.MusicRequestComponent.Kind(), &component.MusicRequest{
			Track:         lvl.Music,
			Loop:          true,
			FadeOutFrames: 30,
		}); err != nil {
			return err
		}
	}

	return nil
}

func layerPalette(meta levels.LayerMeta) (func(id int) color.Color, error) {
	colors := make(map[int]color.Color, len(meta.Colors))
	for k, v := range meta.Colors {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("tile id %q: %w", k, err)
		}
		c, err := prefabs.ParseHexColor(v)
		if err != nil {
			return nil, err
		}
		colors[id] = c
	}
	return func(id int) color.Color {
		if c, ok := colors[id]; ok {
			return c
		}
		return defaultTileColor
	}, nil
}

func addTile(w *ecs.World, x, y float64, layer int, c color.Color) error {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Width:  common.TileSize,
		Height: common.TileSize,
		Color:  c,
	}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layer}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.StaticTileComponent.Kind(), &component.StaticTile{})
}

// PrefabFor maps a placement type to its prefab file.
func PrefabFor(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if strings.HasSuffix(kind, ".yaml") {
		return kind
	}
	return kind + ".yaml"
}

// BuildPlacement builds the prefab for a level entity at its position.
// Props are keyed by component name; each value is merged over that
// component's prefab block.
func BuildPlacement(w *ecs.World, ent levels.Entity) (ecs.Entity, error) {
	path := PrefabFor(ent.Type)
	spec, err := prefabs.LoadEntityBuildSpec(path)
	if err != nil {
		return 0, err
	}
	if err := applyProps(&spec, ent.Props); err != nil {
		return 0, err
	}
	e, err := BuildEntityFromSpec(w, spec, path)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, float64(ent.X), float64(ent.Y), 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

func applyProps(spec *prefabs.EntityBuildSpec, props map[string]any) error {
	if len(props) == 0 {
		return nil
	}
	if spec.Components == nil {
		spec.Components = map[string]any{}
	}
	for name, override := range props {
		if _, ok := componentRegistry[name]; !ok {
			return fmt.Errorf("prop %q is not a component", name)
		}
		fields, ok := override.(map[string]any)
		if !ok {
			return fmt.Errorf("prop %q must be an object", name)
		}
		merged := map[string]any{}
		if base, ok := spec.Components[name].(map[string]any); ok {
			for k, v := range base {
				merged[k] = v
			}
		}
		for k, v := range fields {
			merged[k] = v
		}
		spec.Components[name] = merged
	}
	return nil
}

// addMergedTileColliders greedily merges solid tiles into rectangles so the
// physics space holds a handful of static boxes instead of one per tile.
func addMergedTileColliders(w *ecs.World, layer []int, width, height int, tileSize float64) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	solid := func(idx int) bool {
		return idx >= 0 && idx < len(layer) && !visited[idx] && layer[idx] > 0
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !solid(index(x, y)) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && solid(index(x2, y)); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !solid(index(x2, y2)) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}

			e := ecs.CreateEntity(w)
			if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
				X:      float64(x) * tileSize,
				Y:      float64(y) * tileSize,
				ScaleX: 1,
				ScaleY: 1,
			}); err != nil {
				return err
			}
			if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
				Width:        float64(maxW) * tileSize,
				Height:       float64(maxH) * tileSize,
				Friction:     0.9,
				Static:       true,
				AlignTopLeft: true,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
