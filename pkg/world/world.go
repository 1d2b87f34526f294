package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
	"github.com/df07/go-dungeon-raytracer/pkg/lights"
	"github.com/df07/go-dungeon-raytracer/pkg/material"
)

var (
	ErrUnknownToggle   = errors.New("world: unknown toggle")
	ErrDuplicateToggle = errors.New("world: toggle already defined")
)

// World is everything a render pass reads: geometry, lights and the material table.
// It must not be mutated while a render is in flight.
type World struct {
	Scene     *geometry.Scene
	Lights    []lights.Light
	Materials *MaterialTable

	mu      sync.Mutex
	toggles map[string]*toggle
}

// toggle swaps the material behind one handle between two states
type toggle struct {
	id      core.MaterialID
	off, on material.Material
	state   bool
}

// New creates a world over scene with an empty material table
func New(scene *geometry.Scene, ls ...lights.Light) *World {
	if scene == nil {
		scene = geometry.NewScene()
	}
	return &World{
		Scene:     scene,
		Lights:    ls,
		Materials: NewMaterialTable(),
		toggles:   make(map[string]*toggle),
	}
}

// AddLight appends a light source
func (w *World) AddLight(l lights.Light) {
	w.Lights = append(w.Lights, l)
}

// Material resolves the current material of a solid
func (w *World) Material(s geometry.Solid) (material.Material, bool) {
	return w.Materials.Lookup(s.Material())
}

// DefineToggle registers a named two-state swap for the material behind id.
// The handle is set to the off material immediately.
func (w *World) DefineToggle(name string, id core.MaterialID, off, on material.Material) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.toggles[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateToggle, name)
	}
	if err := w.Materials.Set(id, off); err != nil {
		return fmt.Errorf("toggle %s: %w", name, err)
	}
	w.toggles[name] = &toggle{id: id, off: off, on: on}
	return nil
}

// SetToggle puts a toggle into the given state
func (w *World) SetToggle(name string, on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	tg, ok := w.toggles[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownToggle, name)
	}
	m := tg.off
	if on {
		m = tg.on
	}
	if err := w.Materials.Set(tg.id, m); err != nil {
		return err
	}
	tg.state = on
	return nil
}

// Toggle flips a toggle and returns its new state
func (w *World) Toggle(name string) (bool, error) {
	state, err := w.ToggleState(name)
	if err != nil {
		return false, err
	}
	return !state, w.SetToggle(name, !state)
}

// ToggleState reports whether a toggle is on
func (w *World) ToggleState(name string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	tg, ok := w.toggles[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownToggle, name)
	}
	return tg.state, nil
}

// Toggles lists toggle names in sorted order
func (w *World) Toggles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.toggles))
	for name := range w.toggles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
