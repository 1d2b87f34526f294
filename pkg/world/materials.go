package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/material"
)

var ErrUnknownMaterial = errors.New("world: unknown material handle")

// MaterialTable maps the stable handles held by solids to their current material.
// Swapping a material for a handle changes every solid that refers to it.
type MaterialTable struct {
	mu       sync.RWMutex
	entries  []material.Material
	override material.Material
	version  uint64
}

// NewMaterialTable creates an empty table
func NewMaterialTable() *MaterialTable {
	return &MaterialTable{}
}

// Register adds a material and returns its handle
func (t *MaterialTable) Register(m material.Material) core.MaterialID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, m)
	t.version++
	return core.MaterialID(len(t.entries) - 1)
}

// Set replaces the material behind an existing handle
func (t *MaterialTable) Set(id core.MaterialID, m material.Material) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || int(id) >= len(t.entries) {
		return fmt.Errorf("%w: %d", ErrUnknownMaterial, id)
	}
	t.entries[id] = m
	t.version++
	return nil
}

// Lookup resolves a handle. When an override is installed it is returned for every handle.
func (t *MaterialTable) Lookup(id core.MaterialID) (material.Material, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.override != nil {
		return t.override, true
	}
	if id < 0 || int(id) >= len(t.entries) || t.entries[id] == nil {
		return nil, false
	}
	return t.entries[id], true
}

// SetOverride substitutes m for every material; nil removes the override
func (t *MaterialTable) SetOverride(m material.Material) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.override = m
	t.version++
}

// Override returns the installed override, if any
func (t *MaterialTable) Override() material.Material {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.override
}

// Len returns the number of registered handles
func (t *MaterialTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Version increases on every mutation
func (t *MaterialTable) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}
