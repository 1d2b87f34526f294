package core

// MaterialID is a stable handle into the world's material table.
// Solids store handles instead of material values so that world state
// (an opened door, a looted chest) changes in one place.
type MaterialID int

// NoMaterial marks a solid without a material
const NoMaterial MaterialID = -1

// Valid reports whether the handle can refer to a table entry
func (id MaterialID) Valid() bool {
	return id >= 0
}
