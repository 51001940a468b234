// Package swarm implements the tornado swarm: dynamically spawned containers
// that hold, redistribute, and pairwise-scan subgraphs of decomposed work.
package swarm

import "math"

// Vec3 is a position in the swarm's 3-D space.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a position from its components.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Distance returns the Euclidean distance to other.
func (v Vec3) Distance(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
