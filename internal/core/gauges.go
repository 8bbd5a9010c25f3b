package core

import "math/rand/v2"

// SimulatedUsage returns non-zero gauges for a freshly activated workspace.
func SimulatedUsage() ResourceUsage {
	return ResourceUsage{
		CPU:        rand.Float64()*30 + 5,
		Memory:     rand.Float64()*1000 + 200,
		Disk:       rand.Float64()*2000 + 500,
		NetworkIn:  rand.Float64() * 2,
		NetworkOut: rand.Float64(),
	}
}
