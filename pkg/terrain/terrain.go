// Package terrain provides the synthetic height field the whole
// simulation shares. Flight dynamics, projectile ground checks and the
// (external) mesh generator must all query elevation through HeightAt so
// they agree on where the ground is; the constants live here and nowhere
// else.
package terrain

import "math"

// World constants, meters. The runway corridor is kept perfectly flat so
// takeoff and landing never fight the wave function.
const (
	// RunwayHalfWidth is the lateral half-extent of the flattened corridor.
	RunwayHalfWidth = 14.0
	// RunwayZMin and RunwayZMax bound the corridor along its length.
	RunwayZMin = -80.0
	RunwayZMax = 300.0

	// TerraceStep is the quantization unit for the stair-stepped hills.
	TerraceStep = 4.0

	wavePrimaryAmp  = 22.0
	wavePrimaryFreq = 0.008
	waveCrossFreq   = 0.011
	waveDetailAmp   = 7.0
	waveDetailFreq  = 0.023
)

// InRunwayCorridor reports whether the ground coordinate lies inside the
// flattened runway band.
func InRunwayCorridor(x, z float64) bool {
	return math.Abs(x) < RunwayHalfWidth && z >= RunwayZMin && z <= RunwayZMax
}

// HeightAt returns the terrain elevation at a ground coordinate. The
// function is pure and defined over all reals: the corridor returns 0,
// everything else is a smooth bivariate wave quantized downward to the
// nearest terrace step, never below 0.
func HeightAt(x, z float64) float64 {
	if InRunwayCorridor(x, z) {
		return 0
	}
	wave := wavePrimaryAmp*math.Sin(x*wavePrimaryFreq)*math.Cos(z*waveCrossFreq) +
		waveDetailAmp*math.Sin((x+z)*waveDetailFreq)
	h := math.Floor(wave/TerraceStep) * TerraceStep
	if h < 0 {
		return 0
	}
	return h
}
