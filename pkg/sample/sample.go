// Package sample generates point clouds on and inside simple shapes.
package sample

import (
	"math"
	"math/rand/v2"

	v3 "github.com/deadsy/sdfx/vec/v3"
	fastnoiselite "github.com/furui/fastnoiselite-go"
)

// noiseFrequency is tuned so a unit sphere spans a few noise cells.
const noiseFrequency = 1.5

// FibonacciSphere returns n points spread evenly over a sphere of radius r
// centred at the origin, ordered from +Y to -Y.
func FibonacciSphere(n int, r float64) []v3.Vec {
	return NoisySphere(n, r, 0, 0)
}

// NoisySphere is FibonacciSphere with each radius displaced by up to
// jitter×r, driven by coherent 3D noise so nearby points move together.
// The same seed gives the same cloud.
func NoisySphere(n int, r, jitter float64, seed int32) []v3.Vec {
	var noise *fastnoiselite.FastNoiseLite
	if jitter != 0 {
		noise = fastnoiselite.NewNoise()
		noise.SetNoiseType(fastnoiselite.NoiseTypeValueCubic)
		noise.Seed = seed
		noise.Frequency = noiseFrequency
	}

	pts := make([]v3.Vec, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range pts {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		rad := math.Sqrt(1 - y*y)
		th := golden * float64(i)
		dir := v3.Vec{X: rad * math.Cos(th), Y: y, Z: rad * math.Sin(th)}

		scale := r
		if noise != nil {
			nv := float64(noise.GetNoise3D(
				fastnoiselite.FNLfloat(dir.X),
				fastnoiselite.FNLfloat(dir.Y),
				fastnoiselite.FNLfloat(dir.Z)))
			scale = r * (1 + jitter*nv)
		}
		pts[i] = dir.MulScalar(scale)
	}
	return pts
}

// Ring returns n points on a circle of radius r in the plane z, starting on
// the +X axis.
func Ring(n int, r, z float64) []v3.Vec {
	pts := make([]v3.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = v3.Vec{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
	}
	return pts
}

// BoxCorners returns the eight corners of the box spanning min to max.
func BoxCorners(min, max v3.Vec) []v3.Vec {
	pts := make([]v3.Vec, 0, 8)
	for _, x := range []float64{min.X, max.X} {
		for _, y := range []float64{min.Y, max.Y} {
			for _, z := range []float64{min.Z, max.Z} {
				pts = append(pts, v3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

// UniformBox returns n points drawn uniformly from the box spanning min to
// max. The same seed gives the same cloud.
func UniformBox(n int, min, max v3.Vec, seed uint64) []v3.Vec {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	size := max.Sub(min)
	pts := make([]v3.Vec, n)
	for i := range pts {
		pts[i] = v3.Vec{
			X: min.X + size.X*rng.Float64(),
			Y: min.Y + size.Y*rng.Float64(),
			Z: min.Z + size.Z*rng.Float64(),
		}
	}
	return pts
}
