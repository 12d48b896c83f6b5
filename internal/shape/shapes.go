package shape

import (
	"math"
	"math/rand/v2"
)

// maxRejectTries bounds each implicit-surface acceptance loop. On
// exhaustion the sample falls back to a point on the unit sphere so the
// buffer is still filled with finite, in-range values.
const maxRejectTries = 64

// Library is the built-in Provider: a fixed set of procedural shapes.
type Library struct{}

// NewLibrary returns the built-in shape library.
func NewLibrary() *Library {
	return &Library{}
}

var shapeNames = []string{"sphere", "heart", "star", "planet", "tree"}

// Shapes lists the available shape ids.
func (l *Library) Shapes() []string {
	out := make([]string, len(shapeNames))
	copy(out, shapeNames)
	return out
}

// Known reports whether the id maps to a built-in shape.
func (l *Library) Known(shapeID string) bool {
	for _, name := range shapeNames {
		if name == shapeID {
			return true
		}
	}
	return false
}

// Generate fills target and color buffers for n particles. Unknown ids
// produce the default sphere.
func (l *Library) Generate(shapeID string, n int) Buffers {
	b := Buffers{
		Positions: make([]float32, 3*n),
		Colors:    make([]float32, 3*n),
	}

	var sample func(i int) (x, y, z, r, g, cb float64)
	switch shapeID {
	case "heart":
		sample = sampleHeart
	case "star":
		sample = sampleStar
	case "planet":
		sample = samplePlanet
	case "tree":
		sample = sampleTree
	default:
		sample = sampleSphere
	}

	for i := 0; i < n; i++ {
		x, y, z, r, g, cb := sample(i)
		b.Positions[3*i] = float32(x)
		b.Positions[3*i+1] = float32(y)
		b.Positions[3*i+2] = float32(z)
		b.Colors[3*i] = float32(r)
		b.Colors[3*i+1] = float32(g)
		b.Colors[3*i+2] = float32(cb)
	}
	return b
}

// unitBallFallback returns a point on the unit sphere, used when a
// rejection loop runs out of tries.
func unitBallFallback() (x, y, z float64) {
	theta := rand.Float64() * 2 * math.Pi
	phi := math.Acos(2*rand.Float64() - 1)
	return math.Sin(phi) * math.Cos(theta), math.Sin(phi) * math.Sin(theta), math.Cos(phi)
}

// jitter perturbs a base color channel by ±10% and clamps to [0,1].
func jitter(c float64) float64 {
	c *= 0.9 + 0.2*rand.Float64()
	return math.Min(1, math.Max(0, c))
}

// sampleSphere: uniform points in a ball of radius 2, cool blue-white
// shaded brighter toward the surface.
func sampleSphere(int) (x, y, z, r, g, b float64) {
	for try := 0; ; try++ {
		x, y, z = rand.Float64()*2-1, rand.Float64()*2-1, rand.Float64()*2-1
		if x*x+y*y+z*z <= 1 {
			break
		}
		if try >= maxRejectTries {
			x, y, z = unitBallFallback()
			break
		}
	}
	rad := math.Sqrt(x*x + y*y + z*z)
	x, y, z = x*2, y*2, z*2
	shade := 0.55 + 0.45*rad
	return x, y, z, jitter(0.55 * shade), jitter(0.7 * shade), jitter(shade)
}

// sampleHeart: rejection sampling inside the classic sextic implicit
// heart surface (y up), scaled to roughly match the other shapes.
func sampleHeart(int) (x, y, z, r, g, b float64) {
	for try := 0; ; try++ {
		x = rand.Float64()*2.8 - 1.4
		y = rand.Float64()*2.8 - 1.4
		z = rand.Float64()*2 - 1
		a := x*x + 2.25*z*z + y*y - 1
		if a*a*a-x*x*y*y*y-0.1125*z*z*y*y*y <= 0 {
			break
		}
		if try >= maxRejectTries {
			x, y, z = unitBallFallback()
			x, y, z = x*0.6, y*0.6, z*0.4
			break
		}
	}
	x, y, z = x*1.8, y*1.8, z*1.8
	return x, y, z, jitter(0.95), jitter(0.2 + 0.15*rand.Float64()), jitter(0.35)
}

// starRadius is the five-pointed star profile: outer radius at the points,
// inner radius between them.
func starRadius(theta float64) float64 {
	const outer, inner = 1.3, 0.55
	seg := math.Mod(theta*5/(2*math.Pi), 1)
	if seg > 0.5 {
		seg = 1 - seg
	}
	return inner + (outer-inner)*(1-2*seg)
}

// sampleStar: a flat five-pointed star extruded along z.
func sampleStar(int) (x, y, z, r, g, b float64) {
	for try := 0; ; try++ {
		x = rand.Float64()*2.6 - 1.3
		y = rand.Float64()*2.6 - 1.3
		rad := math.Hypot(x, y)
		if rad <= starRadius(math.Atan2(y, x)+math.Pi/2) {
			break
		}
		if try >= maxRejectTries {
			x, y = 0, 0
			break
		}
	}
	z = rand.Float64()*0.6 - 0.3
	x, y = x*1.5, y*1.5
	return x, y, z, jitter(1.0), jitter(0.82), jitter(0.25)
}

// samplePlanet: a sphere body with a flat ring. Roughly 70% of particles
// land in the body, the rest in the ring annulus.
func samplePlanet(int) (x, y, z, r, g, b float64) {
	if rand.Float64() < 0.7 {
		x, y, z, _, _, _ = sampleSphere(0)
		x, y, z = x*0.65, y*0.65, z*0.65
		return x, y, z, jitter(0.25), jitter(0.5), jitter(0.85)
	}
	theta := rand.Float64() * 2 * math.Pi
	rad := 1.7 + rand.Float64()*0.9
	x = math.Cos(theta) * rad
	z = math.Sin(theta) * rad
	y = rand.Float64()*0.12 - 0.06
	return x, y, z, jitter(0.85), jitter(0.75), jitter(0.55)
}

// sampleTree: a foliage cone over a trunk cylinder.
func sampleTree(int) (x, y, z, r, g, b float64) {
	if rand.Float64() < 0.82 {
		// Foliage: radius shrinks linearly with height.
		h := rand.Float64()
		maxRad := 1.25 * (1 - h)
		theta := rand.Float64() * 2 * math.Pi
		rad := math.Sqrt(rand.Float64()) * maxRad
		x = math.Cos(theta) * rad
		z = math.Sin(theta) * rad
		y = h*2.4 - 0.4
		return x, y, z, jitter(0.15), jitter(0.55 + 0.25*rand.Float64()), jitter(0.2)
	}
	// Trunk.
	theta := rand.Float64() * 2 * math.Pi
	rad := math.Sqrt(rand.Float64()) * 0.2
	x = math.Cos(theta) * rad
	z = math.Sin(theta) * rad
	y = -0.4 - rand.Float64()*1.0
	return x, y, z, jitter(0.45), jitter(0.3), jitter(0.15)
}
