package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snakearena/camera"
)

type particle struct {
	x, y, vx, vy float32
	life, max    float32
	size         float32
	color        rl.Color
}

// ParticleRenderer renders short-lived death and pickup bursts.
type ParticleRenderer struct {
	particles []particle
	rng       *rand.Rand
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{rng: rand.New(rand.NewSource(1))}
}

// Burst emits n particles radiating from (x, y).
func (r *ParticleRenderer) Burst(x, y float32, n int, color rl.Color) {
	for i := 0; i < n; i++ {
		angle := r.rng.Float64() * 2 * math.Pi
		speed := float32(40 + r.rng.Float64()*120)
		life := float32(0.4 + r.rng.Float64()*0.4)
		r.particles = append(r.particles, particle{
			x:     x,
			y:     y,
			vx:    float32(math.Cos(angle)) * speed,
			vy:    float32(math.Sin(angle)) * speed,
			life:  life,
			max:   life,
			size:  float32(2 + r.rng.Float64()*3),
			color: color,
		})
	}
}

// Update ages particles by dt seconds and drops dead ones.
func (r *ParticleRenderer) Update(dt float32) {
	kept := r.particles[:0]
	for _, p := range r.particles {
		p.life -= dt
		if p.life <= 0 {
			continue
		}
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.vx *= 0.95
		p.vy *= 0.95
		kept = append(kept, p)
	}
	r.particles = kept
}

// Clear removes every particle.
func (r *ParticleRenderer) Clear() {
	r.particles = r.particles[:0]
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw(cam *camera.Camera) {
	for i := range r.particles {
		p := &r.particles[i]
		if !cam.IsVisible(p.x, p.y, p.size) {
			continue
		}

		// Calculate life ratio for fade
		lifeRatio := p.life / p.max
		color := p.color
		color.A = uint8(lifeRatio * float32(color.A))

		size := p.size * lifeRatio * cam.Zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := cam.WorldToScreen(p.x, p.y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}
