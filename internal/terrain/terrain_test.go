package terrain

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFlatSample(t *testing.T) {
	f := NewFlat(10, SurfaceGrass)

	s, ok := f.Sample(mgl64.Vec3{3, 4, 0})
	if !ok {
		t.Fatal("plane within reach not found")
	}
	if !s.Location.ApproxEqual(mgl64.Vec3{3, 4, 10}) || s.Obstacle {
		t.Fatalf("sample = %+v", s)
	}
	if s.IgnitionRate != 0.6 || s.FireHeight != 60 || s.BurnoutRate != 0.03 {
		t.Fatalf("grass parameters = %+v", s)
	}

	if _, ok := f.Sample(mgl64.Vec3{0, 0, -50}); ok {
		t.Fatal("plane above the probe column must not be found")
	}
	if _, ok := f.Sample(mgl64.Vec3{0, 0, 31}); ok {
		t.Fatal("plane below the probe column must not be found")
	}
	if _, ok := f.Sample(mgl64.Vec3{0, 0, 30}); !ok {
		t.Fatal("plane at the column floor must be found")
	}
}

func TestClassifyIncombustible(t *testing.T) {
	settings := DefaultSettings()
	for _, surface := range []Surface{SurfaceNone, SurfaceRock, SurfaceWater} {
		s := settings.Classify(surface, mgl64.Vec3{}, 4)
		if !s.Obstacle || s.IgnitionRate != 0 || s.FireHeight != 0 {
			t.Fatalf("%v classified as %+v", surface, s)
		}
	}
	custom := Settings{}
	s := custom.Classify(SurfaceGrass, mgl64.Vec3{}, NoTarget)
	if s.Obstacle || s.IgnitionRate != 1 || s.FireHeight != 100 {
		t.Fatalf("surface without parameters = %+v", s)
	}
}

func TestFieldSamplingIsIdempotent(t *testing.T) {
	f := NewField(DefaultFieldConfig())
	points := make([]mgl64.Vec3, 0, 64)
	for i := 0; i < 64; i++ {
		x, y := float64(i*53), float64(i*-31)
		points = append(points, mgl64.Vec3{x, y, f.HeightAt(x, y)})
	}

	first := make([]Sample, len(points))
	for i, p := range points {
		first[i], _ = f.Sample(p)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range points {
				s, _ := f.Sample(p)
				if s != first[i] {
					t.Errorf("sample %d changed: %+v vs %+v", i, s, first[i])
					return
				}
			}
		}()
	}
	wg.Wait()

	again := NewField(DefaultFieldConfig())
	for i, p := range points {
		if s, _ := again.Sample(p); s != first[i] {
			t.Fatalf("same seed produced a different field at %v", p)
		}
	}
}

func TestFieldProps(t *testing.T) {
	f := NewField(DefaultFieldConfig())
	ground := f.HeightAt(100, 100)
	f.AddProp(Prop{Center: mgl64.Vec3{100, 100, 0}, Radius: 30, Height: 10, Target: 9})

	s, ok := f.Sample(mgl64.Vec3{110, 100, ground})
	if !ok {
		t.Fatal("prop not found")
	}
	if s.Target != 9 || s.Surface != SurfaceWood || s.Obstacle {
		t.Fatalf("prop sample = %+v", s)
	}
	if s.Location.Z() != ground+10 {
		t.Fatalf("prop top = %v, want %v", s.Location.Z(), ground+10)
	}

	s, _ = f.Sample(mgl64.Vec3{200, 100, f.HeightAt(200, 100)})
	if s.Target != NoTarget {
		t.Fatal("ground outside the prop carries its target")
	}

	if surface, z := f.Top(95, 105); surface != SurfaceWood || z != ground+10 {
		t.Fatalf("Top under prop = %v at %v", surface, z)
	}
	if surface, _ := f.Top(200, 100); surface == SurfaceWood {
		t.Fatal("Top outside the prop reports wood")
	}
}

func TestFieldWaterAndRange(t *testing.T) {
	cfg := DefaultFieldConfig()
	f := NewField(cfg)
	for i := 0; i < 200; i++ {
		x, y := float64(i*41), float64(i*23)
		z := f.HeightAt(x, y)
		if z < cfg.BaseHeight-cfg.Amplitude || z > cfg.BaseHeight+cfg.Amplitude {
			t.Fatalf("height %v at (%v,%v) outside amplitude", z, x, y)
		}
		s, ok := f.Sample(mgl64.Vec3{x, y, z})
		if !ok {
			if z >= cfg.WaterLevel {
				t.Fatalf("ground at its own height not found at (%v,%v)", x, y)
			}
			continue
		}
		if s.Surface == SurfaceWater && (!s.Obstacle || s.Location.Z() != cfg.WaterLevel) {
			t.Fatalf("water sample = %+v", s)
		}
	}
}
