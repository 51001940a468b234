package swarm

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/wingbeat/wingbeat/internal/subgraph"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func TestVec3_Distance(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(3, 4, 0)

	if d := a.Distance(b); d != 5.0 {
		t.Errorf("distance = %f, want 5.0", d)
	}
	if a.Distance(b) != b.Distance(a) {
		t.Error("distance should be symmetric")
	}
	if d := a.Distance(a); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestNewTornado_GeometryRanges(t *testing.T) {
	rng := testRand()
	for i := 0; i < 50; i++ {
		tor := NewTornado(NewVec3(0, 0, 0), rng, nil)
		if tor.Radius < 5 || tor.Radius >= 20 {
			t.Fatalf("radius out of range [5,20): %f", tor.Radius)
		}
		if tor.AngularVelocity < 0.5 || tor.AngularVelocity >= 2.0 {
			t.Fatalf("angular velocity out of range [0.5,2.0): %f", tor.AngularVelocity)
		}
		if tor.Height < 10 || tor.Height >= 50 {
			t.Fatalf("height out of range [10,50): %f", tor.Height)
		}
	}
}

func TestSweepUp_Idempotent(t *testing.T) {
	rng := testRand()
	tor := NewTornado(NewVec3(0, 0, 0), rng, nil)
	sg := subgraph.New(rng)

	tor.SweepUp(sg)
	tor.SweepUp(sg)

	if tor.Len() != 1 {
		t.Errorf("re-sweeping the same subgraph should not grow the map, got %d", tor.Len())
	}
}

func TestSpin_CountsConnectingPairs(t *testing.T) {
	rng := testRand()
	tor := NewTornado(NewVec3(0, 0, 0), rng, nil)

	strengths := []float64{0.1, 0.2, 0.9}
	for _, st := range strengths {
		sg := subgraph.New(rng)
		sg.Strength = st
		tor.SweepUp(sg)
	}

	// Only (0.1, 0.2) connects; 0.9 is too far from both.
	if got := tor.Spin(); got != 1 {
		t.Errorf("Spin() = %d connections, want 1", got)
	}
}

func TestSpin_FewerThanTwoIsNoop(t *testing.T) {
	rng := testRand()
	tor := NewTornado(NewVec3(0, 0, 0), rng, nil)

	if got := tor.Spin(); got != 0 {
		t.Errorf("empty tornado Spin() = %d, want 0", got)
	}

	tor.SweepUp(subgraph.New(rng))
	if got := tor.Spin(); got != 0 {
		t.Errorf("single-subgraph Spin() = %d, want 0", got)
	}
}

func TestRelease_ReturnsUpToCount(t *testing.T) {
	rng := testRand()
	tor := NewTornado(NewVec3(0, 0, 0), rng, nil)

	for i := 0; i < 5; i++ {
		tor.SweepUp(subgraph.New(rng))
	}

	released := tor.Release(3)
	if len(released) != 3 {
		t.Fatalf("Release(3) returned %d subgraphs", len(released))
	}
	if tor.Len() != 2 {
		t.Errorf("tornado should hold 2 subgraphs after release, got %d", tor.Len())
	}
	if len(released)+tor.Len() != 5 {
		t.Errorf("released + remaining = %d, want 5", len(released)+tor.Len())
	}
}

func TestRelease_MoreThanHeld(t *testing.T) {
	rng := testRand()
	tor := NewTornado(NewVec3(0, 0, 0), rng, nil)
	tor.SweepUp(subgraph.New(rng))

	released := tor.Release(10)
	if len(released) != 1 {
		t.Errorf("Release(10) on 1 held returned %d", len(released))
	}
	if tor.Len() != 0 {
		t.Errorf("tornado should be empty, holds %d", tor.Len())
	}
}

func TestTornado_ConcurrentSweepSpinRelease(t *testing.T) {
	rng := testRand()
	tor := NewTornado(NewVec3(0, 0, 0), rng, nil)

	// Pre-build subgraphs; rng is not goroutine-safe.
	sgs := make([]*subgraph.Subgraph, 100)
	for i := range sgs {
		sgs[i] = subgraph.New(rng)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for _, sg := range sgs {
			tor.SweepUp(sg)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			tor.Spin()
		}
	}()
	var released int
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			released += len(tor.Release(2))
		}
	}()
	wg.Wait()

	if released+tor.Len() != 100 {
		t.Errorf("released (%d) + held (%d) should account for all 100 subgraphs", released, tor.Len())
	}
}
