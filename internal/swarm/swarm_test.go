package swarm

import (
	"testing"

	"github.com/wingbeat/wingbeat/internal/subgraph"
)

func TestSpawn_AppendsInOrder(t *testing.T) {
	s := NewSwarm(testRand())

	first := s.Spawn(NewVec3(0, 0, 0))
	second := s.Spawn(NewVec3(10, 5, 0))

	tornadoes := s.Tornadoes()
	if len(tornadoes) != 2 {
		t.Fatalf("swarm should hold 2 tornadoes, got %d", len(tornadoes))
	}
	if tornadoes[0].ID != first.ID || tornadoes[1].ID != second.ID {
		t.Error("tornado order should be insertion order")
	}
}

func TestSimulateStep_SpinsEveryTornado(t *testing.T) {
	rng := testRand()
	s := NewSwarm(rng)

	for i := 0; i < 3; i++ {
		s.Spawn(NewVec3(float64(i)*10, float64(i)*5, 0))
	}

	// Load one tornado with a guaranteed-connecting pair.
	a := subgraph.New(rng)
	b := subgraph.New(rng)
	a.Strength = 0.5
	b.Strength = 0.6
	tor := s.Tornadoes()[1]
	tor.SweepUp(a)
	tor.SweepUp(b)

	if got := s.SimulateStep(0.1); got != 1 {
		t.Errorf("SimulateStep observed %d connections, want 1", got)
	}
}

func TestSimulateStep_DriftsEye(t *testing.T) {
	s := NewSwarm(testRand())
	tor := s.Spawn(NewVec3(1, 2, 3))
	before := tor.Eye()

	s.SimulateStep(1.0)

	after := tor.Eye()
	if after.Z != before.Z {
		t.Errorf("drift should not change Z, got %f", after.Z)
	}
	if after.X == before.X && after.Y == before.Y {
		t.Error("drift should perturb the eye position")
	}
}

func TestSubgraphCount(t *testing.T) {
	rng := testRand()
	s := NewSwarm(rng)
	t1 := s.Spawn(NewVec3(0, 0, 0))
	t2 := s.Spawn(NewVec3(1, 1, 0))

	t1.SweepUp(subgraph.New(rng))
	t2.SweepUp(subgraph.New(rng))
	t2.SweepUp(subgraph.New(rng))

	if got := s.SubgraphCount(); got != 3 {
		t.Errorf("SubgraphCount() = %d, want 3", got)
	}
}

func TestEventEmitter_EmitsSpawnAndSweep(t *testing.T) {
	emitter := NewEventEmitter(16)
	rng := testRand()
	s := NewSwarm(rng, WithEmitter(emitter))

	tor := s.Spawn(NewVec3(0, 0, 0))
	tor.SweepUp(subgraph.New(rng))

	ev := <-emitter.Events()
	if ev.Type != EventTornadoSpawned {
		t.Errorf("first event = %s, want %s", ev.Type, EventTornadoSpawned)
	}
	ev = <-emitter.Events()
	if ev.Type != EventSubgraphSwept {
		t.Errorf("second event = %s, want %s", ev.Type, EventSubgraphSwept)
	}
	if ev.TornadoID != tor.ID {
		t.Error("sweep event should carry the tornado id")
	}
}

func TestEventEmitter_DropsWhenFull(t *testing.T) {
	emitter := NewEventEmitter(1)
	emitter.Emit(Event{Type: EventTornadoSpawned})
	emitter.Emit(Event{Type: EventTornadoSpawned})

	if got := emitter.DroppedCount(); got != 1 {
		t.Errorf("DroppedCount() = %d, want 1", got)
	}
}

func TestNilEmitter_IsSafe(t *testing.T) {
	var e *EventEmitter
	e.Emit(Event{Type: EventTornadoSpawned})
	if e.DroppedCount() != 0 {
		t.Error("nil emitter should report zero drops")
	}
	if e.Events() != nil {
		t.Error("nil emitter should return a nil channel")
	}
}
