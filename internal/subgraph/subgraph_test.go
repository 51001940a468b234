package subgraph

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/pkg/models"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestNew_StrengthInRange(t *testing.T) {
	rng := testRand()
	for i := 0; i < 100; i++ {
		sg := New(rng)
		if sg.Strength < 0 || sg.Strength >= 1 {
			t.Fatalf("strength out of range [0,1): %f", sg.Strength)
		}
	}
}

func TestNew_FreshIdentity(t *testing.T) {
	rng := testRand()
	a := New(rng)
	b := New(rng)

	if a.ID == b.ID {
		t.Error("two subgraphs should not share an id")
	}
	if a.Parent != uuid.Nil {
		t.Errorf("new subgraph should have no parent, got %s", a.Parent)
	}
	if len(a.Children) != 0 {
		t.Errorf("new subgraph should have no children, got %d", len(a.Children))
	}
	if a.NodeCount() != 0 {
		t.Errorf("new subgraph should hold no nodes, got %d", a.NodeCount())
	}
}

func TestSplit_ProducesExactlyN(t *testing.T) {
	rng := testRand()
	parent := New(rng)

	children := parent.Split(5)

	if len(children) != 5 {
		t.Fatalf("Split(5) returned %d children", len(children))
	}
	if len(parent.Children) != 5 {
		t.Fatalf("parent should record 5 children, got %d", len(parent.Children))
	}
	for i, child := range children {
		if child.Parent != parent.ID {
			t.Errorf("child %d parent = %s, want %s", i, child.Parent, parent.ID)
		}
		if parent.Children[i] != child.ID {
			t.Errorf("parent.Children[%d] = %s, want %s", i, parent.Children[i], child.ID)
		}
	}
}

func TestSplit_Accumulates(t *testing.T) {
	rng := testRand()
	parent := New(rng)

	parent.Split(2)
	parent.Split(3)

	if len(parent.Children) != 5 {
		t.Errorf("repeated splits should accumulate children, got %d, want 5", len(parent.Children))
	}
}

func TestMerge_CopiesNodesAndAveragesStrength(t *testing.T) {
	rng := testRand()
	a := New(rng)
	b := New(rng)
	a.Strength = 0.8
	b.Strength = 0.4

	a.AddNode(models.NewComputeNode(models.Process("left"), nil))
	b.AddNode(models.NewComputeNode(models.Process("right"), nil))
	b.AddNode(models.NewComputeNode(models.Transform("upper"), nil))

	if err := a.Merge(b); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if a.NodeCount() != 3 {
		t.Errorf("merged subgraph should hold 3 nodes, got %d", a.NodeCount())
	}
	if a.Strength != 0.6 {
		t.Errorf("merged strength = %f, want 0.6", a.Strength)
	}
	// The source keeps its nodes; ownership transfer is the caller's job.
	if b.NodeCount() != 2 {
		t.Errorf("source subgraph nodes changed: %d", b.NodeCount())
	}
}

func TestCanConnectWith_Threshold(t *testing.T) {
	rng := testRand()
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"close strengths connect", 0.5, 0.6, true},
		{"distant strengths do not", 0.1, 0.9, false},
		{"equal strengths connect", 0.42, 0.42, true},
		{"exactly at threshold does not", 0.2, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(rng)
			b := New(rng)
			a.Strength = tt.a
			b.Strength = tt.b

			if got := a.CanConnectWith(b); got != tt.want {
				t.Errorf("CanConnectWith(%f, %f) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if a.CanConnectWith(b) != b.CanConnectWith(a) {
				t.Errorf("CanConnectWith should be symmetric for (%f, %f)", tt.a, tt.b)
			}
		})
	}
}

func TestAddNode_Concurrent(t *testing.T) {
	rng := testRand()
	sg := New(rng)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sg.AddNode(models.NewComputeNode(models.Process("n"), nil))
			}
		}()
	}
	wg.Wait()

	if sg.NodeCount() != 500 {
		t.Errorf("expected 500 nodes after concurrent adds, got %d", sg.NodeCount())
	}
}
