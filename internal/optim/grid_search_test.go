package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/pagefx/internal/automation"
	"github.com/san-kum/pagefx/internal/experiment"
	"github.com/san-kum/pagefx/internal/field"
)

func builder(params map[string]float64) (*experiment.Experiment, error) {
	p := field.DefaultParams()
	for name, v := range params {
		if err := automation.SetParam(&p, name, v); err != nil {
			return nil, err
		}
	}
	return experiment.New(experiment.Config{
		Params: p,
		Path:   "still",
		Frames: 20,
		Seed:   1,
		Width:  640,
		Height: 480,
	})
}

func TestGridSearchFindsZeroLinks(t *testing.T) {
	g, err := NewGridSearch([]string{"link_radius", "count"}, [][]float64{{0, 120}, {10, 20}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 4 {
		t.Errorf("size = %d", g.Size())
	}

	best, score, err := g.Search(context.Background(), builder, Target("links", 0))
	if err != nil {
		t.Fatal(err)
	}
	if best["link_radius"] != 0 || score != 0 {
		t.Errorf("best = %v score = %v", best, score)
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"a"}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := NewGridSearch([]string{"a"}, [][]float64{{}}); err == nil {
		t.Error("expected empty range error")
	}

	g, _ := NewGridSearch([]string{"gravity"}, [][]float64{{1, 2}})
	if _, _, err := g.Search(context.Background(), builder, Target("links", 0)); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("err = %v, want ErrNoCandidate", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, _ = NewGridSearch([]string{"count"}, [][]float64{{5}})
	if _, _, err := g.Search(ctx, builder, Target("links", 0)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	if len(got) != 5 || got[1] != 0.25 || got[4] != 1 {
		t.Errorf("Linspace = %v", got)
	}
	if v := Linspace(3, 9, 1); len(v) != 1 || v[0] != 3 {
		t.Errorf("single = %v", v)
	}
}
