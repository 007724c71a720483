package experiment

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/san-kum/pagefx/internal/field"
)

func testConfig() Config {
	return Config{
		Preset: "default",
		Params: field.DefaultParams(),
		Path:   "circle",
		Frames: 120,
		Seed:   7,
		Width:  800,
		Height: 600,
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() *Result {
		exp, err := New(testConfig())
		if err != nil {
			t.Fatal(err)
		}
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	if len(a.Frames) != 120 {
		t.Fatalf("recorded %d frames", len(a.Frames))
	}
	if !reflect.DeepEqual(a.Frames, b.Frames) {
		t.Error("same seed produced different frames")
	}
	if !reflect.DeepEqual(a.Metrics, b.Metrics) {
		t.Error("same seed produced different metrics")
	}
	for _, name := range []string{"mean_distance", "reset_rate", "links", "trail_occupancy", "cohesion"} {
		if _, ok := a.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if len(a.Final) != field.DefaultParams().Count {
		t.Errorf("final field has %d particles", len(a.Final))
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Path = "spiral"
	if _, err := New(cfg); err == nil {
		t.Error("expected error for unknown path")
	}
	cfg = testConfig()
	cfg.Width = 0
	if _, err := New(cfg); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestRunHonorsContext(t *testing.T) {
	exp, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := exp.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEnsemble(t *testing.T) {
	cfg := testConfig()
	cfg.Frames = 30
	results, err := Ensemble(context.Background(), cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}

	// the first member matches a plain run of the base seed
	exp, _ := New(cfg)
	single, _ := exp.Run(context.Background())
	if !reflect.DeepEqual(results[0].Frames, single.Frames) {
		t.Error("ensemble member 0 differs from the base run")
	}

	mean := Mean(results)
	want := (results[0].Metrics["links"] + results[1].Metrics["links"] + results[2].Metrics["links"]) / 3
	if mean["links"] != want {
		t.Errorf("mean links = %v, want %v", mean["links"], want)
	}
	if len(Mean(nil)) != 0 {
		t.Error("mean of nothing should be empty")
	}
}

func TestPaths(t *testing.T) {
	for _, name := range ListPaths() {
		p, err := GetPath(name, rand.New(rand.NewSource(1)))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 400; i++ {
			x, y, inside := p(i, 640, 480)
			if !inside {
				continue
			}
			if x < 0 || x > 640 || y < 0 || y > 480 {
				t.Fatalf("%s frame %d left the window while inside: (%v, %v)", name, i, x, y)
			}
		}
	}

	exit, _ := GetPath("exit", nil)
	if _, _, inside := exit(200, 640, 480); inside {
		t.Error("exit path should be outside after two seconds")
	}
}

func TestExitFollowsCircleFirst(t *testing.T) {
	circle, err := GetPath("circle", nil)
	if err != nil {
		t.Fatal(err)
	}
	exit, err := GetPath("exit", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{0, 37, 119} {
		cx, cy, _ := circle(i, 640, 480)
		ex, ey, inside := exit(i, 640, 480)
		if !inside || ex != cx || ey != cy {
			t.Errorf("frame %d: exit (%v, %v, %v), circle (%v, %v)", i, ex, ey, inside, cx, cy)
		}
	}
	if len(ListPaths()) != 7 {
		t.Errorf("paths = %v", ListPaths())
	}
}
