package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "start:"+f.name)
	}
	return f.startErr
}

func (f *fakeComponent) Stop(context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "stop:"+f.name)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health { return f.health }

type describedComponent struct {
	fakeComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "hydra-client", Details: "https://example.com"}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register(&fakeComponent{name: "books"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "books"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&fakeComponent{name: "books"})

	if got := r.Get("books"); got == nil || got.Name() != "books" {
		t.Errorf("expected registered component, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartStopOrder(t *testing.T) {
	r := NewRegistry(nil)
	var events []string
	for _, name := range []string{"server", "client", "cli"} {
		_ = r.Register(&fakeComponent{name: name, events: &events})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{"start:server", "start:client", "start:cli", "stop:cli", "stop:client", "stop:server"}
	if fmt.Sprint(events) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestStartAllStopsAtFirstFailure(t *testing.T) {
	r := NewRegistry(nil)
	var events []string
	_ = r.Register(&fakeComponent{name: "a", events: &events})
	_ = r.Register(&fakeComponent{name: "b", events: &events, startErr: fmt.Errorf("connection refused")})
	_ = r.Register(&fakeComponent{name: "c", events: &events})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected error from StartAll")
	}
	events = events[:0]
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if fmt.Sprint(events) != "[stop:a]" {
		t.Errorf("only started components should stop, got %v", events)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&fakeComponent{name: "a", stopErr: fmt.Errorf("a failed")})
	_ = r.Register(&fakeComponent{name: "b", stopErr: fmt.Errorf("b failed")})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	msg := err.Error()
	if !strings.Contains(msg, "a failed") || !strings.Contains(msg, "b failed") {
		t.Errorf("expected both failures, got %q", msg)
	}
}

func TestHealthAllAndOverall(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&fakeComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&fakeComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded, Message: "slow"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 || results[1].Message != "slow" {
		t.Fatalf("unexpected results %+v", results)
	}
	if got := Overall(results); got != StatusDegraded {
		t.Errorf("Overall = %s, want degraded", got)
	}
	if got := Overall(append(results, Health{Status: StatusUnhealthy})); got != StatusUnhealthy {
		t.Errorf("Overall = %s, want unhealthy", got)
	}
	if got := Overall(nil); got != StatusHealthy {
		t.Errorf("Overall(nil) = %s, want healthy", got)
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&fakeComponent{name: "plain"})
	_ = r.Register(&describedComponent{fakeComponent{name: "books"}})

	got := r.Describe()
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptions, got %d", len(got))
	}
	if got[0].Name != "plain" || got[0].Type != "" {
		t.Errorf("plain description = %+v", got[0])
	}
	if got[1].Name != "books" || got[1].Type != "hydra-client" {
		t.Errorf("describable description = %+v", got[1])
	}
}
