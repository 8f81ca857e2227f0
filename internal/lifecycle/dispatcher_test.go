// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/componentry/pkg/component"
)

// recorder collects "<phase>:<name>" events in call order.
type recorder struct {
	events []string
}

func (r *recorder) hooks() component.Hooks {
	return component.Hooks{
		InitFunc: func(_ context.Context, d component.Descriptor) error {
			r.events = append(r.events, "init:"+d.Name)
			return nil
		},
		ReadyFunc: func(_ context.Context, d component.Descriptor) error {
			r.events = append(r.events, "ready:"+d.Name)
			return nil
		},
	}
}

func entry(t *testing.T, name string, v any) Entry {
	t.Helper()
	catalog := component.NewCatalog()
	handle := component.DefaultHandleName(name)
	catalog.MustRegister(handle, v)
	h, _ := catalog.Lookup(handle)
	return Entry{Descriptor: component.Descriptor{Name: name}, Handle: h}
}

func TestDispatcher_InitBeforeReady(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New([]Entry{
		entry(t, "Clients", rec.hooks()),
		entry(t, "Clients::Billing", rec.hooks()),
	}, nil, nil)

	if err := d.Init(context.Background(), nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if d.State() != StateInitialized {
		t.Fatalf("State() = %s, want initialized", d.State())
	}
	if err := d.Ready(context.Background(), nil); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}

	want := []string{"init:Clients", "init:Clients::Billing", "ready:Clients", "ready:Clients::Billing"}
	if !slices.Equal(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	if d.State() != StateReady {
		t.Errorf("State() = %s, want ready", d.State())
	}
}

func TestDispatcher_SkipsMissingCapabilities(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	initOnly := component.Hooks{InitFunc: rec.hooks().InitFunc}
	readyOnly := component.Hooks{ReadyFunc: rec.hooks().ReadyFunc}

	d := New([]Entry{
		{Descriptor: component.Descriptor{Name: "Bare"}},
		entry(t, "InitOnly", initOnly),
		entry(t, "ReadyOnly", readyOnly),
		entry(t, "Neither", struct{}{}),
	}, nil, nil)

	if err := d.Init(context.Background(), nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := d.Ready(context.Background(), nil); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}

	want := []string{"init:InitOnly", "ready:ReadyOnly"}
	if !slices.Equal(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
}

func TestDispatcher_SkipFunc(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New([]Entry{
		entry(t, "Clients", rec.hooks()),
		entry(t, "Tracing", rec.hooks()),
	}, nil, nil)

	skip := func(desc component.Descriptor) bool { return desc.Name == "Tracing" }
	if err := d.Init(context.Background(), skip); err != nil {
		t.Fatal(err)
	}
	if err := d.Ready(context.Background(), skip); err != nil {
		t.Fatal(err)
	}

	if want := []string{"init:Clients", "ready:Clients"}; !slices.Equal(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
}

func TestDispatcher_HookErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	rec := &recorder{}
	d := New([]Entry{
		entry(t, "First", component.Hooks{InitFunc: func(context.Context, component.Descriptor) error { return boom }}),
		entry(t, "Second", rec.hooks()),
	}, nil, nil)

	err := d.Init(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Init() error = %v, want boom", err)
	}

	var he *HookError
	if !errors.As(err, &he) || he.Component != "First" || he.Phase != PhaseInit {
		t.Fatalf("HookError = %+v", he)
	}
	if len(rec.events) != 0 {
		t.Errorf("later hooks ran after failure: %v", rec.events)
	}
	if d.State() != StateFailed {
		t.Errorf("State() = %s, want failed", d.State())
	}

	if err := d.Ready(context.Background(), nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Ready() after failure error = %v, want ErrInvalidTransition", err)
	}
}

func TestDispatcher_OutOfOrder(t *testing.T) {
	t.Parallel()

	d := New(nil, nil, nil)

	err := d.Ready(context.Background(), nil)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("Ready() before Init() error = %v, want TransitionError", err)
	}
	if te.From != StateIdle || te.To != StateReady {
		t.Errorf("TransitionError = %+v", te)
	}

	if err := d.Init(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if err := d.Init(context.Background(), nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Init() error = %v, want ErrInvalidTransition", err)
	}
}

func TestDispatcher_ContextCanceled(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New([]Entry{entry(t, "Clients", rec.hooks())}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Init(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Init() error = %v, want context.Canceled", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("hooks ran with canceled context: %v", rec.events)
	}
}

func TestDispatcher_Reset(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New([]Entry{entry(t, "Clients", rec.hooks())}, nil, nil)
	if err := d.Init(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	d.Reset([]Entry{entry(t, "Billing", rec.hooks())})
	if d.State() != StateIdle {
		t.Fatalf("State() after Reset = %s", d.State())
	}
	if err := d.Init(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	if want := []string{"init:Clients", "init:Billing"}; !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	if got := d.Entries(); len(got) != 1 || got[0].Descriptor.Name != "Billing" {
		t.Errorf("Entries() = %v", got)
	}
}

func TestDispatcher_Progress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	progress := slog.New(slog.NewTextHandler(&buf, nil))
	d := New([]Entry{entry(t, "Clients", (&recorder{}).hooks())}, nil, progress)

	if err := d.Init(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `msg="init Clients"`) {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	want := map[State]string{StateIdle: "idle", StateInitialized: "initialized", StateReady: "ready", StateFailed: "failed"}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), name)
		}
	}
	if State(42).String() != "unknown" {
		t.Errorf("State(42).String() = %q", State(42).String())
	}
}
