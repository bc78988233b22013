package instance

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---- Types under test ----

type Counter struct {
	Count int
}

type timerState string

const (
	statePause   timerState = "pause"
	stateRunning timerState = "running"
	stateStop    timerState = "stop"
)

type elapsedSeconds struct {
	Elapsed   time.Duration `prop:"elapsedSeconds"`
	StartDate time.Time
	EndDate   time.Time
}

type localTimerState struct {
	elapsedSeconds
	State  timerState `default:"stop"`
	Labels []string   `default:"alloc"`
	Hidden string     `prop:"-"`
	note   string
}

// notification has no exported fields and no constructor; tests reach it only through setters.
type notification struct {
	identifier string
	fireDate   time.Time
}

func (n *notification) Identifier() string { return n.identifier }

type notifier interface {
	Identifier() string
}

var referenceDate = time.Date(2023, time.July, 31, 9, 0, 0, 0, time.UTC)

// ---- Helpers ----

func assertErrorIs(t *testing.T, err, want error, needles ...string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	msg := err.Error()
	for _, needle := range needles {
		if !strings.Contains(msg, needle) {
			t.Fatalf("expected %q in error, got %q", needle, msg)
		}
	}
}

func notificationBinding(t *testing.T) *Binding[notification] {
	t.Helper()
	b, err := NewBinding[notification](
		WithSetter("identifier", func(n *notification, id string) { n.identifier = id }),
		WithSetter("fireDate", func(n *notification, d time.Time) { n.fireDate = d }),
		WithCheckedSetter("fireIn", func(n *notification, d time.Duration) error {
			if d < 0 {
				return fmt.Errorf("negative delay %s", d)
			}
			n.fireDate = referenceDate.Add(d)
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("NewBinding error: %v", err)
	}
	return b
}
