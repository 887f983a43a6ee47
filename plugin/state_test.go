package plugin

import "testing"

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateRegistered: "registered",
		StateResolved:   "resolved",
		StateSettingUp:  "setting_up",
		StateActive:     "active",
		StateStopping:   "stopping",
		StateStopped:    "stopped",
		StateFailed:     "failed",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []State{StateStopped, StateFailed}
	nonTerminal := []State{StateRegistered, StateResolved, StateSettingUp, StateActive, StateStopping}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%v should be terminal", s)
		}
	}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
}
