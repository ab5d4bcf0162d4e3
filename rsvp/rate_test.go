package rsvp

import "testing"

func TestRateSteps(t *testing.T) {
	steps := RateSteps()
	if len(steps) != 16 {
		t.Fatalf("len(RateSteps()) = %d, want 16", len(steps))
	}
	if steps[0] != 250 || steps[len(steps)-1] != 1000 {
		t.Errorf("RateSteps() spans %d..%d, want 250..1000", steps[0], steps[len(steps)-1])
	}
}

func TestRateControllerNearestStep(t *testing.T) {
	tests := []struct {
		name string
		wpm  int
		want int
	}{
		{"exact", 400, 400},
		{"nearest below", 420, 400},
		{"nearest above", 430, 450},
		{"tie picks lower", 325, 300},
		{"below range", 100, 250},
		{"above range", 5000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRateController(tt.wpm).Rate(); got != tt.want {
				t.Errorf("NewRateController(%d).Rate() = %d, want %d", tt.wpm, got, tt.want)
			}
		})
	}
}

func TestRateControllerNavigation(t *testing.T) {
	rc := NewRateController(DefaultRate)

	if _, err := rc.Previous(); err == nil {
		t.Error("Previous() at minimum should fail")
	}

	got, err := rc.Next()
	if err != nil || got != 300 {
		t.Errorf("Next() = %d, %v; want 300", got, err)
	}

	rc = NewRateController(MaxStepRate)
	if _, err := rc.Next(); err == nil {
		t.Error("Next() at maximum should fail")
	}
	if rc.Rate() != 1000 {
		t.Errorf("Rate() = %d, want 1000", rc.Rate())
	}
	if rc.Format() != "1000 wpm" {
		t.Errorf("Format() = %q", rc.Format())
	}
	got, err = rc.Previous()
	if err != nil || got != 950 {
		t.Errorf("Previous() = %d, %v; want 950", got, err)
	}
}

func TestRateControllerCustomSteps(t *testing.T) {
	steps := []int{100, 200}
	rc := NewRateControllerWithSteps(steps, 180)
	if rc.Rate() != 200 {
		t.Errorf("Rate() = %d, want 200", rc.Rate())
	}

	steps[1] = 1
	if rc.Rate() != 200 {
		t.Error("controller shares the caller's slice")
	}
}
