package rsvp

import (
	"fmt"
	"sync"
)

// Rate step bounds in words per minute.
const (
	MinStepRate  = 250
	MaxStepRate  = 1000
	RateStepSize = 50
)

// RateSteps returns the selectable rates from MinStepRate to MaxStepRate.
func RateSteps() []int {
	steps := make([]int, 0, (MaxStepRate-MinStepRate)/RateStepSize+1)
	for r := MinStepRate; r <= MaxStepRate; r += RateStepSize {
		steps = append(steps, r)
	}
	return steps
}

// RateController walks a list of discrete rates.
type RateController struct {
	mu    sync.RWMutex
	steps []int
	index int
}

// NewRateController creates a controller over RateSteps positioned at the
// step nearest to initial.
func NewRateController(initial int) *RateController {
	return NewRateControllerWithSteps(RateSteps(), initial)
}

// NewRateControllerWithSteps creates a controller over custom ascending
// steps.
func NewRateControllerWithSteps(steps []int, initial int) *RateController {
	if len(steps) == 0 {
		steps = RateSteps()
	}
	rc := &RateController{steps: append([]int(nil), steps...)}
	rc.index = rc.nearest(initial)
	return rc
}

// Rate returns the current rate.
func (rc *RateController) Rate() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.steps[rc.index]
}

// Next moves to the next faster step.
func (rc *RateController) Next() (int, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.index >= len(rc.steps)-1 {
		return rc.steps[rc.index], fmt.Errorf("already at maximum rate")
	}
	rc.index++
	return rc.steps[rc.index], nil
}

// Previous moves to the next slower step.
func (rc *RateController) Previous() (int, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.index <= 0 {
		return rc.steps[rc.index], fmt.Errorf("already at minimum rate")
	}
	rc.index--
	return rc.steps[rc.index], nil
}

// Format returns the current rate as shown in the status bar.
func (rc *RateController) Format() string {
	return fmt.Sprintf("%d wpm", rc.Rate())
}

func (rc *RateController) nearest(wpm int) int {
	best, bestDiff := 0, -1
	for i, s := range rc.steps {
		diff := s - wpm
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}
