package player

import (
	"reflect"
	"testing"
	"time"
)

func TestReduceTransitions(t *testing.T) {
	wrong := GuessOutcome{IsCorrect: false, CorrectIndex: -1}
	right := GuessOutcome{IsCorrect: true, CorrectIndex: 2}

	tests := []struct {
		name    string
		start   Attempt
		option  int
		outcome GuessOutcome
		want    Attempt
	}{
		{
			name:    "unanswered wrong guess",
			start:   NewAttempt(),
			option:  0,
			outcome: wrong,
			want:    Attempt{State: PartiallyWrong, WrongGuesses: []int{0}, CorrectIndex: -1},
		},
		{
			name:    "unanswered correct guess",
			start:   NewAttempt(),
			option:  2,
			outcome: right,
			want:    Attempt{State: Solved, CorrectIndex: 2},
		},
		{
			name:    "partially wrong accumulates",
			start:   Attempt{State: PartiallyWrong, WrongGuesses: []int{0}, CorrectIndex: -1},
			option:  1,
			outcome: wrong,
			want:    Attempt{State: PartiallyWrong, WrongGuesses: []int{0, 1}, CorrectIndex: -1},
		},
		{
			name:    "partially wrong solved",
			start:   Attempt{State: PartiallyWrong, WrongGuesses: []int{0, 1}, CorrectIndex: -1},
			option:  2,
			outcome: right,
			want:    Attempt{State: Solved, WrongGuesses: []int{0, 1}, CorrectIndex: 2},
		},
		{
			name:    "solved is terminal",
			start:   Attempt{State: Solved, WrongGuesses: []int{0}, CorrectIndex: 2},
			option:  1,
			outcome: wrong,
			want:    Attempt{State: Solved, WrongGuesses: []int{0}, CorrectIndex: 2},
		},
		{
			name:    "failed option stays disabled",
			start:   Attempt{State: PartiallyWrong, WrongGuesses: []int{0}, CorrectIndex: -1},
			option:  0,
			outcome: wrong,
			want:    Attempt{State: PartiallyWrong, WrongGuesses: []int{0}, CorrectIndex: -1},
		},
		{
			name:    "correct guess without disclosed index falls back to the option",
			start:   NewAttempt(),
			option:  3,
			outcome: GuessOutcome{IsCorrect: true, CorrectIndex: -1},
			want:    Attempt{State: Solved, CorrectIndex: 3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(tc.start, tc.option, tc.outcome)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Reduce = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestReduceDoesNotShareWrongGuessSlices(t *testing.T) {
	start := Attempt{State: PartiallyWrong, WrongGuesses: []int{0}, CorrectIndex: -1}
	after := Reduce(start, 1, GuessOutcome{IsCorrect: false, CorrectIndex: -1})

	after.WrongGuesses[0] = 99
	if start.WrongGuesses[0] != 0 {
		t.Fatalf("Reduce aliased the input slice")
	}
}

func TestAttemptCanGuess(t *testing.T) {
	a := Attempt{State: PartiallyWrong, WrongGuesses: []int{1}, CorrectIndex: -1}
	if !a.CanGuess(0) {
		t.Fatalf("fresh option must be guessable")
	}
	if a.CanGuess(1) {
		t.Fatalf("failed option must stay disabled")
	}

	solved := Attempt{State: Solved, CorrectIndex: 0}
	if solved.CanGuess(1) {
		t.Fatalf("solved question must not accept guesses")
	}
}

// fakeClock steps forward a fixed amount on every read.
type fakeClock struct {
	current time.Time
	step    time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.current
	c.current = c.current.Add(c.step)
	return t
}

func TestProgressNavigationGating(t *testing.T) {
	p := NewProgress(3, nil)

	if p.CanAdvance() {
		t.Fatalf("unanswered question must gate forward movement")
	}
	if p.Advance() {
		t.Fatalf("Advance must fail while gated")
	}
	if p.Back() {
		t.Fatalf("Back from the first question must fail")
	}

	p.Guess(0, GuessOutcome{IsCorrect: false, CorrectIndex: -1})
	if p.CanAdvance() {
		t.Fatalf("partially wrong question must still gate")
	}

	p.Guess(1, GuessOutcome{IsCorrect: true, CorrectIndex: 1})
	if !p.CanAdvance() {
		t.Fatalf("solved question must open the gate")
	}
	if !p.Advance() {
		t.Fatalf("Advance failed after solving")
	}
	if p.Current != 1 {
		t.Fatalf("Current = %d, want 1", p.Current)
	}

	// Revisiting keeps state.
	if !p.Back() {
		t.Fatalf("Back failed")
	}
	attempt := p.CurrentAttempt()
	if attempt.State != Solved || attempt.CorrectIndex != 1 || len(attempt.WrongGuesses) != 1 {
		t.Fatalf("revisited attempt lost state: %+v", attempt)
	}

	// A solved question lets us move forward again immediately.
	if !p.Advance() {
		t.Fatalf("re-advance failed")
	}
}

func TestProgressAdvanceStopsAtLastQuestion(t *testing.T) {
	p := NewProgress(1, nil)
	p.Guess(0, GuessOutcome{IsCorrect: true, CorrectIndex: 0})
	if p.Advance() {
		t.Fatalf("Advance past the last question must fail")
	}
}

func TestProgressCompleted(t *testing.T) {
	p := NewProgress(2, nil)
	if p.Completed() {
		t.Fatalf("fresh attempt reported completed")
	}

	p.Guess(0, GuessOutcome{IsCorrect: true, CorrectIndex: 0})
	if p.Completed() {
		t.Fatalf("half-done attempt reported completed")
	}

	p.Advance()
	p.Guess(1, GuessOutcome{IsCorrect: true, CorrectIndex: 1})
	if !p.Completed() {
		t.Fatalf("fully solved attempt not reported completed")
	}

	empty := NewProgress(0, nil)
	if empty.Completed() {
		t.Fatalf("zero-question attempt must never complete")
	}
}

func TestProgressTiming(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0), step: 5 * time.Second}
	p := NewProgress(2, clock.now)

	// Clock reads: start=1000 (NewProgress), solve q0 at 1005, advance shows
	// q1 at 1010, solve q1 at 1015, Stats total read at 1020.
	p.Guess(0, GuessOutcome{IsCorrect: true, CorrectIndex: 0})
	p.Advance()
	p.Guess(0, GuessOutcome{IsCorrect: true, CorrectIndex: 0})

	stats := p.Stats()
	if stats.TotalTime != 20 {
		t.Fatalf("TotalTime = %d, want 20", stats.TotalTime)
	}
	if stats.FastestTime != 5 || stats.SlowestTime != 5 || stats.AvgTime != 5 {
		t.Fatalf("per-question stats = %+v, want 5 across the board", stats)
	}
}

func TestProgressBackBanksElapsedTime(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0), step: 5 * time.Second}
	p := NewProgress(2, clock.now)

	// Solve q0 (5s), advance to q1, fail a guess, go back, return and solve.
	// The 5 seconds spent on q1 before going back must count toward its solve
	// time, not be dropped by the re-entry.
	p.Guess(0, GuessOutcome{IsCorrect: true, CorrectIndex: 0})
	p.Advance()
	p.Guess(0, GuessOutcome{IsCorrect: false, CorrectIndex: -1})
	if !p.Back() {
		t.Fatalf("Back failed")
	}
	if !p.Advance() {
		t.Fatalf("re-advance failed")
	}
	p.Guess(1, GuessOutcome{IsCorrect: true, CorrectIndex: 1})

	stats := p.Stats()
	if stats.FastestTime != 5 {
		t.Fatalf("FastestTime = %d, want 5", stats.FastestTime)
	}
	if stats.SlowestTime != 10 {
		t.Fatalf("SlowestTime = %d, want 10: q1 lost its pre-back time", stats.SlowestTime)
	}
	if stats.TotalTime != 35 {
		t.Fatalf("TotalTime = %d, want 35", stats.TotalTime)
	}
	if stats.AvgTime != 7 {
		t.Fatalf("AvgTime = %d, want 7", stats.AvgTime)
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]int{10, 4, 7}, 30)
	want := Stats{TotalTime: 30, AvgTime: 7, FastestTime: 4, SlowestTime: 10}
	if stats != want {
		t.Fatalf("ComputeStats = %+v, want %+v", stats, want)
	}

	empty := ComputeStats(nil, 12)
	if empty != (Stats{TotalTime: 12}) {
		t.Fatalf("empty ComputeStats = %+v", empty)
	}
}
