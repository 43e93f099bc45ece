package player

import "time"

// QuestionState tracks one question through an attempt.
//
//	Unanswered -> PartiallyWrong -> Solved
//
// Solved is terminal; PartiallyWrong accumulates wrong guesses, each of which
// is permanently disabled for re-selection.
type QuestionState int

const (
	Unanswered QuestionState = iota
	PartiallyWrong
	Solved
)

func (s QuestionState) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case PartiallyWrong:
		return "partially_wrong"
	case Solved:
		return "solved"
	default:
		return "unknown"
	}
}

// Attempt is the per-question state. CorrectIndex stays -1 until the question
// is solved, mirroring the server which only discloses the correct option on
// a correct guess.
type Attempt struct {
	State        QuestionState
	WrongGuesses []int
	CorrectIndex int
}

func NewAttempt() Attempt {
	return Attempt{State: Unanswered, CorrectIndex: -1}
}

// Tried reports whether the option was already guessed wrong.
func (a Attempt) Tried(option int) bool {
	for _, guess := range a.WrongGuesses {
		if guess == option {
			return true
		}
	}
	return false
}

// CanGuess reports whether the option is still clickable: the question is not
// solved and the option has not already failed.
func (a Attempt) CanGuess(option int) bool {
	return a.State != Solved && !a.Tried(option)
}

// GuessOutcome is the server's verdict on one guess.
type GuessOutcome struct {
	IsCorrect    bool
	CorrectIndex int
}

// Reduce is the pure transition function. Guesses against a solved question
// or a previously failed option leave the state unchanged.
func Reduce(a Attempt, option int, outcome GuessOutcome) Attempt {
	if !a.CanGuess(option) {
		return a
	}

	if outcome.IsCorrect {
		a.State = Solved
		a.CorrectIndex = option
		if outcome.CorrectIndex >= 0 {
			a.CorrectIndex = outcome.CorrectIndex
		}
		return a
	}

	a.State = PartiallyWrong
	a.WrongGuesses = append(append([]int(nil), a.WrongGuesses...), option)
	return a
}

// Progress drives a whole attempt: one Attempt per question, the current
// position, and per-question solve times. Navigation backward is always
// allowed; forward movement is gated on the current question being solved.
type Progress struct {
	Attempts []Attempt
	Current  int

	startedAt  time.Time
	shownAt    time.Time
	elapsed    []time.Duration
	solveTimes []int
	now        func() time.Time
}

// NewProgress starts an attempt over n questions. The clock may be nil
// outside of tests.
func NewProgress(n int, now func() time.Time) *Progress {
	if now == nil {
		now = time.Now
	}

	attempts := make([]Attempt, n)
	for idx := range attempts {
		attempts[idx] = NewAttempt()
	}

	start := now()
	return &Progress{
		Attempts:   attempts,
		startedAt:  start,
		shownAt:    start,
		elapsed:    make([]time.Duration, n),
		solveTimes: make([]int, n),
		now:        now,
	}
}

// Guess applies the server verdict to the current question. The moment a
// question transitions to Solved its solve time is captured, including any
// time banked on earlier visits.
func (p *Progress) Guess(option int, outcome GuessOutcome) {
	before := p.Attempts[p.Current]
	after := Reduce(before, option, outcome)
	p.Attempts[p.Current] = after

	if before.State != Solved && after.State == Solved {
		p.solveTimes[p.Current] = int((p.elapsed[p.Current] + p.now().Sub(p.shownAt)).Seconds())
	}
}

func (p *Progress) CurrentAttempt() Attempt {
	return p.Attempts[p.Current]
}

// CanAdvance is the forward-navigation gate.
func (p *Progress) CanAdvance() bool {
	return p.Attempts[p.Current].State == Solved
}

// Advance moves to the next question and restarts its visible clock. Time an
// unsolved question accrued on an earlier visit stays banked in elapsed, so
// re-entering resumes its count rather than restarting it.
func (p *Progress) Advance() bool {
	if !p.CanAdvance() || p.Current >= len(p.Attempts)-1 {
		return false
	}
	p.Current++
	p.shownAt = p.now()
	return true
}

// Back moves to any earlier question; revisiting never loses state. Leaving
// an unsolved question banks its elapsed time first.
func (p *Progress) Back() bool {
	if p.Current == 0 {
		return false
	}
	if p.Attempts[p.Current].State != Solved {
		p.elapsed[p.Current] += p.now().Sub(p.shownAt)
	}
	p.Current--
	p.shownAt = p.now()
	return true
}

// Completed reports whether every question is solved.
func (p *Progress) Completed() bool {
	for _, attempt := range p.Attempts {
		if attempt.State != Solved {
			return false
		}
	}
	return len(p.Attempts) > 0
}

// Stats summarizes the finished attempt.
func (p *Progress) Stats() Stats {
	total := int(p.now().Sub(p.startedAt).Seconds())
	return ComputeStats(p.solveTimes, total)
}
