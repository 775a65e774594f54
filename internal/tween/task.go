package tween

// State is a task lifecycle stage.
type State int

const (
	Pending State = iota
	Active
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Task is one time-bounded interpolation. It moves Pending -> Active on its
// first advance and ends Completed or Cancelled; both are terminal.
//
// OnUpdate receives eased progress. The last update of a completing task is
// always exactly 1, and OnComplete runs after it.
type Task struct {
	Name     string
	Duration float64 // seconds
	Ease     Func

	OnStart    func()
	OnUpdate   func(t float64)
	OnComplete func()

	state   State
	elapsed float64
}

// State returns the lifecycle stage.
func (t *Task) State() State {
	return t.state
}

// Elapsed returns the time consumed so far.
func (t *Task) Elapsed() float64 {
	return t.elapsed
}

// Done reports whether the task reached a terminal state.
func (t *Task) Done() bool {
	return t.state == Completed || t.state == Cancelled
}

// Start activates a pending task. Calling it in any other state does nothing.
func (t *Task) Start() {
	if t.state != Pending {
		return
	}
	t.state = Active
	if t.OnStart != nil {
		t.OnStart()
	}
}

// Advance moves the task forward by dt seconds and returns the part of dt
// left over after completion. A task with no positive duration completes on
// its first advance. Advancing a finished task returns dt untouched.
func (t *Task) Advance(dt float64) float64 {
	if t.state == Pending {
		t.Start()
	}
	if t.state != Active {
		return dt
	}
	if dt < 0 {
		dt = 0
	}

	t.elapsed += dt
	if t.Duration <= 0 || t.elapsed >= t.Duration {
		leftover := 0.0
		if t.Duration > 0 {
			leftover = t.elapsed - t.Duration
			t.elapsed = t.Duration
		} else {
			leftover = dt
			t.elapsed = 0
		}

		t.update(1)
		if t.state != Active {
			// cancelled from inside the update
			return 0
		}
		t.state = Completed
		if t.OnComplete != nil {
			t.OnComplete()
		}
		return leftover
	}

	ease := t.Ease
	if ease == nil {
		ease = Linear
	}
	t.update(ease(t.elapsed / t.Duration))
	return 0
}

// Cancel stops the task without running any further callbacks.
func (t *Task) Cancel() {
	if t.Done() {
		return
	}
	t.state = Cancelled
}

func (t *Task) update(progress float64) {
	if t.OnUpdate != nil {
		t.OnUpdate(progress)
	}
}
