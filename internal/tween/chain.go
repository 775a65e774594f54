package tween

// Chain plays tasks strictly one after another. Time left over when a task
// completes flows into the next one within the same tick, so frame rate does
// not change where a chain is at a given moment.
type Chain struct {
	// OnFinish runs once after the last task completes.
	OnFinish func()

	tasks   []*Task
	current int
	state   State
}

// NewChain creates a pending chain over tasks.
func NewChain(tasks ...*Task) *Chain {
	return &Chain{tasks: tasks}
}

// Add appends tasks to a chain that has not finished.
func (c *Chain) Add(tasks ...*Task) {
	if c.state == Completed || c.state == Cancelled {
		return
	}
	c.tasks = append(c.tasks, tasks...)
}

// Len returns the number of tasks.
func (c *Chain) Len() int {
	return len(c.tasks)
}

// Tasks returns the chained tasks in order.
func (c *Chain) Tasks() []*Task {
	return c.tasks
}

// State returns the chain lifecycle stage.
func (c *Chain) State() State {
	return c.state
}

// Current returns the task being played, or nil when none is.
func (c *Chain) Current() *Task {
	if c.state != Active || c.current >= len(c.tasks) {
		return nil
	}
	return c.tasks[c.current]
}

// Start activates the chain and its first task. An empty chain finishes
// immediately.
func (c *Chain) Start() {
	if c.state != Pending {
		return
	}
	c.state = Active
	if len(c.tasks) == 0 {
		c.finish()
		return
	}
	c.Tick(0)
}

// Tick advances the chain by dt seconds.
func (c *Chain) Tick(dt float64) {
	for c.state == Active && c.current < len(c.tasks) {
		task := c.tasks[c.current]
		leftover := task.Advance(dt)

		if c.state != Active {
			// a callback cancelled the chain
			return
		}
		if task.State() == Cancelled {
			c.Cancel()
			return
		}
		if task.State() != Completed {
			return
		}

		c.current++
		dt = leftover
	}

	if c.state == Active && c.current >= len(c.tasks) {
		c.finish()
	}
}

// Cancel cancels every pending and active task. No callback of this chain
// runs after Cancel returns.
func (c *Chain) Cancel() {
	if c.state == Completed || c.state == Cancelled {
		return
	}
	c.state = Cancelled
	for _, task := range c.tasks[c.current:] {
		task.Cancel()
	}
}

func (c *Chain) finish() {
	c.state = Completed
	if c.OnFinish != nil {
		c.OnFinish()
	}
}
