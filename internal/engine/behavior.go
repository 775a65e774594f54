package engine

// Behavior is a companion input handler that playback switches off while the
// camera is being driven, e.g. an orbit or fly controller.
type Behavior interface {
	Enable()
	Disable()
	Enabled() bool
}

// BehaviorRegistry resolves behaviors by name. The player consults it once,
// at construction.
type BehaviorRegistry interface {
	Behavior(name string) (Behavior, bool)
}

// BehaviorMap is the simplest registry.
type BehaviorMap map[string]Behavior

func (m BehaviorMap) Behavior(name string) (Behavior, bool) {
	b, ok := m[name]
	return b, ok
}

// Toggle is a Behavior that only tracks its flag. The CLI uses it to stand in
// for interactive controllers.
type Toggle struct {
	Name string
	On   bool

	// Changed, when set, is called after every state change.
	Changed func(name string, on bool)
}

// NewToggle creates an enabled toggle.
func NewToggle(name string) *Toggle {
	return &Toggle{Name: name, On: true}
}

func (t *Toggle) Enable()       { t.set(true) }
func (t *Toggle) Disable()      { t.set(false) }
func (t *Toggle) Enabled() bool { return t.On }

func (t *Toggle) set(on bool) {
	if t.On == on {
		return
	}
	t.On = on
	if t.Changed != nil {
		t.Changed(t.Name, on)
	}
}
