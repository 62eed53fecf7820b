package centronic

// CommandSentEvent reports a command delivered to one unit.
type CommandSentEvent struct {
	Unit    int
	Channel int
	Command string
	Frames  int
	DryRun  bool
}

// CommandFailedEvent reports a command that failed for one unit.
// Frames counts the frames written before the failure.
type CommandFailedEvent struct {
	Unit    int
	Channel int
	Command string
	Frames  int
	Error   error
}

// EventHandler receives command outcomes.
// Events are called synchronously from the sending goroutine.
type EventHandler interface {
	OnCommandSent(event CommandSentEvent)
	OnCommandFailed(event CommandFailedEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnCommandSent(CommandSentEvent)     {}
func (BaseEventHandler) OnCommandFailed(CommandFailedEvent) {}
