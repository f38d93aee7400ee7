package exam

// Integrity signals the exam page reports. They are hints, not proof: a
// window manager stealing focus looks exactly like a student switching tabs.
const (
	SignalVisibility     = "visibility"
	SignalBlur           = "blur"
	SignalFullscreenExit = "fullscreen-exit"
	SignalDevtools       = "devtools"
)

var knownSignals = map[string]bool{
	SignalVisibility:     true,
	SignalBlur:           true,
	SignalFullscreenExit: true,
	SignalDevtools:       true,
}

func KnownSignal(reason string) bool {
	return knownSignals[reason]
}
