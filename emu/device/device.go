package device

// Interface for simulated units that schedule events and need orderly
// startup and shutdown from the simulation core.
type Device interface {
	InitDev() error
	Shutdown()
}
