package event

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	panicHandler PanicHandler
	errorHandler func(event any, err error)
}

// WithBusPanicHandler sets the panic handler for the bus.
func WithBusPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithErrorHandler sets a callback for handler errors.
func WithErrorHandler(h func(event any, err error)) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}
