package packet

import (
	"fmt"

	"go.uber.org/zap"
)

// HandlerFunc is the callback signature for message handlers. client is the
// session id of the sender.
type HandlerFunc func(client string, r *Reader)

// Registry maps message types to handlers.
type Registry struct {
	handlers map[string]HandlerFunc
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
		log:      log,
	}
}

// Register maps a message type to a handler. Registering a type twice
// replaces the earlier handler.
func (reg *Registry) Register(typ string, fn HandlerFunc) {
	reg.handlers[typ] = fn
}

// Has reports whether a handler exists for typ.
func (reg *Registry) Has(typ string) bool {
	_, ok := reg.handlers[typ]
	return ok
}

// Dispatch calls the handler for env.Type. Unknown types are ignored.
func (reg *Registry) Dispatch(env Envelope) error {
	reg.log.Debug("message received",
		zap.String("type", env.Type),
		zap.String("client", env.Client),
		zap.Int("size", len(env.Payload)),
	)

	fn, ok := reg.handlers[env.Type]
	if !ok {
		reg.log.Debug("unknown message type", zap.String("type", env.Type))
		return nil
	}
	return reg.safeCall(fn, env)
}

// safeCall executes a handler with panic recovery to prevent a single
// bad message from crashing the entire game loop.
func (reg *Registry) safeCall(fn HandlerFunc, env Envelope) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("type", env.Type),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for %s: %v", env.Type, rec)
		}
	}()
	fn(env.Client, NewReader(env.Payload))
	return nil
}
