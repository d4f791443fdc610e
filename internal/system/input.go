package system

import (
	"time"

	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/net"
	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// SessionSource is the connection side of the transport. *net.Server
// implements it.
type SessionSource interface {
	NewSessions() <-chan *net.Session
	DeadSessions() <-chan string
	NotifyDead(id string)
}

// InputSystem accepts new sessions, drops dead ones and drains each
// session's inbound frames through the codec and message registry.
// Runs while paused. Phase 0 (Input).
type InputSystem struct {
	netServer  SessionSource
	registry   *packet.Registry
	codec      *packet.Codec
	store      *net.SessionStore
	maxPerTick int
	ws         *world.State
	log        *zap.Logger
}

func NewInputSystem(
	netServer SessionSource,
	registry *packet.Registry,
	codec *packet.Codec,
	store *net.SessionStore,
	maxPerTick int,
	ws *world.State,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		netServer:  netServer,
		registry:   registry,
		codec:      codec,
		store:      store,
		maxPerTick: maxPerTick,
		ws:         ws,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.acceptSessions()

	for _, sess := range s.store.Snapshot() {
		s.drain(sess)
		if sess.IsClosed() {
			s.netServer.NotifyDead(sess.ID)
			s.store.Remove(sess.ID)
			s.log.Info("client disconnected", zap.String("session", sess.ID))
		}
	}
}

func (s *InputSystem) acceptSessions() {
	for {
		select {
		case sess := <-s.netServer.NewSessions():
			s.store.Add(sess)
			// a new viewer needs a full frame even while paused
			s.ws.Dirty = true
		case id := <-s.netServer.DeadSessions():
			s.store.Remove(id)
		default:
			return
		}
	}
}

// drain processes up to maxPerTick frames from one session. Frames still
// queued when a session closes are processed before it is dropped.
func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			s.handle(sess, data)
		default:
			return
		}
	}
}

func (s *InputSystem) handle(sess *net.Session, data []byte) {
	env, err := s.codec.Decode(data)
	if err != nil {
		s.log.Debug("rejected client message", zap.String("session", sess.ID), zap.Error(err))
		if reply, encErr := packet.Encode(packet.TypeError, packet.ErrorPayload{Message: err.Error()}); encErr == nil {
			sess.Send(reply)
			sess.FlushOutput()
		}
		return
	}
	env.Client = sess.ID
	if err := s.registry.Dispatch(env); err != nil {
		s.log.Debug("message dispatch error", zap.String("session", sess.ID), zap.Error(err))
	}
}
