package net

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 4096
	pingPeriod     = 30 * time.Second
)

// Session represents a single websocket client. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   string
	conn *websocket.Conn

	InQueue  chan []byte // game loop reads frames from here
	OutQueue chan []byte // writer goroutine reads from here

	IP string

	outBuf [][]byte // buffered frames, flushed by the presenter (game loop only)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// Per-second message rate limiter (readLoop goroutine only, no lock needed)
	msgPerSec  int
	msgCount   int
	msgResetAt int64

	readTimeout  time.Duration
	writeTimeout time.Duration

	log *zap.Logger
}

type sessionOptions struct {
	inSize, outSize int
	msgPerSec       int
	readTimeout     time.Duration
	writeTimeout    time.Duration
}

func newSession(conn *websocket.Conn, id string, ip string, opt sessionOptions, log *zap.Logger) *Session {
	return &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []byte, opt.inSize),
		OutQueue:     make(chan []byte, opt.outSize),
		IP:           ip,
		closeCh:      make(chan struct{}),
		msgPerSec:    opt.msgPerSec,
		readTimeout:  opt.readTimeout,
		writeTimeout: opt.writeTimeout,
		log:          log.With(zap.String("session", id)),
	}
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a frame for sending. Nothing is written until FlushOutput.
// Called only from the game loop goroutine; no lock needed on outBuf.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// FlushOutput drains the output buffer to OutQueue for the writeLoop goroutine.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("output queue full, dropping slow client")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop reads frames from the websocket and pushes them onto InQueue for
// the game loop to consume.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))

		if s.msgPerSec > 0 {
			now := time.Now().Unix()
			if now != s.msgResetAt {
				s.msgCount = 0
				s.msgResetAt = now
			}
			s.msgCount++
			if s.msgCount > s.msgPerSec {
				s.log.Warn("message rate exceeded, disconnecting", zap.Int("mps", s.msgCount))
				return
			}
		}

		// Block until InQueue has space or the session closes. Only this
		// client's reader waits.
		select {
		case s.InQueue <- data:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop writes queued frames and keeps the connection alive with pings.
func (s *Session) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		s.Close()
	}()

	for {
		select {
		case data := <-s.OutQueue:
			if !s.write(websocket.TextMessage, data) {
				return
			}
		case <-ping.C:
			if !s.write(websocket.PingMessage, nil) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) write(kind int, data []byte) bool {
	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := s.conn.WriteMessage(kind, data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
