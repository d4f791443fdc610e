package net

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/restotycoon/server/internal/config"
	"go.uber.org/zap"
)

// Server accepts websocket clients and creates Sessions. New and dead
// sessions are communicated to the game loop via channels.
type Server struct {
	listener net.Listener
	http     *http.Server
	upgrader websocket.Upgrader
	newConns chan *Session
	deadCh   chan string // ids of dead sessions
	opt      sessionOptions
	log      *zap.Logger
}

func NewServer(cfg config.NetworkConfig, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.BindAddress)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: ln,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		newConns: make(chan *Session, 64),
		deadCh:   make(chan string, 64),
		opt: sessionOptions{
			inSize:       cfg.InQueueSize,
			outSize:      cfg.OutQueueSize,
			msgPerSec:    cfg.MessagesPerSecond,
			readTimeout:  cfg.ReadTimeout,
			writeTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", handleHealth)
	s.http = &http.Server{Handler: mux}
	return s, nil
}

// Serve runs in its own goroutine until Shutdown.
func (s *Server) Serve() {
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("http server stopped", zap.Error(err))
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleWS upgrades the request and hands the session to the game loop.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	sess := newSession(conn, uuid.NewString(), r.RemoteAddr, s.opt, s.log)
	sess.Start()

	select {
	case s.newConns <- sess:
		s.log.Info("client connected", zap.String("session", sess.ID), zap.String("ip", sess.IP))
	default:
		s.log.Warn("connection queue full, rejecting client")
		sess.Close()
	}
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// NotifyDead reports a dead session id to the game loop.
func (s *Server) NotifyDead(id string) {
	select {
	case s.deadCh <- id:
	default:
	}
}

// DeadSessions returns the channel of dead session ids.
func (s *Server) DeadSessions() <-chan string {
	return s.deadCh
}

// Shutdown stops accepting clients and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
