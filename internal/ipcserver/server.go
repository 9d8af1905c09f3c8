package ipcserver

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/avhost/playerd/internal/config"
	"github.com/avhost/playerd/internal/control"
	"github.com/avhost/playerd/internal/logger"
	"github.com/avhost/playerd/internal/socketutil"
)

// Server owns the listening socket and spawns one session per accepted
// connection. Sessions run detached: stopping the server closes the
// listener but leaves live sessions running until the control-plane
// delivers their shutdown event.
type Server struct {
	cfg   *config.Config
	plane control.Plane
	log   *logger.Logger

	listener   net.Listener
	socketPath string

	mu      sync.Mutex
	running bool
	active  int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates an IPC server bound to the given control-plane.
func New(cfg *config.Config, plane control.Plane) *Server {
	return &Server{
		cfg:   cfg,
		plane: plane,
		log:   logger.Global().WithPrefix("ipc"),
		done:  make(chan struct{}),
	}
}

// Start binds the configured socket path and starts the accept loop. A
// bind failure disables the IPC subsystem; the caller decides whether
// that is fatal (for this daemon, it is not).
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("ipc server is already running")
	}
	s.running = true
	s.mu.Unlock()

	path, err := socketutil.ExpandPath(s.cfg.Socket.GetSocketPath())
	if err != nil {
		return fmt.Errorf("failed to resolve socket path: %w", err)
	}
	if path == "" {
		return fmt.Errorf("socket path is not configured")
	}

	// A leftover socket file from a previous run is removed only after
	// probing that no live server answers on it.
	if err := socketutil.RemoveIfStale(path); err != nil {
		return fmt.Errorf("socket path unavailable: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", path, err)
	}
	s.listener = listener
	s.socketPath = path

	if s.cfg.Socket.Permissions != "" {
		if err := os.Chmod(path, config.ParseFileMode(s.cfg.Socket.Permissions)); err != nil {
			s.log.Warn("failed to set socket permissions: %v", err)
		}
	}

	go s.acceptLoop()

	s.log.Info("listening on %s", path)
	return nil
}

// acceptLoop accepts connections until the listener closes. Per the
// subsystem contract an accept failure is fatal to the listener only:
// already-running sessions are unaffected.
func (s *Server) acceptLoop() {
	defer close(s.done)

	for id := 0; ; id++ {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.log.Info("listener closed")
			} else {
				s.log.Error("accept failed, disabling IPC: %v", err)
			}
			return
		}

		if !s.reserveSlot() {
			s.log.Warn("connection limit (%d) reached, rejecting client", s.cfg.Socket.MaxConnections)
			conn.Close()
			id--
			continue
		}

		logPeerCredentials(s.log, conn, id)

		sess, err := newSession(id, conn, s.plane, s.cfg.Socket.MaxLineBytes, s.releaseSlot)
		if err != nil {
			s.log.Error("%v", err)
			s.releaseSlot()
			continue
		}
		go sess.run()
	}
}

func (s *Server) reserveSlot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max := s.cfg.Socket.MaxConnections; max > 0 && s.active >= max {
		return false
	}
	s.active++
	return true
}

func (s *Server) releaseSlot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active > 0 {
		s.active--
	}
}

// ActiveSessions returns the number of sessions not yet torn down.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Stop closes the listener, waits for the accept loop to exit and
// removes the socket file. It does not touch live sessions.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.listener == nil {
			return
		}
		if err := s.listener.Close(); err != nil {
			s.log.Error("error closing listener: %v", err)
		}
		<-s.done

		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove socket file %s: %v", s.socketPath, err)
		}

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		s.log.Info("ipc server stopped")
	})
}
