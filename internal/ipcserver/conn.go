package ipcserver

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/avhost/playerd/internal/consts"
	"github.com/avhost/playerd/internal/control"
	"github.com/avhost/playerd/internal/logger"
)

// session owns one accepted connection end to end: the control-plane
// client handle, the line framer, and the loop that multiplexes socket
// input against the client's event queue. Exactly one goroutine runs a
// session; nothing else touches its connection or buffer.
type session struct {
	id     int
	conn   net.Conn
	client control.Client
	framer *Framer
	log    *logger.Logger

	writeTimeout time.Duration
	onDone       func()
	done         chan struct{}
}

// newSession registers a control-plane client for the connection. A
// registration failure closes the connection and is reported to the
// caller; other sessions are unaffected.
func newSession(id int, conn net.Conn, plane control.Plane, maxLineBytes int, onDone func()) (*session, error) {
	name := fmt.Sprintf("ipc-%d", id)
	cl, err := plane.NewClient(name)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to register client %s: %w", name, err)
	}
	return &session{
		id:           id,
		conn:         conn,
		client:       cl,
		framer:       NewFramer(maxLineBytes),
		log:          logger.Global().WithPrefix(name),
		writeTimeout: consts.Timeout10Seconds,
		onDone:       onDone,
		done:         make(chan struct{}),
	}, nil
}

// run is the session event loop. It blocks on exactly two readiness
// sources: the control-plane event queue and socket reads, reacting to
// whichever is ready. It returns only after teardown.
func (s *session) run() {
	defer s.teardown()

	s.log.Info("client connected")

	reads := make(chan []byte)
	readErrs := make(chan error, 1)
	go s.readPump(reads, readErrs)

	for {
		select {
		case ev := <-s.client.Events():
			if !s.drainEvents(ev) {
				return
			}

		case buf := <-reads:
			if !s.handleInput(buf) {
				return
			}

		case err := <-readErrs:
			if errors.Is(err, io.EOF) {
				s.log.Info("client disconnected")
			} else if !errors.Is(err, net.ErrClosed) {
				s.log.Error("read error: %v", err)
			}
			return
		}
	}
}

// readPump reads socket chunks and hands them to the session loop. The
// unbuffered channel means no further read is issued while a command
// dispatch is outstanding, so replies stay strictly in request order.
func (s *session) readPump(reads chan<- []byte, readErrs chan<- error) {
	for {
		buf := make([]byte, consts.ReadChunkSize)
		n, err := s.conn.Read(buf)
		if n > 0 {
			select {
			case reads <- buf[:n]:
			case <-s.done:
				return
			}
		}
		if err != nil {
			select {
			case readErrs <- err:
			case <-s.done:
			}
			return
		}
	}
}

// drainEvents handles one received event, then keeps pulling queued
// events without blocking until none remain. A shutdown event, or a
// failed event write, ends the session.
func (s *session) drainEvents(ev control.Event) bool {
	for {
		if ev.Name == control.EventShutdown {
			s.log.Info("shutdown requested")
			return false
		}
		if err := s.write(encodeEvent(ev)); err != nil {
			s.log.Error("event write error: %v", err)
			return false
		}

		select {
		case next, ok := <-s.client.Events():
			if !ok {
				return false
			}
			ev = next
		default:
			return true
		}
	}
}

// handleInput feeds received bytes to the framer and processes every
// complete line: decode, dispatch, reply, in order, before looking at
// further input.
func (s *session) handleInput(buf []byte) bool {
	s.framer.Feed(buf)

	for {
		line, ok := s.framer.Next()
		if !ok {
			break
		}
		if err := s.write(executeLine(s.client, line)); err != nil {
			s.log.Error("reply write error: %v", err)
			return false
		}
	}

	if s.framer.Overflowed() {
		s.log.Error("request line exceeds %d bytes, dropping connection", s.framer.max)
		return false
	}
	return true
}

// write sends one complete line. net.Conn.Write already resumes short
// writes internally; the deadline bounds a peer that stops reading.
func (s *session) write(line []byte) error {
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := s.conn.Write(line)
	return err
}

// teardown closes the socket and deregisters the control-plane client.
// The session is unreachable afterwards.
func (s *session) teardown() {
	close(s.done)
	s.conn.Close()
	s.client.Close()
	if s.onDone != nil {
		s.onDone()
	}
	s.log.Debug("session finished")
}
