package signals

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
)

// SocketSource accepts signals over a unix domain socket, one per line:
// "processing", "offline" or "close". It buffers what arrives between polls;
// the buffer is small because a well-behaved sender raises each signal once.
type SocketSource struct {
	path     string
	listener net.Listener
	buf      chan Signal

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSocketSource listens on a unix socket at path, replacing a stale socket
// file left by a previous run.
func NewSocketSource(path string) (*SocketSource, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	s := &SocketSource{
		path:     path,
		listener: ln,
		buf:      make(chan Signal, 16),
		closed:   make(chan struct{}),
	}
	go s.accept()
	return s, nil
}

func (s *SocketSource) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closed:
			default:
				// Accept errors during normal operation just end the
				// transport; the file source keeps working.
			}
			return
		}
		go s.serve(conn)
	}
}

func (s *SocketSource) serve(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var sig Signal
		switch strings.TrimSpace(scanner.Text()) {
		case "processing":
			sig = Processing
		case "offline":
			sig = Offline
		case "close":
			sig = Close
		default:
			continue
		}
		select {
		case s.buf <- sig:
		default:
			// Sender is flooding; drop rather than block the connection.
		}
	}
}

// Poll drains everything buffered since the last call.
func (s *SocketSource) Poll() ([]Signal, error) {
	var out []Signal
	for {
		select {
		case sig := <-s.buf:
			out = append(out, sig)
		default:
			return out, nil
		}
	}
}

// Close shuts the listener and removes the socket file. Idempotent.
func (s *SocketSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.listener.Close()
		os.Remove(s.path)
	})
	return err
}
