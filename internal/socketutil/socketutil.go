// Package socketutil provides shared helpers for locating and probing
// the control socket.
package socketutil

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avhost/playerd/internal/consts"
	"github.com/avhost/playerd/internal/logger"
)

// ProbeTimeout bounds the liveness check against an existing socket.
const ProbeTimeout = consts.Timeout1Second

// ExpandPath resolves a socket path for use: ~ expands to the home
// directory. Abstract-namespace names (leading @) pass through
// untouched.
func ExpandPath(path string) (string, error) {
	if path == "" || strings.HasPrefix(path, "@") {
		return path, nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// ServerAlive reports whether a server currently answers on the socket.
func ServerAlive(path string) bool {
	conn, err := net.DialTimeout("unix", path, ProbeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// RemoveIfStale removes a leftover socket file so the path can be
// rebound. It refuses when another server still answers on it, or when
// the path exists but is not a socket.
func RemoveIfStale(path string) error {
	if path == "" || strings.HasPrefix(path, "@") {
		return nil
	}

	stat, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if stat.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}
	if ServerAlive(path) {
		return fmt.Errorf("%s is in use by a running server", path)
	}

	logger.Debug("removing stale socket %s", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket %s: %w", path, err)
	}
	return nil
}

// WaitForSocket blocks until a server answers on path or the deadline
// passes. Client tools use it to ride out daemon startup.
func WaitForSocket(path string, deadline time.Duration) bool {
	end := time.Now().Add(deadline)
	for {
		if ServerAlive(path) {
			return true
		}
		if time.Now().After(end) {
			return false
		}
		time.Sleep(50 * time.Millisecond)
	}
}
