//go:build linux

package ipcserver

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/avhost/playerd/internal/logger"
)

// logPeerCredentials logs the pid and uid of the connecting peer via
// SO_PEERCRED. Failures are quietly ignored: credentials are diagnostic
// only and never gate the connection.
func logPeerCredentials(log *logger.Logger, conn net.Conn, id int) {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return
	}

	var cred *unix.Ucred
	ctrlErr := raw.Control(func(fd uintptr) {
		cred, err = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if ctrlErr != nil || err != nil || cred == nil {
		return
	}
	log.Info("accepted ipc-%d (pid=%d uid=%d)", id, cred.Pid, cred.Uid)
}
