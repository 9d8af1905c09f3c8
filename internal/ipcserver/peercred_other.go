//go:build !linux

package ipcserver

import (
	"net"

	"github.com/avhost/playerd/internal/logger"
)

func logPeerCredentials(log *logger.Logger, conn net.Conn, id int) {
	log.Info("accepted ipc-%d", id)
}
