// Package systemd reports service state to the service manager over the notify socket.
// Every call is a no-op when the process was not started by systemd.
package systemd

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/sirupsen/logrus"
)

// Ready tells systemd that startup finished (Type=notify units).
func Ready(logger *logrus.Entry) error {
	return notify(daemon.SdNotifyReady, logger)
}

// Stopping tells systemd that shutdown has begun.
func Stopping(logger *logrus.Entry) error {
	return notify(daemon.SdNotifyStopping, logger)
}

func notify(state string, logger *logrus.Entry) error {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		return fmt.Errorf("sd_notify %s: %w", state, err)
	}
	if sent {
		logger.WithField("state", state).Debug("Notified systemd")
	}
	return nil
}
