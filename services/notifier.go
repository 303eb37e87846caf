package services

import "github.com/tasmeeapp/pairing_backend/notifications"

var bus notifications.Bus = notifications.NewMemoryBus()

// UseBus swaps the notification channel the services publish on. Called once
// at startup, before the server accepts requests.
func UseBus(b notifications.Bus) {
	bus = b
}
