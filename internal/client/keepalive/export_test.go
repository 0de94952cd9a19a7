package keepalive

import "time"

// SetClock подменяет источник времени в тестах.
func (k *Keepalive) SetClock(now func() time.Time) {
	k.now = now
}
