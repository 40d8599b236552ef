package scrollspy

import (
	"context"
	"time"
)

// Watch feeds snapshots from events into t until ctx is done or events is
// closed. Snapshots are debounced: only the last one of a burst is observed,
// once debounce has passed without a newer one. onChange runs on this
// goroutine whenever the active id changes.
//
// A pending snapshot is observed before returning when events is closed.
func Watch(ctx context.Context, t *Tracker, events <-chan Snapshot, debounce time.Duration, onChange func(id string)) {
	var (
		pending Snapshot
		have    bool
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	observe := func() {
		if !have {
			return
		}
		have = false
		if id, changed := t.Observe(pending); changed && onChange != nil {
			onChange(id)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-events:
			if !ok {
				observe()
				return
			}
			pending, have = s, true
			if debounce <= 0 {
				observe()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case <-fire:
			observe()
		}
	}
}
