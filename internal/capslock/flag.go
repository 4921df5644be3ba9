// Package capslock tracks the caps-lock modifier reported by a page and
// tells the page when to mount its input-blocking overlay.
package capslock

import "sync"

// Flag is an observable boolean scoped to one application instance.
type Flag struct {
	mu     sync.Mutex
	on     bool
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(bool)
}

// Set updates the flag. Subscribers run synchronously, in subscription
// order, and only when the value changes.
func (f *Flag) Set(on bool) {
	f.mu.Lock()
	if f.on == on {
		f.mu.Unlock()
		return
	}
	f.on = on
	subs := make([]subscriber, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(on)
	}
}

// On returns the current value.
func (f *Flag) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

// Subscribe registers fn for changes and returns the matching
// unsubscribe function. Calling it more than once is harmless.
func (f *Flag) Subscribe(fn func(bool)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, s := range f.subs {
				if s.id == id {
					f.subs = append(f.subs[:i], f.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (f *Flag) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
