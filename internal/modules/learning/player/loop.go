package player

import "sync"

// loop serializes every state change of one playback session. Work queued
// with enqueue while the lock is held is handed to spawn after unlock, so
// collaborator calls never run under the lock.
type loop struct {
	mu    sync.Mutex
	jobs  []func()
	spawn func(func())
}

func newLoop(spawn func(func())) *loop {
	if spawn == nil {
		spawn = func(f func()) { go f() }
	}
	return &loop{spawn: spawn}
}

func (l *loop) do(fn func()) {
	l.mu.Lock()
	fn()
	jobs := l.jobs
	l.jobs = nil
	l.mu.Unlock()
	for _, j := range jobs {
		l.spawn(j)
	}
}

// enqueue must be called with l.mu held.
func (l *loop) enqueue(job func()) {
	l.jobs = append(l.jobs, job)
}
