package application

import "sync"

// serialQueue runs tasks one at a time in submission order. A task submitted
// while another runs, from any goroutine or from inside the running task, is
// appended and run by the goroutine already draining the queue.
type serialQueue struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
}

func (q *serialQueue) Do(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	for len(q.tasks) > 0 {
		next := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		next()
		q.mu.Lock()
	}
	q.running = false
	q.mu.Unlock()
}

// Run submits task and waits for it. It must not be called from inside a
// task.
func (q *serialQueue) Run(task func()) {
	done := make(chan struct{})
	q.Do(func() {
		defer close(done)
		task()
	})
	<-done
}
