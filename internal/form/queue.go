package form

// TaskQueue is a single-threaded FIFO of deferred steps. The form schedules
// validation here so the input echo is never blocked waiting for it: accept
// the text synchronously, validate on the next drain. Not safe for
// concurrent use; the form and its queue live on one goroutine.
type TaskQueue struct {
	tasks []func()
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// Schedule enqueues a step to run on the next drain.
func (q *TaskQueue) Schedule(task func()) {
	q.tasks = append(q.tasks, task)
}

// Drain runs queued steps in FIFO order until the queue is empty. Steps
// scheduled while draining run in the same drain.
func (q *TaskQueue) Drain() {
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		task()
	}
}

// Len returns the number of steps still queued.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}
