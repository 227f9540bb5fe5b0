package form

import "testing"

func TestTaskQueue_DrainRunsInOrder(t *testing.T) {
	q := NewTaskQueue()

	var order []int
	q.Schedule(func() { order = append(order, 1) })
	q.Schedule(func() { order = append(order, 2) })

	if len(order) != 0 {
		t.Fatal("Expected tasks deferred until drain")
	}

	q.Drain()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Expected FIFO order, got %v", order)
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue after drain, got %d", q.Len())
	}
}

func TestTaskQueue_NestedSchedule(t *testing.T) {
	q := NewTaskQueue()

	var order []int
	q.Schedule(func() {
		order = append(order, 1)
		q.Schedule(func() { order = append(order, 2) })
	})

	// A task scheduled mid-drain runs in the same drain.
	q.Drain()
	if len(order) != 2 || order[1] != 2 {
		t.Errorf("Expected nested task drained, got %v", order)
	}
}
