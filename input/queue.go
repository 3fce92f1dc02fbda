package input

// Queue buffers events between platform polls. Events are drained in the
// order they were pushed. It is not safe for concurrent use; GLFW delivers
// callbacks on the thread that calls PollEvents.
type Queue struct {
	events []Event
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Drain returns all pending events and empties the queue.
func (q *Queue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}
