package rotary

import "sync"

// edgeQueue funnels edge notifications from any number of goroutines into a
// single goroutine that runs isr. Drivers that call their handlers on a fresh
// goroutine per edge use it to keep one writer per decoder.
type edgeQueue struct {
	isr  func()
	ch   chan struct{}
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newEdgeQueue(isr func()) *edgeQueue {
	q := &edgeQueue{
		isr:  isr,
		ch:   make(chan struct{}, 16),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *edgeQueue) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			return
		case <-q.ch:
			q.isr()
		}
	}
}

// notify queues one edge. It blocks while the queue is full and returns
// without queuing once the queue is closed.
func (q *edgeQueue) notify() {
	select {
	case <-q.done:
	case q.ch <- struct{}{}:
	}
}

// close stops delivery and waits for a running isr to return.
func (q *edgeQueue) close() {
	q.once.Do(func() { close(q.done) })
	q.wg.Wait()
}
