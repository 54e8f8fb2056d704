package session

import "sync"

// Channel broadcasts session state and replays the most recent value to
// late subscribers. Each subscriber owns a one-slot mailbox: a consumer
// that falls behind observes the latest value, never a backlog, and values
// it does observe arrive in publish order.
type Channel struct {
	mu      sync.Mutex
	current State
	primed  bool
	subs    map[int]*subscriber
	nextID  int
}

type subscriber struct {
	slot chan State
	out  chan State
	done chan struct{}
}

// NewChannel returns a channel with no current value.
func NewChannel() *Channel {
	return &Channel{subs: map[int]*subscriber{}}
}

// Publish records state as the current value and offers it to every
// subscriber mailbox. It never blocks.
func (c *Channel) Publish(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = state
	c.primed = true

	for _, sub := range c.subs {
		sub.offer(state)
	}
}

// Current returns the most recent published value, if any.
func (c *Channel) Current() (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.primed
}

// Subscribe registers a new subscriber. The returned channel yields the
// current value first, when one exists, followed by subsequent publishes.
// The cancel func releases the subscription and closes the channel.
func (c *Channel) Subscribe() (<-chan State, func()) {
	c.mu.Lock()

	sub := &subscriber{
		slot: make(chan State, 1),
		out:  make(chan State),
		done: make(chan struct{}),
	}
	if c.primed {
		sub.slot <- c.current
	}

	id := c.nextID
	c.nextID++
	c.subs[id] = sub

	c.mu.Unlock()

	go sub.run()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub.done)
		}
		c.mu.Unlock()
	}

	return sub.out, cancel
}

// offer places state in the mailbox, displacing an undelivered value. Only
// the publisher writes to slot, so the retry loop settles immediately.
func (s *subscriber) offer(state State) {
	for {
		select {
		case s.slot <- state:
			return
		default:
		}
		select {
		case <-s.slot:
		default:
		}
	}
}

func (s *subscriber) run() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case state := <-s.slot:
			select {
			case s.out <- state:
			case <-s.done:
				return
			}
		}
	}
}

var _ StateChannel = (*Channel)(nil)
