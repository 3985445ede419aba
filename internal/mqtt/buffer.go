package mqtt

import "log"

// pendingMsg is a serialized message held while the broker is unreachable.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a fixed-capacity FIFO for messages produced while
// disconnected. When full it drops the oldest message: stale telemetry
// is worthless once newer snapshots exist.
// Not safe for concurrent use — the publisher synchronizes access.
type outbox struct {
	msgs    []pendingMsg
	cap     int
	next    int // next write position
	n       int
	dropped int // messages dropped since the last drain
}

func newOutbox(capacity int) *outbox {
	return &outbox{
		msgs: make([]pendingMsg, capacity),
		cap:  capacity,
	}
}

func (o *outbox) push(m pendingMsg) {
	if o.n == o.cap {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.cap)
		}
		o.dropped++
		// next already points at the oldest slot; overwrite it.
		o.msgs[o.next] = m
		o.next = (o.next + 1) % o.cap
		return
	}
	o.msgs[o.next] = m
	o.next = (o.next + 1) % o.cap
	o.n++
}

// drain returns the buffered messages oldest-first and empties the outbox.
func (o *outbox) drain() []pendingMsg {
	if o.n == 0 {
		return nil
	}
	out := make([]pendingMsg, o.n)
	oldest := (o.next - o.n + o.cap) % o.cap
	for i := 0; i < o.n; i++ {
		out[i] = o.msgs[(oldest+i)%o.cap]
	}
	o.n = 0
	o.next = 0
	o.dropped = 0
	return out
}

func (o *outbox) len() int {
	return o.n
}
