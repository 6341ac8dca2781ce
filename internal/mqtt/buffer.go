package mqtt

import "log"

// queuedMsg is one serialized publication held back while the broker is
// unreachable.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer keeps held-back publications in arrival order up to a fixed
// capacity; past that the oldest entry is overwritten. The publisher's
// mutex guards all access.
type ringBuffer struct {
	buf     []queuedMsg
	tail    int // index of the oldest entry
	count   int
	dropped bool // a message was dropped since the last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]queuedMsg, capacity)}
}

func (r *ringBuffer) push(msg queuedMsg) {
	if r.count == len(r.buf) {
		if !r.dropped {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", len(r.buf))
			r.dropped = true
		}
		// The slot holding the oldest entry takes the new message and
		// becomes the newest; the entry after it is now the oldest.
		r.buf[r.tail] = msg
		r.tail = (r.tail + 1) % len(r.buf)
		return
	}
	r.buf[(r.tail+r.count)%len(r.buf)] = msg
	r.count++
}

func (r *ringBuffer) drainAll() []queuedMsg {
	if r.count == 0 {
		return nil
	}

	out := make([]queuedMsg, r.count)
	for i := range out {
		out[i] = r.buf[(r.tail+i)%len(r.buf)]
	}

	r.tail = 0
	r.count = 0
	r.dropped = false
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}
