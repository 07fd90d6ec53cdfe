package browser

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a pending callback scheduled with AfterFunc.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// FrameID identifies an animation frame request.
type FrameID uint64

// Scheduler runs deferred work for a page: timeouts and animation frames.
// Callbacks never run concurrently with each other or with the caller's
// event handling.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// DefaultFrameInterval is the animation frame period used by LoopScheduler.
const DefaultFrameInterval = 16 * time.Millisecond

type frameRequest struct {
	id FrameID
	fn func()
}

// LoopScheduler schedules work onto an event loop through post. Timers use
// the runtime clock; frame requests are batched and flushed once per frame
// interval.
type LoopScheduler struct {
	post     func(func())
	interval time.Duration

	mu     sync.Mutex
	frames []frameRequest
	nextID FrameID
	armed  bool
	closed bool
}

// NewLoopScheduler creates a scheduler that hands callbacks to post, which
// must run them on the owning event loop. post may block but must not drop
// a callback: a lost frame callback leaves the scheduler armed and no
// further frames run.
func NewLoopScheduler(post func(func()), frameInterval time.Duration) *LoopScheduler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &LoopScheduler{post: post, interval: frameInterval}
}

type loopTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.done.CompareAndSwap(false, true)
}

// AfterFunc schedules fn to run on the loop after d. Stopping the timer on
// the loop reliably prevents fn from running, even if the runtime timer has
// already fired and the callback is queued.
func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		s.post(func() {
			if t.done.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// RequestFrame queues fn for the next frame.
func (s *LoopScheduler) RequestFrame(fn func()) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.frames = append(s.frames, frameRequest{id: id, fn: fn})
	if !s.armed && !s.closed {
		s.armed = true
		time.AfterFunc(s.interval, func() { s.post(s.runFrame) })
	}
	return id
}

// CancelFrame drops a queued frame request.
func (s *LoopScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.frames {
		if f.id == id {
			s.frames = append(s.frames[:i:i], s.frames[i+1:]...)
			return
		}
	}
}

// Close stops frame delivery. Pending timers still post but the owner is
// expected to drop work after shutdown.
func (s *LoopScheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.frames = nil
	s.mu.Unlock()
}

func (s *LoopScheduler) runFrame() {
	s.mu.Lock()
	batch := s.frames
	s.frames = nil
	s.armed = false
	s.mu.Unlock()
	for _, f := range batch {
		f.fn()
	}
}

// ManualScheduler is a deterministic Scheduler for tests. Time only moves
// with Advance and frames only run with Frame.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
	frames []frameRequest
	nextID FrameID
}

// NewManualScheduler creates a ManualScheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	s       *ManualScheduler
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.s.remove(t)
	return true
}

// AfterFunc schedules fn at Now()+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{s: s, due: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *ManualScheduler) remove(t *manualTimer) {
	for i, cur := range s.timers {
		if cur == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration { return s.now }

// Advance moves time forward by d, running every timer that comes due at
// or before the new time in due order, including timers scheduled by the
// callbacks themselves.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		sort.SliceStable(s.timers, func(i, j int) bool {
			if s.timers[i].due == s.timers[j].due {
				return s.timers[i].seq < s.timers[j].seq
			}
			return s.timers[i].due < s.timers[j].due
		})
		if len(s.timers) == 0 || s.timers[0].due > target {
			break
		}
		t := s.timers[0]
		s.timers = s.timers[1:]
		s.now = t.due
		t.fired = true
		t.fn()
	}
	s.now = target
}

// PendingTimers returns the number of scheduled, unfired timers.
func (s *ManualScheduler) PendingTimers() int { return len(s.timers) }

// RequestFrame queues fn for the next Frame call.
func (s *ManualScheduler) RequestFrame(fn func()) FrameID {
	s.nextID++
	s.frames = append(s.frames, frameRequest{id: s.nextID, fn: fn})
	return s.nextID
}

// CancelFrame drops a queued frame request.
func (s *ManualScheduler) CancelFrame(id FrameID) {
	for i, f := range s.frames {
		if f.id == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return
		}
	}
}

// Frame runs the frame requests queued before the call and returns how
// many ran. Requests made by those callbacks wait for the next Frame.
func (s *ManualScheduler) Frame() int {
	batch := s.frames
	s.frames = nil
	for _, f := range batch {
		f.fn()
	}
	return len(batch)
}

// PendingFrames returns the number of queued frame requests.
func (s *ManualScheduler) PendingFrames() int { return len(s.frames) }
