// Package browser models the window a page runs in: scroll offset,
// viewport size, the reduced-motion preference, client capabilities,
// timers, animation frames and intersection observers.
//
// Timers and frames go through a Scheduler. LoopScheduler posts callbacks
// onto a session's event loop; ManualScheduler moves only when a test
// advances it.
package browser
