// Package live serves the page's behavior over a WebSocket.
//
// Each connection gets its own Session holding a server-side copy of the
// page document, a browser.Window fed by the client's geometry, and the
// ui controllers. The client reports DOM events and layout; the session
// runs them through the controllers and answers with the resulting DOM
// patches.
//
// A session runs three goroutines:
//
//   - ReadLoop decodes client frames and queues them
//   - WriteLoop sends heartbeat pings
//   - EventLoop runs frames, timers and animation frames one at a time
//
// Page state is only touched on the event loop, so controllers need no
// locking. Timers and frames reach the loop through Session.Dispatch.
package live
