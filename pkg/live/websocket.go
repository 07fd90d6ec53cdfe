package live

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/landing/pkg/protocol"
)

// ReadLoop reads client frames until the connection fails. Pings are
// answered here; everything else goes to the event loop.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.observer.ConnectionError("read")
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		in, err := protocol.DecodeInbound(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "error", err)
			s.observer.ConnectionError("decode")
			if em, ok := err.(*protocol.ErrorMessage); ok {
				s.send(protocol.NewErrorFrame(em))
			}
			continue
		}

		if in.Type == protocol.TypePing {
			s.send(protocol.Pong())
			continue
		}
		if err := s.QueueEvent(in); err != nil {
			s.send(protocol.NewErrorFrame(protocol.NewError(protocol.ErrRateLimited, "event queue full")))
		}
	}
}

// WriteLoop sends heartbeat pings until the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
			s.writeMu.Unlock()
			if err != nil {
				s.logger.Debug("ping failed", "error", err)
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// EventLoop runs client frames, timers and animation frames one at a time.
func (s *Session) EventLoop() {
	for {
		select {
		case in := <-s.events:
			s.process(in)

		case fn := <-s.dispatchCh:
			s.run(fn)

		case <-s.done:
			return
		}
	}
}
