// Package bridges adapts external imperative I/O sources — websocket
// connections, gRPC streaming calls — into streamkit.Stream values and
// their writable duals, generalizing the teacher's websocket
// upgrade-then-read-loop handling and its timesync gRPC emitter from
// game-specific payloads to opaque byte frames and generic samples.
package bridges

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"streamkit"
	"streamkit/internal/logging"
	"streamkit/subject"
)

// WebSocketSource turns an inbound *websocket.Conn into a cold
// Stream[[]byte]: Start spawns a single read-loop goroutine that calls
// conn.ReadMessage and forwards frames into the controller, pausing via a
// semaphore channel whenever the consumer falls behind desiredSize; Cancel
// closes the underlying connection. This goroutine is the one place actual
// OS concurrency enters the engine (SPEC_FULL.md §5) — an external blocking
// read cannot be modeled as a cooperative pull without it.
func WebSocketSource(conn *websocket.Conn) *streamkit.Stream[[]byte] {
	demand := make(chan struct{}, 1)
	stop := make(chan struct{})
	var closeOnce sync.Once

	return streamkit.New[[]byte](streamkit.StreamOptions[[]byte]{
		Start: func(c *streamkit.Controller[[]byte]) {
			go func() {
				for {
					select {
					case <-stop:
						return
					default:
					}
					_, frame, err := conn.ReadMessage()
					if err != nil {
						logging.L().Debug("websocket read loop ended", logging.Error(err))
						_ = c.Error(err)
						return
					}
					if err := c.Enqueue(frame); err != nil {
						return
					}
					if c.DesiredSize() <= 0 {
						select {
						case <-demand:
						case <-stop:
							return
						}
					}
				}
			}()
		},
		Pull: func(c *streamkit.Controller[[]byte], ctx context.Context) {
			select {
			case demand <- struct{}{}:
			default:
			}
		},
		Cancel: func(reason error) {
			closeOnce.Do(func() {
				logging.L().Debug("websocket source cancelled", logging.Error(reason))
				close(stop)
				_ = conn.Close()
			})
		},
	})
}

// WebSocketSink is the imperative-producer-to-stream direction's dual: a
// write([]byte) that calls conn.WriteMessage, a close() that sends a close
// frame.
func WebSocketSink(conn *websocket.Conn) subject.Writable[[]byte] {
	return &wsSink{conn: conn}
}

type wsSink struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsSink) Write(v []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(websocket.BinaryMessage, v); err != nil {
		logging.L().Debug("websocket sink write error", logging.Error(err))
		return err
	}
	return nil
}

func (w *wsSink) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return w.conn.Close()
}

func (w *wsSink) Abort(reason error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := "stream aborted"
	if reason != nil {
		msg = reason.Error()
	}
	_ = w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseInternalServerErr, msg))
	return w.conn.Close()
}
