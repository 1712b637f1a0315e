package bridges

import (
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"

	"streamkit"
	"streamkit/internal/logging"
)

// Dial opens an insecure client connection to target, the shape every
// GRPCStreamSource caller needs before obtaining a generated client's
// server-streaming receiver.
func Dial(target string) (*grpc.ClientConn, error) {
	return grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// GRPCStreamSource adapts any gRPC server-streaming receive loop
// (stream.Recv-shaped) into a cold Stream[T]: io.EOF becomes complete, any
// other error becomes the stream's terminal error. Grounded on the
// teacher's timesync.Service.StreamTimeSync send loop, inverted into a
// client-side receive loop; T is constrained to proto.Message since every
// real generated gRPC client receives protobuf messages.
func GRPCStreamSource[T proto.Message](recv func() (T, error)) *streamkit.Stream[T] {
	stop := make(chan struct{})

	return streamkit.New[T](streamkit.StreamOptions[T]{
		Start: func(c *streamkit.Controller[T]) {
			go func() {
				for {
					select {
					case <-stop:
						return
					default:
					}
					msg, err := recv()
					if err != nil {
						if err == io.EOF {
							_ = c.Close()
						} else {
							logging.L().Debug("grpc stream recv error", logging.Error(err))
							_ = c.Error(err)
						}
						return
					}
					if err := c.Enqueue(msg); err != nil {
						return
					}
				}
			}()
		},
		Cancel: func(reason error) {
			select {
			case <-stop:
			default:
				close(stop)
			}
		},
	})
}

// GRPCTickerSource mirrors the server-side dual of timesync.Service's
// "emit one sample immediately, then one per tick" pattern as a reusable
// cold-stream source independent of any particular protobuf message type.
func GRPCTickerSource[T any](ticker *time.Ticker, sample func() T) *streamkit.Stream[T] {
	stop := make(chan struct{})

	return streamkit.New[T](streamkit.StreamOptions[T]{
		Start: func(c *streamkit.Controller[T]) {
			go func() {
				if err := c.Enqueue(sample()); err != nil {
					return
				}
				for {
					select {
					case <-stop:
						return
					case _, ok := <-ticker.C:
						if !ok {
							_ = c.Close()
							return
						}
						if err := c.Enqueue(sample()); err != nil {
							return
						}
					}
				}
			}()
		},
		Cancel: func(reason error) {
			ticker.Stop()
			select {
			case <-stop:
			default:
				close(stop)
			}
		},
	})
}
