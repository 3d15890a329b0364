package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/drgolem/ringbuffer"
)

// chunkReader pumps an *os.File through a lock-free SPSC ring buffer on a
// background goroutine, so PullChunk never blocks the parsing loop on a disk
// read. This repurposes the teacher's ringBuffer field (originally the
// handoff between libFLAC's C decode callback and Go-side sample reads) as
// the handoff between file I/O and Parse.
type chunkReader struct {
	rb    *ringbuffer.RingBuffer
	pump  []byte
	errCh chan error
}

// newChunkReader starts the background read pump immediately. ringCapacity
// and readSize must both be positive.
func newChunkReader(ctx context.Context, f *os.File, ringCapacity, readSize int) *chunkReader {
	cr := &chunkReader{
		rb:    ringbuffer.New(ringCapacity),
		pump:  make([]byte, readSize),
		errCh: make(chan error, 1),
	}
	go cr.run(ctx, f)
	return cr
}

func (cr *chunkReader) run(ctx context.Context, f *os.File) {
	defer close(cr.errCh)

	for {
		select {
		case <-ctx.Done():
			cr.errCh <- ctx.Err()
			return
		default:
		}

		n, readErr := f.Read(cr.pump)
		if n > 0 {
			if err := cr.writeAll(ctx, cr.pump[:n]); err != nil {
				cr.errCh <- err
				return
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				cr.errCh <- readErr
			}
			return
		}
	}
}

// writeAll retries partial writes against the ring buffer until the whole
// slice has been queued or ctx is cancelled.
func (cr *chunkReader) writeAll(ctx context.Context, data []byte) error {
	for len(data) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := cr.rb.Write(data)
		if n > 0 {
			data = data[n:]
		}
		if n == 0 && err != nil {
			time.Sleep(time.Millisecond)
		}
	}
	return nil
}

// PullChunk drains up to len(dst) bytes from the ring buffer. It blocks with
// a short backoff while the producer is still running and momentarily has
// nothing queued, and returns io.EOF once the producer has exited and the
// buffer has been fully drained.
func (cr *chunkReader) PullChunk(dst []byte) (int, error) {
	for {
		if cr.rb.AvailableRead() > 0 {
			return cr.rb.Read(dst)
		}

		select {
		case err, ok := <-cr.errCh:
			if ok && err != nil {
				return 0, err
			}
			// Producer has exited (ok == false) or exited cleanly; drain
			// whatever it queued right before closing.
			if cr.rb.AvailableRead() > 0 {
				continue
			}
			return 0, io.EOF
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
