// Command flacparse walks a FLAC byte stream and logs the records the
// parser produces: the stream marker, each metadata block (with the decoded
// StreamFormat once STREAMINFO is seen), and each audio frame's metadata.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/drgolem/flacparse"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("flacparse failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("flacparse", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file")
	fs.Bool("streaming-mode", false, "accept input with no stream marker as a bare sequence of frames")
	fs.Int("chunk-size", 32*1024, "bytes read from the input file per read() call")
	fs.Int("ring-capacity", 256*1024, "capacity in bytes of the read-ahead ring buffer")
	fs.String("log-level", "info", "debug, info, warn, or error")
	fs.String("log-format", "text", "text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath, fs)
	if err != nil {
		return err
	}

	if err := configureLogger(cfg); err != nil {
		return err
	}
	runID := uuid.New()
	slog.SetDefault(slog.Default().With("run_id", runID.String()))

	if fs.NArg() != 1 {
		return errors.New("usage: flacparse [flags] <path-to-flac-file>")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	return dump(ctx, f, cfg)
}

func configureLogger(cfg config) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return errors.Errorf("unknown log format %q", cfg.LogFormat)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// dump reads f's bytes through a chunkReader and feeds them to a parser
// State, logging each record. It is the one place the ring-buffered file
// reader, the parser, and structured logging meet.
func dump(ctx context.Context, f *os.File, cfg config) error {
	cr := newChunkReader(ctx, f, cfg.RingCapacity, cfg.ChunkSize)
	state := flacparse.Init(cfg.StreamingMode)

	buf := make([]byte, cfg.ChunkSize)
	frameCount := 0
	var lastFrame flacparse.Record

	for {
		n, readErr := cr.PullChunk(buf)
		if n > 0 {
			recs, parseErr := state.Parse(buf[:n])
			for _, rec := range recs {
				logRecord(rec)
				if rec.Kind == flacparse.RecordFrameBuffer {
					frameCount++
					lastFrame = rec
				}
			}
			if parseErr != nil {
				return errors.Wrapf(parseErr, "parsing %q at byte %d", f.Name(), state.Pos())
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return errors.Wrapf(readErr, "reading %q", f.Name())
		}
	}

	final := state.Flush()
	if len(final.Payload) > 0 {
		logRecord(final)
		frameCount++
		lastFrame = final
	}

	summarize(state, frameCount, lastFrame)
	return nil
}

func logRecord(rec flacparse.Record) {
	switch rec.Kind {
	case flacparse.RecordStreamFormat:
		slog.Info("stream format",
			"sample_rate", rec.Format.SampleRate,
			"channels", rec.Format.Channels,
			"sample_size", rec.Format.SampleSize,
			"min_block_size", rec.Format.MinBlockSize,
			"max_block_size", rec.Format.MaxBlockSize,
			"total_samples", rec.Format.TotalSamples,
		)
	case flacparse.RecordOpaqueBuffer:
		slog.Debug("opaque buffer", "bytes", len(rec.Payload))
	case flacparse.RecordFrameBuffer:
		slog.Debug("frame",
			"starting_sample", rec.Metadata.StartingSampleNumber,
			"samples", rec.Metadata.Samples,
			"channel_mode", rec.Metadata.ChannelMode,
			"bytes", len(rec.Payload),
		)
	}
}

func summarize(state *flacparse.State, frameCount int, lastFrame flacparse.Record) {
	pt, ok := lastFrame.Metadata.PresentationTime()
	fields := []any{"frames", frameCount, "bytes_consumed", state.Pos()}
	if ok {
		fields = append(fields, "last_presentation_time", pt)
	}
	slog.Info("done", fields...)
	fmt.Fprintf(os.Stdout, "%d frames, %d bytes\n", frameCount, state.Pos())
}
