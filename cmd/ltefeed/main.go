// ltefeed is a synthetic feeder for development: it listens on the
// ltemon IP connector port and streams framed signal records, so the
// daemon can be exercised without a real modem attached.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ltemon/internal/domain"
	"ltemon/internal/radio"
	"ltemon/internal/transport"
)

func main() {
	listen := flag.String("listen", fmt.Sprintf(":%d", transport.DefaultIPPort), "address to listen on")
	interval := flag.Duration("interval", 2*time.Second, "delay between records")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default().With("component", "ltefeed")

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		logger.Error("listen failed", "address", *listen, "error", err)
		os.Exit(1)
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	logger.Info("feeding synthetic signal records", "address", *listen, "interval", *interval)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("accept failed", "error", err)
			continue
		}
		go serve(ctx, logger.With("remote", conn.RemoteAddr().String()), conn, *interval)
	}
}

func serve(ctx context.Context, logger *slog.Logger, conn net.Conn, interval time.Duration) {
	defer conn.Close()
	logger.Info("client connected")

	gen := newSignalWalk(time.Now().UnixNano())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		frame, err := transport.EncodeFrame(radio.EncodeRecord(gen.next()))
		if err != nil {
			logger.Error("encode frame", "error", err)
			return
		}
		if _, err := conn.Write(frame); err != nil {
			logger.Info("client disconnected", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// signalWalk produces a slowly drifting but plausible LTE signal, with
// the occasional field reported as unavailable the way real modems do.
type signalWalk struct {
	rng   *rand.Rand
	rsrp  int32
	rssnr int32
}

func newSignalWalk(seed int64) *signalWalk {
	return &signalWalk{
		rng:   rand.New(rand.NewSource(seed)),
		rsrp:  -98,
		rssnr: 12,
	}
}

func (w *signalWalk) next() domain.CellSignal {
	w.rsrp = drift(w.rng, w.rsrp, -130, -70)
	w.rssnr = drift(w.rng, w.rssnr, -50, 80)

	rsrq := int32(-8 - w.rng.Intn(10))
	cqi := int32(3 + w.rng.Intn(12))
	ta := int32(w.rng.Intn(60))
	if w.rng.Intn(5) == 0 {
		cqi = domain.FieldUnavailable
	}
	if w.rng.Intn(8) == 0 {
		ta = domain.FieldUnavailable
	}

	return domain.NewCellSignal(int32(w.rng.Intn(32)), w.rsrp, rsrq, w.rssnr, cqi, ta)
}

func drift(rng *rand.Rand, v, lo, hi int32) int32 {
	v += int32(rng.Intn(7)) - 3
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}

	return v
}
