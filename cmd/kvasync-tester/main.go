package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kvasync/kvasync"
)

type config struct {
	workers     int
	concurrency int
	records     int
	batchSize   int
	duration    time.Duration
	failRate    float64
}

type stats struct {
	commands atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
	empties  atomic.Int64
	errors   atomic.Int64
}

func main() {
	cfg := config{}
	flag.IntVar(&cfg.workers, "workers", 8, "dispatcher worker slots")
	flag.IntVar(&cfg.concurrency, "concurrency", 16, "concurrent submitters")
	flag.IntVar(&cfg.records, "records", 10000, "records preloaded into the driver")
	flag.IntVar(&cfg.batchSize, "batch", 20, "keys per batch command")
	flag.DurationVar(&cfg.duration, "duration", 5*time.Second, "run duration")
	flag.Float64Var(&cfg.failRate, "fail-rate", 0.01, "fraction of driver calls forced to fail")
	flag.Parse()

	fmt.Printf("kvasync dispatch tester\n")
	fmt.Printf("=======================\n")
	fmt.Printf("Workers:     %d\n", cfg.workers)
	fmt.Printf("Concurrency: %d\n", cfg.concurrency)
	fmt.Printf("Batch size:  %d\n", cfg.batchSize)
	fmt.Printf("Duration:    %s\n\n", cfg.duration)

	driver := kvasync.NewMemDriver()
	for i := range cfg.records {
		driver.Put(
			kvasync.Key{Namespace: "bench", SetName: "data", Value: keyValue(i)},
			&kvasync.Record{Bins: map[string]any{"n": int64(i)}, Generation: 1, Expiration: 3600},
		)
	}

	client, err := kvasync.NewClient(driver, kvasync.Config{Workers: int32(cfg.workers)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nInterrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	st := &stats{}
	start := time.Now()

	var wg sync.WaitGroup
	for range cfg.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runSubmitter(ctx, client, driver, cfg, st)
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	commands := st.commands.Load()
	fmt.Printf("Commands:  %d (%.0f/s)\n", commands, float64(commands)/elapsed.Seconds())
	fmt.Printf("Hits:      %d\n", st.hits.Load())
	fmt.Printf("Misses:    %d\n", st.misses.Load())
	fmt.Printf("Empties:   %d (forced driver failures)\n", st.empties.Load())
	fmt.Printf("Errors:    %d\n", st.errors.Load())

	ds := client.DispatcherStats()
	fmt.Printf("\nDispatcher: submitted=%d completed=%d failed=%d rejected=%d\n",
		ds.Submitted, ds.Completed, ds.Failed, ds.Rejected)
}

func runSubmitter(ctx context.Context, client *kvasync.Client, driver *kvasync.MemDriver, cfg config, st *stats) {
	for ctx.Err() == nil {
		keys := make([]kvasync.RawKey, cfg.batchSize)
		for i := range keys {
			// Roughly half the keys miss.
			keys[i] = kvasync.RawKey{
				Namespace: "bench",
				Set:       "data",
				Value:     keyValue(rand.IntN(cfg.records * 2)),
			}
		}
		if rand.Float64() < cfg.failRate {
			driver.FailNext()
		}

		resp, err := client.BatchExists(keys, nil).Wait(ctx)
		if err != nil {
			if ctx.Err() == nil {
				st.errors.Add(1)
			}
			continue
		}
		st.commands.Add(1)

		if len(resp.Entries) == 0 {
			st.empties.Add(1)
			continue
		}
		for _, entry := range resp.Entries {
			if entry.Status == kvasync.StatusOK {
				st.hits.Add(1)
			} else {
				st.misses.Add(1)
			}
		}
	}
}

func keyValue(i int) string {
	return fmt.Sprintf("key-%08d", i)
}
