// Command bench drives a synthetic concurrent workload against a striped
// cache through the elastic worker pool, and exposes pprof/Prometheus
// endpoints for observing both under load.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nrondon/shardkv/executor"
	pmet "github.com/nrondon/shardkv/metrics/prom"
	"github.com/nrondon/shardkv/striped"
)

func main() {
	var (
		aggregateMB = flag.Int("mb", 64, "aggregate cache capacity in MiB")
		stripes     = flag.Int("stripes", 0, "stripe count (0=auto)")

		low      = flag.Int("low", 4, "executor low watermark")
		high     = flag.Int("high", 64, "executor high watermark")
		maxQueue = flag.Int("max-queue", 1024, "executor max queue size")
		idle     = flag.Duration("idle", 200*time.Millisecond, "executor idle timeout")

		submitters = flag.Int("submitters", 2*runtime.GOMAXPROCS(0), "goroutines submitting tasks")
		duration   = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct    = flag.Int("reads", 80, "read percentage [0..100]")
		keys       = flag.Int("keys", 1_000_000, "keyspace size")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	metrics := pmet.New(nil, "shardkv", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	c, err := striped.Build(*stripes, *aggregateMB*1024*1024, striped.Options{Metrics: metrics})
	if err != nil {
		log.Fatalf("striped.Build: %v", err)
	}

	pool, err := executor.New(executor.Options{
		Low:         *low,
		High:        *high,
		MaxQueue:    *maxQueue,
		IdleTimeout: *idle,
	})
	if err != nil {
		log.Fatalf("executor.New: %v", err)
	}
	defer func() { _ = pool.Close() }()

	var submitted, rejected, reads, writes uint64
	stop := time.NewTimer(*duration)
	defer stop.Stop()

	done := make(chan struct{})
	go func() {
		<-stop.C
		close(done)
	}()

	start := time.Now()
	submittersN := *submitters
	if submittersN <= 0 {
		submittersN = 1
	}
	readPctVal := *readPct
	keysMax := *keys
	seedBase := *seed

	var wg sync.WaitGroup
	wg.Add(submittersN)
	for w := 0; w < submittersN; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			for {
				select {
				case <-done:
					return
				default:
				}

				// Draw everything this task needs from r up front: r is not
				// goroutine-safe, and the task body below may run on a
				// worker goroutine well after this loop has moved on to
				// its next iteration and is calling r again.
				k := "k:" + strconv.Itoa(r.Intn(keysMax))
				isRead := r.Intn(100) < readPctVal
				value := "v" + strconv.Itoa(r.Int())

				task := func() {
					if isRead {
						c.Get(k)
						atomic.AddUint64(&reads, 1)
					} else {
						c.Put(k, value)
						atomic.AddUint64(&writes, 1)
					}
				}
				if pool.Submit(task) {
					atomic.AddUint64(&submitted, 1)
				} else {
					atomic.AddUint64(&rejected, 1)
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("stripes=%d low=%d high=%d max_queue=%d submitters=%d dur=%v seed=%d\n",
		c.StripeCount(), *low, *high, *maxQueue, submittersN, elapsed, seedBase)
	fmt.Printf("submitted=%d rejected=%d reads=%d writes=%d workers=%d\n",
		atomic.LoadUint64(&submitted), atomic.LoadUint64(&rejected),
		atomic.LoadUint64(&reads), atomic.LoadUint64(&writes), pool.WorkersTotal())
	fmt.Printf("Len()=%d\n", c.Len())
}
