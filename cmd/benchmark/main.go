// Command benchmark drives an engine.Engine with a synthetic order flow
// and reports throughput and per-command latency percentiles. It runs
// single-threaded against the *NoLock entry points, mirroring how the
// original benchmark harness measured the matching core in isolation
// from any transport or locking overhead.
package main

import (
	"flag"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Cimurghe/TitanLOB/engine"
)

// rngState is a fixed-seed xorshift generator, chosen over crypto/rand
// for reproducible runs at a fraction of the per-call cost.
var rngState uint64 = 0x9e3779b97f4a7c15

func fastRand() uint32 {
	rngState ^= rngState << 13
	rngState ^= rngState >> 7
	rngState ^= rngState << 17
	return uint32(rngState)
}

const recentIDsCapacity = 4096

func main() {
	ops := flag.Int("ops", 2_000_000, "number of commands to generate")
	priceSpread := flag.Int64("spread", 200, "width of the price range, which starts at 100")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	eng := engine.New(engine.DefaultConfig(), logger)

	var recentIDs [recentIDsCapacity]uint64
	var recentCount int
	var nextOrderID uint64 = 1

	latencies := make([]float64, 0, *ops)

	start := time.Now()
	for i := 0; i < *ops; i++ {
		cmdStart := time.Now()

		switch roll := fastRand() % 100; {
		case roll < 10 && recentCount > 0:
			idx := fastRand() % uint32(min(recentCount, recentIDsCapacity))
			eng.CancelNoLock(uint64(i), recentIDs[idx])

		case roll < 15:
			orderID := nextOrderID
			nextOrderID++
			isBuy := fastRand()%2 == 0
			price := int64(100) + int64(fastRand())%(*priceSpread)
			qty := int64(10 + fastRand()%90)
			peak := int64(5 + fastRand()%20)
			eng.AddIcebergNoLock(uint64(i), orderID, isBuy, price, qty, peak, 1)
			recentIDs[recentCount%recentIDsCapacity] = orderID
			recentCount++

		case roll < 20:
			orderID := nextOrderID
			nextOrderID++
			isBuy := fastRand()%2 == 0
			price := int64(100) + int64(fastRand())%(*priceSpread)
			qty := int64(10 + fastRand()%90)
			eng.AddAONNoLock(uint64(i), orderID, isBuy, price, qty, 1)
			recentIDs[recentCount%recentIDsCapacity] = orderID
			recentCount++

		default:
			orderID := nextOrderID
			nextOrderID++
			isBuy := fastRand()%2 == 0
			price := int64(100) + int64(fastRand())%(*priceSpread)
			qty := int64(10 + fastRand()%90)
			eng.AddOrderNoLock(uint64(i), orderID, isBuy, price, qty, 1)
			recentIDs[recentCount%recentIDsCapacity] = orderID
			recentCount++
		}

		latencies = append(latencies, float64(time.Since(cmdStart).Nanoseconds()))

		if i%4096 == 0 {
			eng.FlushOutputNoLock()
			drainRing(eng)
		}
	}
	eng.FlushOutputNoLock()
	drainRing(eng)
	elapsed := time.Since(start)

	printStats(*ops, elapsed, latencies, eng)
}

func drainRing(eng *engine.Engine) {
	var out [256]engine.OutputEvent
	for {
		n := eng.OutputRing().Drain(out[:])
		if n == 0 {
			return
		}
	}
}

func printStats(ops int, elapsed time.Duration, latencies []float64, eng *engine.Engine) {
	sort.Float64s(latencies)
	n := len(latencies)

	pct := func(p float64) float64 {
		if n == 0 {
			return 0
		}
		idx := int(p / 100 * float64(n-1))
		return latencies[idx]
	}

	fmt.Printf("commands:          %d\n", ops)
	fmt.Printf("elapsed:           %s\n", elapsed)
	fmt.Printf("throughput:        %.2f M ops/s\n", float64(ops)/elapsed.Seconds()/1e6)
	fmt.Printf("latency p50:       %.1f ns\n", pct(50))
	fmt.Printf("latency p99:       %.1f ns\n", pct(99))
	fmt.Printf("latency p99.9:     %.1f ns\n", pct(99.9))
	fmt.Printf("active orders:     %d\n", eng.ActiveOrderCount())
	fmt.Printf("trades executed:   %d\n", eng.TradesExecuted())
	fmt.Printf("messages dropped:  %d\n", eng.MessagesDropped())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
