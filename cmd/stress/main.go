// Command stress writes bursts of events from two services sharing one log
// directory, then reads the files back and checks every line.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/AlexandreIorio/dotlogs"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 4000
	numWorkers     = 64
	logsDir        = "./stress_logs"
)

var levels = []int64{
	dotlogs.LevelDebug,
	dotlogs.LevelInformation,
	dotlogs.LevelWarning,
	dotlogs.LevelError,
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity and returns the number of
// events at or above Information
func logBurst(svc *dotlogs.Service, burstID int) int64 {
	var written int64
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := dotlogs.FormatArgs(generateRandomMessage(rand.Intn(maxMessageSize)+10),
			"bst", burstID, "seq", i, "rnd", rand.Int63())
		if err := svc.Emit(level, msg, dotlogs.CallerAt(0)); err != nil {
			fmt.Fprintf(os.Stderr, "\nemit failed: %v\n", err)
			continue
		}
		if level >= dotlogs.LevelInformation {
			written++
		}
	}
	return written
}

// worker goroutine function
func worker(services []*dotlogs.Service, burstChan chan int, wg *sync.WaitGroup, completedBursts, expected *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		svc := services[burstID%len(services)]
		expected.Add(logBurst(svc, burstID))
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func newService() (*dotlogs.Service, error) {
	return dotlogs.NewBuilder().
		Directory(logsDir).
		Console(io.Discard).
		Watch(false).
		LevelString("Information").
		RotationInterval(dotlogs.RotateInfinite).
		Build()
}

func main() {
	fmt.Println("--- dotlogs Stress Test ---")
	_ = os.RemoveAll(logsDir) // Clean previous run's directory before starting

	var services []*dotlogs.Service
	for i := 0; i < 2; i++ {
		svc, err := newService()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create service: %v\n", err)
			os.Exit(1)
		}
		services = append(services, svc)
	}
	fmt.Printf("Two services writing to: %s\n", logsDir)
	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	var completedBursts, expected atomic.Int64
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(services, burstChan, &wg, &completedBursts, &expected)
	}

	// --- Run Test ---
	startTime := time.Now()
submit:
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			break submit
		}
	}
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Writes Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec: %.2f\n", logsPerSec)
	}

	for _, svc := range services {
		if err := svc.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Service close error: %v\n", err)
		}
	}

	// --- Verify ---
	reader := dotlogs.NewReader(nil, logsDir)
	entries, err := reader.QueryRecent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read back failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Expected %d entries, read back %d\n", expected.Load(), len(entries))
	if int64(len(entries)) != expected.Load() {
		fmt.Fprintln(os.Stderr, "MISMATCH: lines were lost or interleaved")
		os.Exit(1)
	}
	fmt.Println("All lines parsed cleanly.")
}
