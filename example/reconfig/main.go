package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/AlexandreIorio/dotlogs"
)

// Simulate rapid reconfiguration while another goroutine logs constantly
func main() {
	var count atomic.Int64

	svc, err := dotlogs.New("./reconfig_logs")
	if err != nil {
		fmt.Printf("Initial New error: %v\n", err)
		return
	}

	svc.OnConfigurationChanged(func(e dotlogs.ConfigEvent) {
		fmt.Printf("configuration changed: %v (err=%v)\n", e.Changed, e.Err)
	})

	done := make(chan struct{})
	go func() {
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			svc.Information(dotlogs.FormatArgs("Test log", i), dotlogs.CallerAt(0))
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Trigger multiple reconfigurations rapidly
	levels := dotlogs.ValidLevels()
	intervals := []string{dotlogs.RotateMinute, dotlogs.RotateHour, dotlogs.RotateDay}
	for i := 0; i < 10; i++ {
		err := svc.ApplyOverride(
			"log_level="+levels[i%len(levels)],
			"rotation_interval="+intervals[i%len(intervals)],
		)
		if err != nil {
			fmt.Printf("ApplyOverride error: %v\n", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	close(done)
	fmt.Printf("Total events attempted: %d\n", count.Load())
	fmt.Printf("Stats: %+v\n", svc.Stats())

	if err := svc.Close(); err != nil {
		fmt.Printf("Close error: %v\n", err)
	}
}
