package dotlogs

import (
	"io"
	"testing"
	"time"
)

func newBenchService(b *testing.B, console bool) *Service {
	b.Helper()
	svc, err := NewBuilder().
		Directory(b.TempDir()).
		Console(io.Discard).
		Watch(false).
		EnableConsole(console).
		Build()
	if err != nil {
		b.Fatalf("failed to create service: %v", err)
	}
	b.Cleanup(func() { _ = svc.Close() })
	return svc
}

// BenchmarkServiceEmit benchmarks a single event reaching the file sink
func BenchmarkServiceEmit(b *testing.B) {
	svc := newBenchService(b, false)
	c := CallerAt(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = svc.Emit(LevelInformation, "benchmark message", c)
	}
}

// BenchmarkServiceFiltered benchmarks an event rejected by the level gate
func BenchmarkServiceFiltered(b *testing.B) {
	svc := newBenchService(b, false)
	c := CallerAt(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = svc.Emit(LevelDebug, "benchmark message", c)
	}
}

// BenchmarkFormatArgs benchmarks rendering mixed arguments into a message
func BenchmarkFormatArgs(b *testing.B) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for i := 0; i < b.N; i++ {
		_ = FormatArgs("benchmark", i, "key", "value", 42.5, ts, map[string]int{"a": 1})
	}
}

// BenchmarkConcurrentEmit benchmarks the service under concurrent load with
// both sinks enabled
func BenchmarkConcurrentEmit(b *testing.B) {
	svc := newBenchService(b, true)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		c := CallerAt(0)
		for pb.Next() {
			_ = svc.Emit(LevelWarning, "concurrent", c)
		}
	})
}
