package metrics

import "testing"

// BenchmarkCollector_Tick measures the overhead of recording a
// decrement (atomic add plus timestamp under the lock).
func BenchmarkCollector_Tick(b *testing.B) {
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Tick()
	}
}

// BenchmarkCollector_EventPublished measures counter overhead on the
// publish path.
func BenchmarkCollector_EventPublished(b *testing.B) {
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.EventPublished()
	}
}

// BenchmarkCollector_Snapshot measures the cost of taking a snapshot.
func BenchmarkCollector_Snapshot(b *testing.B) {
	c := New()
	c.RunStarted()
	c.Tick()
	c.CommandRejected("test")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Snapshot()
	}
}
