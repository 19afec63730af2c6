package cpu

import (
	"math"
	"runtime"
	"testing"
)

func TestCoreFor(t *testing.T) {
	n := runtime.NumCPU()

	tests := []struct {
		name     string
		workerID int
		want     int
	}{
		{name: "first worker", workerID: 0, want: 0},
		{name: "wraps around", workerID: n, want: 0},
		{name: "offset", workerID: n + 1, want: 1 % n},
		{name: "negative id", workerID: -1, want: n - 1},
		{name: "most negative id", workerID: math.MinInt, want: ((math.MinInt % n) + n) % n},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coreFor(tt.workerID)
			if got != tt.want {
				t.Errorf("coreFor(%d) = %d, want %d", tt.workerID, got, tt.want)
			}
			if got < 0 || got >= n {
				t.Errorf("coreFor(%d) = %d, out of range [0, %d)", tt.workerID, got, n)
			}
		})
	}
}

func TestBind(t *testing.T) {
	t.Run("no binding is a no-op", func(t *testing.T) {
		release, err := Bind(0, Binding{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if release == nil {
			t.Fatal("release must never be nil")
		}
		release()
	})

	t.Run("dedicated thread", func(t *testing.T) {
		done := make(chan error, 1)
		go func() {
			release, err := Bind(3, Binding{Dedicated: true})
			defer release()
			done <- err
		}()
		if err := <-done; err != nil {
			t.Errorf("expected no error for dedicated binding, got %v", err)
		}
	})

	t.Run("pin returns a release func even on failure", func(t *testing.T) {
		done := make(chan bool, 1)
		go func() {
			release, _ := Bind(1, Binding{Pin: true})
			done <- release != nil
			if release != nil {
				release()
			}
		}()
		if !<-done {
			t.Error("release must be non-nil when pinning is requested")
		}
	})
}
