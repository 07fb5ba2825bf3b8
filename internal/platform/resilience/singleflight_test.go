package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32
	release := make(chan struct{})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err, _ := flight.Do("tours:epl", func() (any, error) {
				executions.Add(1)
				<-release
				return "payload", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = val
		}()
	}

	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected single execution, got %d", got)
	}
	for i, val := range results {
		if val != "payload" {
			t.Fatalf("caller %d got %v", i, val)
		}
	}
}

func TestSingleFlightRunsAgainAfterCompletion(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32

	for i := 0; i < 3; i++ {
		_, _, shared := flight.Do("key", func() (any, error) {
			executions.Add(1)
			return nil, nil
		})
		if shared {
			t.Fatalf("sequential call %d unexpectedly shared", i)
		}
	}

	if got := executions.Load(); got != 3 {
		t.Fatalf("expected 3 executions, got %d", got)
	}
}
