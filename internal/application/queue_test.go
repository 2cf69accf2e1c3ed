package application

import (
	"sync"
	"testing"
)

func TestSerialQueueRunsNestedTasksAfterCurrent(t *testing.T) {
	t.Parallel()

	var q serialQueue
	var order []string
	q.Run(func() {
		order = append(order, "outer-start")
		q.Do(func() { order = append(order, "nested") })
		order = append(order, "outer-end")
	})

	want := []string{"outer-start", "outer-end", "nested"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestSerialQueueNeverOverlaps(t *testing.T) {
	t.Parallel()

	var q serialQueue
	var mu sync.Mutex
	active, maxActive, total := 0, 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.Run(func() {
					mu.Lock()
					active++
					if active > maxActive {
						maxActive = active
					}
					mu.Unlock()

					mu.Lock()
					active--
					total++
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("max concurrent tasks = %d, want 1", maxActive)
	}
	if total != 16*50 {
		t.Fatalf("ran %d tasks, want %d", total, 16*50)
	}
}
