package eventbus

import "testing"

func TestPublishFanOut(t *testing.T) {
	b := New[int]()
	defer b.Close()

	c1, cancel1 := b.Subscribe()
	c2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish(42)
	if got := <-c1; got != 42 {
		t.Fatalf("subscriber 1 got %d", got)
	}
	if got := <-c2; got != 42 {
		t.Fatalf("subscriber 2 got %d", got)
	}
}

func TestSlowSubscriberDropsNotBlocks(t *testing.T) {
	b := NewBuffered[int](1)
	defer b.Close()

	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(1)
	b.Publish(2)
	if got := <-ch; got != 1 {
		t.Fatalf("expected first event, got %d", got)
	}
	if b.Dropped() != 1 {
		t.Fatalf("expected one dropped event, got %d", b.Dropped())
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New[string]()
	defer b.Close()

	ch, cancel := b.Subscribe()
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatal("cancelled channel must be closed")
	}
	b.Publish("late") // must not panic
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := New[int]()
	ch, _ := b.Subscribe()
	b.Close()
	if _, ok := <-ch; ok {
		t.Fatal("close must drain subscribers")
	}
	if sub, _ := b.Subscribe(); func() bool { _, ok := <-sub; return ok }() {
		t.Fatal("subscribing after close must yield a closed channel")
	}
}
