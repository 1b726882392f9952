package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Publish("hello")
	select {
	case got := <-sub:
		if got != "hello" {
			t.Fatalf("got %v", got)
		}
	default:
		t.Fatalf("no event delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	// Publishing after unsubscribe must not panic.
	b.Publish(1)
}

func TestFullBufferDoesNotBlock(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	for i := 0; i < 100; i++ {
		b.Publish(i)
	}
	// The subscriber buffer is smaller than 100; the publisher must have
	// dropped the overflow instead of blocking.
	if len(sub) == 0 {
		t.Fatalf("expected buffered events")
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	b.Close()
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	if got := b.Subscribe(); got == nil {
		t.Fatalf("subscribe after close should return closed channel")
	}
}
