package services

import (
	"testing"

	"github.com/talentsmy/backend/repository"
)

func TestChangeFeedFanOut(t *testing.T) {
	feed := NewChangeFeed(nil)

	first, cancelFirst := feed.Subscribe(4)
	second, cancelSecond := feed.Subscribe(4)
	defer cancelSecond()

	feed.Publish(repository.OrderChange{Kind: repository.ChangeInsert, OrderID: "o-1"})

	got := <-first
	if got.OrderID != "o-1" || got.Kind != repository.ChangeInsert {
		t.Fatalf("unexpected change %+v", got)
	}
	got = <-second
	if got.OrderID != "o-1" {
		t.Fatalf("second subscriber missed the change: %+v", got)
	}

	cancelFirst()
	if _, open := <-first; open {
		t.Fatalf("cancel must close the channel")
	}
	if feed.SubscriberCount() != 1 {
		t.Fatalf("expected one live subscriber, got %d", feed.SubscriberCount())
	}
}

func TestChangeFeedDropsWhenFull(t *testing.T) {
	feed := NewChangeFeed(nil)
	ch, cancel := feed.Subscribe(1)
	defer cancel()

	// the second publish must not block even though nobody is reading
	feed.Publish(repository.OrderChange{Kind: repository.ChangeUpdate, OrderID: "o-1"})
	feed.Publish(repository.OrderChange{Kind: repository.ChangeUpdate, OrderID: "o-2"})

	got := <-ch
	if got.OrderID != "o-1" {
		t.Fatalf("expected the buffered change, got %+v", got)
	}
	select {
	case extra := <-ch:
		t.Fatalf("overflow change should have been dropped, got %+v", extra)
	default:
	}
}

func TestChangeFeedCancelIsIdempotent(t *testing.T) {
	feed := NewChangeFeed(nil)
	_, cancel := feed.Subscribe(0)
	cancel()
	cancel()
	if feed.SubscriberCount() != 0 {
		t.Fatalf("expected no subscribers, got %d", feed.SubscriberCount())
	}
}
