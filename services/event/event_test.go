package event

import (
	"sync"
	"testing"
)

type recorder struct{ got []Tag }

func (r *recorder) Handle(t Tag) { r.got = append(r.got, t) }

func TestPostIsIdempotent(t *testing.T) {
	d := New()
	d.Post(Key2Pressed)
	d.Post(Key2Pressed)

	var r recorder
	if n := d.Drain(&r); n != 1 {
		t.Fatalf("Drain delivered %d, want 1", n)
	}
	if len(r.got) != 1 || r.got[0] != Key2Pressed {
		t.Fatalf("unexpected deliveries: %v", r.got)
	}
	if !d.Empty() {
		t.Fatal("pending set not empty after drain")
	}
}

func TestDrainOrderIndependentOfPostOrder(t *testing.T) {
	orders := [][]Tag{
		{Key7Pressed, Startup, LedHeartbeat, Key1Released},
		{Key1Released, LedHeartbeat, Key7Pressed, Startup},
		{LedHeartbeat, Key1Released, Startup, Key7Pressed},
	}
	want := []Tag{Startup, LedHeartbeat, Key7Pressed, Key1Released}

	for _, posts := range orders {
		d := New()
		for _, tg := range posts {
			d.Post(tg)
		}
		var r recorder
		d.Drain(&r)
		if len(r.got) != len(want) {
			t.Fatalf("posts %v: got %v, want %v", posts, r.got, want)
		}
		for i := range want {
			if r.got[i] != want[i] {
				t.Fatalf("posts %v: got %v, want %v", posts, r.got, want)
			}
		}
	}
}

func TestNoSamePassRedelivery(t *testing.T) {
	d := New()
	d.Post(Startup)

	var got []Tag
	h := HandlerFunc(func(tg Tag) {
		got = append(got, tg)
		if tg == Startup {
			d.Post(LedOff)  // higher tag, not in the entry snapshot
			d.Post(Startup) // re-post of the tag being handled
		}
	})

	if n := d.Drain(h); n != 1 {
		t.Fatalf("first drain delivered %d, want 1 (%v)", n, got)
	}
	if !d.Pending(LedOff) || !d.Pending(Startup) {
		t.Fatal("tags posted during the pass should stay pending")
	}

	got = nil
	d.Drain(HandlerFunc(func(tg Tag) { got = append(got, tg) }))
	if len(got) != 2 || got[0] != Startup || got[1] != LedOff {
		t.Fatalf("second drain got %v", got)
	}
}

func TestSelfPostingHandlerTerminates(t *testing.T) {
	d := New()
	d.Post(LedHeartbeat)
	calls := 0
	h := HandlerFunc(func(tg Tag) {
		calls++
		d.Post(tg)
	})
	for i := 0; i < 3; i++ {
		if n := d.Drain(h); n != 1 {
			t.Fatalf("drain %d delivered %d", i, n)
		}
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestNextDeliversLowestOnly(t *testing.T) {
	d := New()
	d.Post(Key3Pressed)
	d.Post(LedOff)

	var r recorder
	if !d.Next(&r) {
		t.Fatal("Next reported nothing pending")
	}
	if len(r.got) != 1 || r.got[0] != LedOff {
		t.Fatalf("got %v", r.got)
	}
	if !d.Pending(Key3Pressed) {
		t.Fatal("Key3Pressed should still be pending")
	}
	d.Next(&r)
	if d.Next(&r) {
		t.Fatal("Next on empty set reported a delivery")
	}
}

func TestTableNilSlotIsNoop(t *testing.T) {
	var hits []Tag
	var tb Table
	tb[Key1Pressed] = func(tg Tag) { hits = append(hits, tg) }

	d := New()
	for tg := Tag(0); tg < NumTags; tg++ {
		d.Post(tg)
	}
	if n := d.Drain(&tb); n != int(NumTags) {
		t.Fatalf("delivered %d, want %d", n, NumTags)
	}
	if len(hits) != 1 || hits[0] != Key1Pressed {
		t.Fatalf("hits = %v", hits)
	}
}

func TestOutOfRangeTagIgnored(t *testing.T) {
	d := New()
	d.Post(NumTags)
	d.Post(Tag(200))
	if !d.Empty() {
		t.Fatal("out of range tags must not become pending")
	}
}

func TestConcurrentPostLosesNothing(t *testing.T) {
	d := New()
	var wg sync.WaitGroup
	for tg := Tag(0); tg < NumTags; tg++ {
		wg.Add(1)
		go func(tg Tag) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.Post(tg)
			}
		}(tg)
	}
	wg.Wait()
	if c := d.Count(); c != int(NumTags) {
		t.Fatalf("Count = %d, want %d", c, NumTags)
	}
}

func TestKeyTagMapping(t *testing.T) {
	if tg, ok := KeyPressed(3); !ok || tg != Key3Pressed || tg.Key() != 3 {
		t.Fatalf("KeyPressed(3) = %v %v", tg, ok)
	}
	if tg, ok := KeyReleased(7); !ok || tg != Key7Released || tg.Key() != 7 {
		t.Fatalf("KeyReleased(7) = %v %v", tg, ok)
	}
	if tg, ok := KeyLongPressed(1); !ok || tg != Key1LongPressed {
		t.Fatalf("KeyLongPressed(1) = %v %v", tg, ok)
	}
	if _, ok := KeyPressed(0); ok {
		t.Fatal("key 0 must be rejected")
	}
	if _, ok := KeyPressed(MaxKeys + 1); ok {
		t.Fatal("key beyond MaxKeys must be rejected")
	}
	if Startup.Key() != 0 {
		t.Fatal("Startup is not a key tag")
	}
	if Key2Pressed.String() != "key2_pressed" {
		t.Fatalf("String() = %q", Key2Pressed.String())
	}
}
