package breach

import "testing"

func u64p(v uint64) *uint64 { return &v }

func TestUpdate_StartsBreachBelowThreshold(t *testing.T) {
	bst, triggered, status := Update(nil, false, 1000, 95, 100, 60000)
	if bst == nil || *bst != 1000 {
		t.Fatalf("expected breach start at 1000, got %v", bst)
	}
	if triggered {
		t.Fatal("duration not elapsed, should not trigger")
	}
	if status != StatusStart {
		t.Fatalf("expected start, got %s", status)
	}
}

func TestUpdate_ClearsBreachAboveThreshold(t *testing.T) {
	bst, triggered, status := Update(u64p(1000), false, 2000, 150, 100, 60000)
	if bst != nil {
		t.Fatalf("expected breach cleared, got %v", bst)
	}
	if triggered {
		t.Fatal("should not trigger when breach cleared")
	}
	if status != StatusNone {
		t.Fatalf("expected none, got %s", status)
	}
}

func TestUpdate_TriggersOnceDurationElapsed(t *testing.T) {
	bst, triggered, status := Update(u64p(1000), false, 61000, 95, 100, 60000)
	if bst == nil || *bst != 1000 {
		t.Fatalf("expected breach start preserved at 1000, got %v", bst)
	}
	if !triggered {
		t.Fatal("expected triggered once duration elapsed")
	}
	if status != StatusContinue {
		t.Fatalf("expected continue, got %s", status)
	}
}

func TestUpdate_TriggeredIsMonotonic(t *testing.T) {
	// Even though the reading is now above threshold and breach clears,
	// a previously latched trigger must remain true.
	_, triggered, _ := updateWithTriggered(true, 5000, 150, 100, 60000)
	if !triggered {
		t.Fatal("triggered must remain true once set")
	}
}

func updateWithTriggered(triggered bool, now, v, z, d uint64) (*uint64, bool, Status) {
	return Update(nil, triggered, now, v, z, d)
}

func TestUpdate_ZeroDurationTriggersImmediately(t *testing.T) {
	bst, triggered, status := Update(nil, false, 1000, 95, 100, 0)
	if bst == nil || *bst != 1000 {
		t.Fatalf("expected breach start at 1000, got %v", bst)
	}
	if !triggered {
		t.Fatal("zero duration should trigger immediately")
	}
	if status != StatusContinue {
		t.Fatalf("expected continue, got %s", status)
	}
}
