package button

import "testing"

func TestNormalModeTripleClick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickNormal
	cfg.BetweenClicks = 250
	b, pin, clock, rec := newTestButton(t, cfg)

	for i := 0; i < 3; i++ {
		click(t, b, pin, clock, 60)
		poll(t, b, clock, 50) // well inside the 250ms window
	}

	if got := rec.count(EventPress); got != 3 {
		t.Errorf("expected PRESS x3, got %d (%v)", got, rec.events)
	}
	if got := rec.count(EventDoubleClick); got != 1 {
		t.Errorf("expected one DOUBLE_CLICK on the 2nd click, got %d (%v)", got, rec.events)
	}
	if got := rec.count(EventTripleClick); got != 1 {
		t.Errorf("expected one TRIPLE_CLICK on the 3rd click, got %d (%v)", got, rec.events)
	}

	// Double fires before triple.
	di, ti := -1, -1
	for i, e := range rec.events {
		if e == EventDoubleClick {
			di = i
		}
		if e == EventTripleClick {
			ti = i
		}
	}
	if di > ti {
		t.Errorf("DOUBLE_CLICK after TRIPLE_CLICK: %v", rec.events)
	}
}

func TestNormalModeFourthClickResetsCounter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickNormal
	b, pin, clock, rec := newTestButton(t, cfg)

	for i := 0; i < 4; i++ {
		click(t, b, pin, clock, 60)
		poll(t, b, clock, 50)
	}

	if got := rec.count(EventDoubleClick); got != 1 {
		t.Errorf("expected one DOUBLE_CLICK, got %d", got)
	}
	if got := rec.count(EventTripleClick); got != 1 {
		t.Errorf("expected one TRIPLE_CLICK, got %d", got)
	}
	if b.ClickCount() != 0 {
		t.Errorf("4th rapid click should reset the counter, got %d", b.ClickCount())
	}
	if got := rec.count(EventPress); got != 4 {
		t.Errorf("press still fires per click, expected 4, got %d", got)
	}
}

func TestNormalModeGapStartsFreshSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickNormal
	cfg.BetweenClicks = 250
	b, pin, clock, rec := newTestButton(t, cfg)

	click(t, b, pin, clock, 60)
	poll(t, b, clock, 300) // gap exceeds the window
	click(t, b, pin, clock, 60)

	if got := rec.count(EventDoubleClick); got != 0 {
		t.Errorf("separated clicks must not fire DOUBLE_CLICK: %v", rec.events)
	}
	if got := rec.count(EventPress); got != 2 {
		t.Errorf("expected 2 PRESS, got %d", got)
	}
}

func TestCombinedModeTripleClick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickCombined
	cfg.BetweenClicks = 250
	b, pin, clock, rec := newTestButton(t, cfg)

	for i := 0; i < 3; i++ {
		click(t, b, pin, clock, 60)
		poll(t, b, clock, 50)
	}
	// Silence past the inter-click window resolves the sequence.
	poll(t, b, clock, 300)

	if got := rec.count(EventTripleClick); got != 1 {
		t.Errorf("expected exactly one TRIPLE_CLICK, got %d (%v)", got, rec.events)
	}
	if got := rec.count(EventPress); got != 0 {
		t.Errorf("combined mode must not fire PRESS for intermediate clicks: %v", rec.events)
	}
	if got := rec.count(EventDoubleClick); got != 0 {
		t.Errorf("combined mode must not fire DOUBLE_CLICK for a triple: %v", rec.events)
	}
	// Release callbacks are unaffected by the mode.
	if got := rec.count(EventRelease); got != 3 {
		t.Errorf("expected RELEASE x3, got %d", got)
	}
}

func TestCombinedModeSingleClickDeferredPress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickCombined
	cfg.BetweenClicks = 250
	b, pin, clock, rec := newTestButton(t, cfg)

	click(t, b, pin, clock, 60)
	if got := rec.count(EventPress); got != 0 {
		t.Fatalf("PRESS must be withheld until the window passes: %v", rec.events)
	}

	poll(t, b, clock, 300)
	if got := rec.count(EventPress); got != 1 {
		t.Errorf("expected one deferred PRESS, got %d (%v)", got, rec.events)
	}
	if b.ClickCount() != 0 {
		t.Errorf("counter should reset after resolution, got %d", b.ClickCount())
	}
}

func TestCombinedModeOverflowClampsToTriple(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickCombined
	cfg.OverflowAsTriple = true
	b, pin, clock, rec := newTestButton(t, cfg)

	for i := 0; i < 5; i++ {
		click(t, b, pin, clock, 60)
		poll(t, b, clock, 50)
	}
	poll(t, b, clock, 300)

	if got := rec.count(EventTripleClick); got != 1 {
		t.Errorf("overflow should clamp to one TRIPLE_CLICK, got %d (%v)", got, rec.events)
	}
}

func TestCombinedModeOverflowDiscards(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickCombined
	cfg.OverflowAsTriple = false
	b, pin, clock, rec := newTestButton(t, cfg)

	for i := 0; i < 4; i++ {
		click(t, b, pin, clock, 60)
		poll(t, b, clock, 50)
	}
	poll(t, b, clock, 300)

	if got := rec.count(EventPress) + rec.count(EventDoubleClick) + rec.count(EventTripleClick); got != 0 {
		t.Errorf("overflow with the policy off should discard the sequence: %v", rec.events)
	}
}

func TestCombinedModeLongHoldEmitsSinglePress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickCombined
	b, pin, clock, rec := newTestButton(t, cfg)

	pin.level = true
	poll(t, b, clock, 51)  // confirm, counter = 1, press withheld
	poll(t, b, clock, 500) // long press -> Repeat
	poll(t, b, clock, 10)  // repeat-phase resolver fires the press once
	pin.level = false
	poll(t, b, clock, 2)
	poll(t, b, clock, 400) // idle; nothing left to resolve

	if got := rec.count(EventPress); got != 1 {
		t.Errorf("expected exactly one PRESS for a long hold, got %d (%v)", got, rec.events)
	}
	if got := rec.count(EventLongPress); got != 1 {
		t.Errorf("expected one LONG_PRESS, got %d", got)
	}
	if b.ClickCount() != 0 {
		t.Errorf("long hold must not seed a click sequence, got count %d", b.ClickCount())
	}
}

func TestSetMultiClickAbandonsSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiClick = MultiClickCombined
	b, pin, clock, rec := newTestButton(t, cfg)

	click(t, b, pin, clock, 60)
	if b.ClickCount() != 1 {
		t.Fatalf("expected counter 1 mid-sequence, got %d", b.ClickCount())
	}

	b.SetMultiClick(MultiClickOff, 0)
	poll(t, b, clock, 500)
	if got := rec.count(EventPress); got != 0 {
		t.Errorf("abandoned sequence must not resolve: %v", rec.events)
	}
}
