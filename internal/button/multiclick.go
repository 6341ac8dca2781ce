package button

// Multi-click recognition. Three resolver phases hook into the state
// machine: resolvePress at the moment the debounce window confirms a
// press, resolveCombinedIdle on every Idle evaluation, and
// resolveRepeat on every Repeat evaluation. Which phases do anything
// depends on the configured mode.

// resolvePress runs once per confirmed press, before lastClickTick is
// moved to the current tick, so the inter-click gap it examines is the
// distance to the previous click.
func (b *Button) resolvePress(now Ticks) {
	switch b.cfg.MultiClick {
	case MultiClickOff:
		b.call(b.onPress)
	case MultiClickNormal:
		b.call(b.onPress)
		b.countClickNormal(now)
	case MultiClickCombined:
		b.countClickCombined(now)
	}
}

// countClickNormal counts clicks of the current sequence. The press
// callback has already fired; double/triple are layered on top at
// counts 2 and 3. A fourth rapid click resets the sequence and fires
// nothing.
func (b *Button) countClickNormal(now Ticks) {
	if b.clickCount == 0 || elapsed(now, b.lastClickTick) > b.cfg.BetweenClicks {
		// Fresh sequence.
		b.clickCount = 1
		return
	}

	b.clickCount++
	switch b.clickCount {
	case 2:
		b.call(b.onDoubleClick)
	case 3:
		b.call(b.onTripleClick)
	default:
		b.clickCount = 0
	}
}

// countClickCombined only counts; callbacks are deferred to the idle
// phase. clickCycleDone guards against counting one press twice within
// a single debounce cycle.
func (b *Button) countClickCombined(now Ticks) {
	if b.clickCycleDone {
		return
	}
	b.clickCycleDone = true

	if b.clickCount == 0 || elapsed(now, b.lastClickTick) > b.cfg.BetweenClicks {
		b.clickCount = 1
		return
	}

	b.clickCount++
	if b.clickCount > 3 {
		if b.cfg.OverflowAsTriple {
			b.clickCount = 3
		} else {
			b.clickCount = 0
		}
	}
}

// resolveCombinedIdle fires the deferred single/double/triple callback
// once the inter-click window has passed with no new click. This is
// where combined mode's recognition latency comes from.
func (b *Button) resolveCombinedIdle(now Ticks) {
	if b.clickCount == 0 {
		return
	}
	if elapsed(now, b.lastClickTick) <= b.cfg.BetweenClicks {
		// A further click may still extend the sequence.
		return
	}

	switch b.clickCount {
	case 1:
		b.call(b.onPress)
	case 2:
		b.call(b.onDoubleClick)
	case 3:
		b.call(b.onTripleClick)
	}
	b.clickCount = 0
	b.clickCycleDone = false
}

// resolveRepeat emits the combined-mode press exactly once per repeat
// excursion and zeroes the click counter so a long hold cannot bleed
// into a later click sequence.
func (b *Button) resolveRepeat() {
	if b.cfg.MultiClick != MultiClickCombined || b.repeatPressSent {
		return
	}
	b.repeatPressSent = true
	b.call(b.onPress)
	b.clickCount = 0
}
