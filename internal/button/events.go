package button

// EventType names a semantic button event for consumers that fan the
// callbacks out as data (logs, MQTT payloads) instead of handling each
// slot individually.
type EventType string

const (
	EventPress              EventType = "PRESS"
	EventLongPress          EventType = "LONG_PRESS"
	EventRepeat             EventType = "REPEAT"
	EventRelease            EventType = "RELEASE"
	EventReleaseAfterRepeat EventType = "RELEASE_AFTER_REPEAT"
	EventDoubleClick        EventType = "DOUBLE_CLICK"
	EventTripleClick        EventType = "TRIPLE_CLICK"
	EventIdle               EventType = "IDLE"
)

// OnEvent registers fn on every callback slot, delivering each event as
// a typed value. It overwrites any handlers registered individually; a
// nil fn clears all slots.
func (b *Button) OnEvent(fn func(EventType, uint16)) {
	if fn == nil {
		b.onPress = nil
		b.onLongPress = nil
		b.onRepeat = nil
		b.onRelease = nil
		b.onReleaseAfterRepeat = nil
		b.onDoubleClick = nil
		b.onTripleClick = nil
		b.onIdle = nil
		return
	}
	forward := func(t EventType) Callback {
		return func(id uint16) { fn(t, id) }
	}
	b.onPress = forward(EventPress)
	b.onLongPress = forward(EventLongPress)
	b.onRepeat = forward(EventRepeat)
	b.onRelease = forward(EventRelease)
	b.onReleaseAfterRepeat = forward(EventReleaseAfterRepeat)
	b.onDoubleClick = forward(EventDoubleClick)
	b.onTripleClick = forward(EventTripleClick)
	b.onIdle = forward(EventIdle)
}
