package preset

// BypassSetter is the bypass control of an engine.
type BypassSetter interface {
	Bypass() bool
	SetBypass(enabled bool)
}

// ABCompare switches an engine between its original and processed output.
type ABCompare struct {
	target BypassSetter
}

// NewABCompare returns an ABCompare driving target.
func NewABCompare(target BypassSetter) *ABCompare {
	return &ABCompare{target: target}
}

// Toggle flips bypass and reports whether the original is now playing.
func (c *ABCompare) Toggle() bool {
	on := !c.target.Bypass()
	c.target.SetBypass(on)
	return on
}

// Original selects the unprocessed clip.
func (c *ABCompare) Original() { c.target.SetBypass(true) }

// Processed selects the transformed clip.
func (c *ABCompare) Processed() { c.target.SetBypass(false) }

// ShowingOriginal reports whether bypass is on.
func (c *ABCompare) ShowingOriginal() bool { return c.target.Bypass() }
