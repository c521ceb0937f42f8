package query

// Panel tracks the visibility of an overlay editor independently from
// the list it covers. Two states only: closed, or open with an optional
// target id. Closing always clears the target, whatever it was.
type Panel struct {
	visible  bool
	targetID string
}

// Open shows the panel for an existing target.
func (p *Panel) Open(targetID string) {
	p.visible = true
	p.targetID = targetID
}

// OpenBlank shows the panel with no target (create flow).
func (p *Panel) OpenBlank() {
	p.visible = true
	p.targetID = ""
}

// Close hides the panel and unconditionally clears the target.
func (p *Panel) Close() {
	p.visible = false
	p.targetID = ""
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool { return p.visible }

// TargetID returns the open target, or "" when blank or closed.
func (p *Panel) TargetID() string { return p.targetID }
