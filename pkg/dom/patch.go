package dom

// PatchOp is the type of a recorded DOM mutation.
type PatchOp uint8

const (
	PatchSetText        PatchOp = 0x01 // Replace text content
	PatchSetAttr        PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr     PatchOp = 0x03 // Remove attribute
	PatchSetValue       PatchOp = 0x08 // Set form control value
	PatchFocus          PatchOp = 0x0B // Focus element
	PatchScrollIntoView PatchOp = 0x0D // Scroll element into view
	PatchAddClass       PatchOp = 0x10 // Add CSS class
	PatchRemoveClass    PatchOp = 0x11 // Remove CSS class
	PatchSetStyle       PatchOp = 0x13 // Set style property
	PatchRemoveStyle    PatchOp = 0x14 // Remove style property
)

// String returns the wire name of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "setText"
	case PatchSetAttr:
		return "setAttr"
	case PatchRemoveAttr:
		return "removeAttr"
	case PatchSetValue:
		return "setValue"
	case PatchFocus:
		return "focus"
	case PatchScrollIntoView:
		return "scrollIntoView"
	case PatchAddClass:
		return "addClass"
	case PatchRemoveClass:
		return "removeClass"
	case PatchSetStyle:
		return "setStyle"
	case PatchRemoveStyle:
		return "removeStyle"
	default:
		return "unknown"
	}
}

// Patch is a single mutation applied to the document, addressed by the
// target element's live ID so a remote copy of the page can replay it.
type Patch struct {
	Op    PatchOp
	LID   string // Target element's live ID
	Key   string // Attribute, class or style property name
	Value string // New value
}
