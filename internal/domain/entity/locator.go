package entity

type LocatorKind string

const (
	ByID        LocatorKind = "id"
	ByCSS       LocatorKind = "css"
	ByPartialID LocatorKind = "partial_id"
)

// Locator addresses one interactive element of the target UI.
type Locator struct {
	Kind  LocatorKind
	Value string
}

func ID(id string) Locator              { return Locator{Kind: ByID, Value: id} }
func CSS(selector string) Locator       { return Locator{Kind: ByCSS, Value: selector} }
func PartialID(fragment string) Locator { return Locator{Kind: ByPartialID, Value: fragment} }

func (l Locator) String() string {
	return string(l.Kind) + "=" + l.Value
}

type WaitCondition int

const (
	Present WaitCondition = iota
	Clickable
)

type ClickMethod string

const (
	ClickNative  ClickMethod = "native"
	ClickScript  ClickMethod = "script"
	ClickPointer ClickMethod = "pointer"
)
