package component

// PropKind enumerates furniture placed by the town builder.
type PropKind uint8

const (
	Table PropKind = iota
	Chair
	Bed
)

func (k PropKind) String() string {
	switch k {
	case Table:
		return "table"
	case Chair:
		return "chair"
	case Bed:
		return "bed"
	}
	return "prop"
}

// Prop is a piece of furniture. Props never block movement.
type Prop struct {
	Kind PropKind
}
