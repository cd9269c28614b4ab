package transaction

// State is one node of the transaction's 7-state lifecycle.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
	Mounting
	Mounted
	Unmounting
	Unloading
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "Unloaded"
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Mounting:
		return "Mounting"
	case Mounted:
		return "Mounted"
	case Unmounting:
		return "Unmounting"
	case Unloading:
		return "Unloading"
	default:
		return "Unknown"
	}
}

// Flag is a transaction-scoped linearization/publication policy bit.
type Flag uint32

const (
	// KeepDeprecated also walks deprecated properties during
	// linearization instead of skipping them.
	KeepDeprecated Flag = 1 << iota
	// KeepTransient also walks transient properties during
	// linearization instead of skipping them.
	KeepTransient
	// KeepIsolated still registers the transaction's namespace on
	// Mount, so MetaDatabase.FindTransaction finds it, but never hands
	// its exported objects to RegisterExport, so none of them resolves
	// through MetaDatabase.Find — a
	// supplemental policy bit beyond what spec.md's §4.7 describes in
	// detail, resolved in DESIGN.md's Open Questions.
	KeepIsolated
)

func (f Flag) Has(bit Flag) bool { return f&bit == bit }
