package model

// LoadState is the data state of a table view.
//
//	Empty -> Loading -> Populated | Error
//
// Populated and Error are terminal until the next Loading transition.
type LoadState int

const (
	LoadEmpty LoadState = iota
	LoadLoading
	LoadPopulated
	LoadError
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadPopulated:
		return "populated"
	case LoadError:
		return "error"
	default:
		return "empty"
	}
}
