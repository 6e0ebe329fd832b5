package archive

// SelectArchivable returns the oldest entries of inventory that exceed the
// retention count: the first n-retain entries when n > retain, nil otherwise.
//
// It is a pure function over the snapshot and never touches the filesystem.
// The caller guarantees that inventory is sorted ascending and that
// lexicographic order corresponds to the segments' sequence order.
func SelectArchivable(inventory []string, retain int) []string {
	if retain < 0 {
		retain = 0
	}
	if len(inventory) <= retain {
		return nil
	}
	return inventory[:len(inventory)-retain]
}
