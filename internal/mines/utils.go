package mines

// celltodo is the work list of the flood fill. Indices are pushed once, at
// the moment they get revealed, so it never holds more than rows*cols items.
type celltodo struct {
	stack []int
}

func (std *celltodo) add(i int) {
	std.stack = append(std.stack, i)
}

func (std *celltodo) next() (int, bool) {
	n := len(std.stack)
	if n == 0 {
		return 0, false
	}
	i := std.stack[n-1]
	std.stack = std.stack[:n-1]
	return i, true
}
