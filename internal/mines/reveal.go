package mines

// Reveal opens origin and, through every zero-count cell it reaches, the
// cells around it. It returns the number of cells that went from hidden to
// revealed; revealing an already revealed or out-of-bounds cell returns 0.
//
// A mine at origin is revealed and counted but never expanded: deciding that
// the game is lost is up to the caller. m must have the same dimensions as b.
func Reveal(b *Board, m *Mask, origin Pos) int {
	if !b.InBounds(origin) {
		return 0
	}
	start := b.index(origin)
	if !m.set(start) {
		return 0
	}

	count := 1
	todo := celltodo{stack: make([]int, 0, 8)}
	todo.add(start)
	for {
		i, ok := todo.next()
		if !ok {
			break
		}
		if b.cells[i] != 0 {
			continue
		}
		for q := range b.Neighbors(b.pos(i)) {
			if j := b.index(q); m.set(j) {
				count++
				todo.add(j)
			}
		}
	}
	return count
}
