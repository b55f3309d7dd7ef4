package bitboards

// Between[a][b] holds the squares strictly between a and b when they share a
// rank, file or diagonal, and is empty otherwise.
var Between [64][64]Bitboard

// Line[a][b] holds the whole board-spanning line through a and b (including
// both) when they are aligned, and is empty otherwise.
var Line [64][64]Bitboard

func initLines() {
	for a := 0; a < 64; a++ {
		for _, dirs := range [][]Dir{RookDirs, BishopDirs} {
			for _, dir := range dirs {
				ray := generateWalkBitboard(SingleBitboard(a), 0, dir)
				ray.EachIndexOfOne(func(b int) {
					Between[a][b] = ray & generateWalkBitboard(SingleBitboard(b), 0, opposite(dir))
					Line[a][b] = SlidingAttacks(a, 0, []Dir{dir, opposite(dir)}) | SingleBitboard(a)
				})
			}
		}
	}
}

func opposite(dir Dir) Dir {
	switch dir {
	case N:
		return S
	case S:
		return N
	case E:
		return W
	case W:
		return E
	case NE:
		return SW
	case SW:
		return NE
	case NW:
		return SE
	case SE:
		return NW
	}
	panic("no opposite for a knight direction")
}

// Aligned reports whether c lies on the line through a and b.
func Aligned(a int, b int, c int) bool {
	return Line[a][b]&SingleBitboard(c) != 0
}

func init() {
	initLines()
}
