package zobrist

import (
	"math/rand/v2"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

// Keys are drawn from a fixed seed so hashes are stable between runs.
var (
	pieceKeys     [NumPieces][64]uint64
	enPassantKeys [8]uint64
	castlingKeys  [16]uint64

	// SideToMove is mixed in when black is to move.
	SideToMove uint64
)

func init() {
	r := rand.New(rand.NewPCG(0x62657374, 0x6961))

	SideToMove = r.Uint64()

	var perRight [4]uint64
	for i := range perRight {
		perRight[i] = r.Uint64()
	}
	// rights is a bitmask, so its key is the XOR of one key per set bit
	for rights := range castlingKeys {
		for i, key := range perRight {
			if rights&(1<<i) != 0 {
				castlingKeys[rights] ^= key
			}
		}
	}

	for file := range enPassantKeys {
		enPassantKeys[file] = r.Uint64()
	}

	// XX stays zero so empty squares never change the hash
	for piece := 1; piece < NumPieces; piece++ {
		for index := range pieceKeys[piece] {
			pieceKeys[piece][index] = r.Uint64()
		}
	}
}

func PieceKey(piece Piece, index int) uint64 {
	return pieceKeys[piece][index]
}

func CastlingKey(rights CastlingRights) uint64 {
	return castlingKeys[rights&AllCastlingRights]
}

// EnPassantKey only depends on the file of the target square.
func EnPassantKey(target Optional[int]) uint64 {
	if target.IsEmpty() {
		return 0
	}
	return enPassantKeys[target.Value()%8]
}

// HashForBoardPosition computes the hash from scratch.
func HashForBoardPosition(board *BoardArray, player Player, rights CastlingRights, enPassant Optional[int]) uint64 {
	hash := CastlingKey(rights) ^ EnPassantKey(enPassant)
	for index, piece := range board {
		hash ^= pieceKeys[piece][index]
	}
	if player == Black {
		hash ^= SideToMove
	}
	return hash
}
