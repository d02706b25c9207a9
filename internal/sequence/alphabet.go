// internal/sequence/alphabet.go
//
// The fixed symbol alphabet sequences are drawn from.
//
// Notes:
//   - Order is significant only for display of the full alphabet; sequences
//     are always drawn through Shuffle.
//   - Every symbol is distinct. Tests enforce this.

package sequence

// Symbol is a single tappable token.
type Symbol = string

// alphabet is process-wide and never mutated. Callers get copies.
var alphabet = [...]Symbol{
	"🍎", "🌸", "🚀", "🐞", "🔥",
	"🎨", "🍄", "🌋", "💸", "🌞",
	"🎪", "🧩", "🦄", "🍕", "🐧",
	"🧁", "🌮", "🥑", "🤖", "🐱",
}

// Alphabet returns a copy of the symbol alphabet.
func Alphabet() []Symbol {
	out := make([]Symbol, len(alphabet))
	copy(out, alphabet[:])
	return out
}

// AlphabetSize is the number of distinct symbols available.
func AlphabetSize() int { return len(alphabet) }

// IsSymbol reports whether s belongs to the alphabet.
func IsSymbol(s string) bool {
	for _, a := range alphabet {
		if a == s {
			return true
		}
	}
	return false
}
