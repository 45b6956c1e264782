package convert

// reservedWords are names Allocate must never produce, regardless of the
// exclusion set.
var reservedWords = map[string]struct{}{
	"as": {}, "do": {}, "if": {}, "in": {}, "is": {}, "of": {},
	"for": {}, "let": {}, "new": {}, "try": {}, "var": {},
	"case": {}, "else": {}, "enum": {}, "this": {}, "true": {}, "void": {}, "with": {},
}

// Allocate returns the first identifier, in shortest-then-alphabetical
// candidate order (a..z, aa..az, ba..), that is neither reserved nor present
// in excluded. Deterministic for a given exclusion set.
func Allocate(excluded map[string]struct{}) string {
	for i := 0; ; i++ {
		name := nthIdentifier(i)
		if _, ok := reservedWords[name]; ok {
			continue
		}
		if _, ok := excluded[name]; ok {
			continue
		}
		return name
	}
}

// nthIdentifier maps 0 -> "a", 25 -> "z", 26 -> "aa", like spreadsheet
// column labels.
func nthIdentifier(n int) string {
	var buf []byte
	for {
		buf = append([]byte{byte('a' + n%26)}, buf...)
		n = n/26 - 1
		if n < 0 {
			return string(buf)
		}
	}
}
