// Package cipher implements the shift substitution used to keep passwords
// out of plain sight in the data files. It is an obfuscation, not encryption:
// anyone who knows the shift can reverse it.
package cipher

// DefaultShift is the shift shared by every reader and writer of the data files.
// Changing it invalidates all stored passwords.
const DefaultShift = 3

const (
	minByte   = 32
	maxByte   = 126
	rangeSize = maxByte - minByte + 1
)

// Encrypt shifts every printable ASCII byte of text by shift positions,
// wrapping inside [32,126]. All other bytes, including multi-byte UTF-8
// sequences and invalid UTF-8, are copied unchanged.
func Encrypt(text string, shift int) string {
	if text == "" {
		return ""
	}

	out := []byte(text)
	for i, b := range out {
		out[i] = shiftByte(b, shift)
	}
	return string(out)
}

// Decrypt reverses Encrypt with the same shift.
func Decrypt(text string, shift int) string {
	return Encrypt(text, -shift)
}

// Obscure applies Encrypt with DefaultShift.
func Obscure(text string) string {
	return Encrypt(text, DefaultShift)
}

func shiftByte(b byte, shift int) byte {
	if b < minByte || b > maxByte {
		return b
	}

	shifted := (int(b-minByte) + shift%rangeSize) % rangeSize
	if shifted < 0 {
		shifted += rangeSize
	}
	return byte(shifted + minByte)
}
