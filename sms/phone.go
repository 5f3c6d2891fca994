package sms

import "strings"

// CleanDigits strips every character that is not an ASCII digit, keeping order.
func CleanDigits(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsValidPhone accepts any input with 10 or 11 digits once non-digits are removed.
// There is no country-code or checksum logic.
func IsValidPhone(phone string) bool {
	n := len(CleanDigits(phone))
	return n >= 10 && n <= 11
}

