package password

import "unicode/utf8"

// MinLength is the minimum accepted password length, in characters.
const MinLength = 9

// Strength itemizes the policy checks for a candidate password. The same
// rule set is enforced at registration, reset and change so the server
// policy can never drift from what signup accepted.
type Strength struct {
	MinLength  bool `json:"min_length"`
	HasUpper   bool `json:"has_upper"`
	HasLower   bool `json:"has_lower"`
	HasDigit   bool `json:"has_digit"`
	HasSpecial bool `json:"has_special"`
}

// Satisfied reports whether every requirement passed.
func (s Strength) Satisfied() bool {
	return s.MinLength && s.HasUpper && s.HasLower && s.HasDigit && s.HasSpecial
}

// Evaluate checks a password against the strength policy. Pure function,
// no I/O.
func Evaluate(pw string) Strength {
	s := Strength{MinLength: utf8.RuneCountInString(pw) >= MinLength}
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			s.HasUpper = true
		case r >= 'a' && r <= 'z':
			s.HasLower = true
		case r >= '0' && r <= '9':
			s.HasDigit = true
		default:
			// Anything outside [A-Za-z0-9] counts as special.
			s.HasSpecial = true
		}
	}
	return s
}
