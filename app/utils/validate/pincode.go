package validate

import "strings"

// PincodeLength is the number of digits a deliverable Indian pincode carries.
const PincodeLength = 6

// PincodeResult reports whether a pincode input is well formed. An empty
// input is valid at this layer since the field is optional; "valid" does not
// imply the pincode is serviceable.
type PincodeResult struct {
	Valid  bool
	Reason string
}

// Pincode checks the format of a postal code input. It is pure and total:
// never errors, never touches the network.
func Pincode(pincode string) PincodeResult {
	if pincode == "" {
		return PincodeResult{Valid: true}
	}
	for _, r := range pincode {
		if r < '0' || r > '9' {
			return PincodeResult{Reason: "pincode must contain only numbers"}
		}
	}
	if len(pincode) != PincodeLength {
		return PincodeResult{Reason: "pincode must be exactly 6 digits"}
	}
	if pincode[0] == '0' {
		return PincodeResult{Reason: "invalid pincode format"}
	}
	return PincodeResult{Valid: true}
}

// DigitsOnly strips everything but decimal digits from raw user input, so a
// pasted "400 001" still lands as "400001" in the pincode field.
func DigitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
