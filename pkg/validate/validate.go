package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
	"github.com/google/uuid"
)

// IsCardNumber checks a payment card number with the Luhn algorithm before
// the number is masked away.
func IsCardNumber(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}

// IsID reports whether s is a syntactically valid aggregate identifier.
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
