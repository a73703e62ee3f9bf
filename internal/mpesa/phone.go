package mpesa

import (
	"fmt"
	"regexp"
	"strings"
)

var kenyanMSISDN = regexp.MustCompile(`^254\d{9}$`)

// NormalizePhone validates and normalizes a payer phone number to the
// 12-digit 254XXXXXXXXX form Daraja requires. Spaces, dashes and a leading
// plus are stripped; a leading 0 becomes 254.
func NormalizePhone(phone string) (string, error) {
	normalized := strings.ReplaceAll(phone, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "+", "")

	if strings.HasPrefix(normalized, "0") {
		normalized = "254" + normalized[1:]
	}

	if !kenyanMSISDN.MatchString(normalized) {
		return "", fmt.Errorf("invalid phone number: must be 254XXXXXXXXX or 07XXXXXXXX")
	}
	return normalized, nil
}
