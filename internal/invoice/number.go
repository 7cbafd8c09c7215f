package invoice

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateInvoiceNumber returns a label of the form INV-YYMM-RRRR using the
// current local date and a random four-digit suffix. Numbers are not unique;
// the invoice id is the identity.
func GenerateInvoiceNumber() string {
	return FormatInvoiceNumber(time.Now(), rand.IntN(10000))
}

// FormatInvoiceNumber builds INV-YYMM-RRRR from t and n. n is reduced modulo 10000.
func FormatInvoiceNumber(t time.Time, n int) string {
	n %= 10000
	if n < 0 {
		n += 10000
	}
	return fmt.Sprintf("INV-%s-%04d", t.Format("0601"), n)
}
