// Package isbn implements ISBN normalization, the ISBN-13 to ISBN-10
// conversion, and the cover image URL convention derived from it.
package isbn

import (
	"fmt"
	"strings"
	"unicode"
)

// coverURLTemplate is the Amazon image CDN naming convention. The URL is
// derived purely from the ISBN-10 and may 404 for titles Amazon never stocked.
const coverURLTemplate = "https://images-na.ssl-images-amazon.com/images/P/%s.09.LZZZZZZZ.jpg"

// Normalize strips hyphens, spaces and any other non-digit characters from a
// raw ISBN string. A trailing ISBN-10 check character 'X' is preserved.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		} else if (r == 'X' || r == 'x') && i == len(raw)-1 {
			b.WriteByte('X')
		}
	}
	return b.String()
}

// ToISBN10 converts a 13-digit ISBN to its 10-digit legacy form by
// recomputing the check digit over the middle nine digits.
//
// Unlike the usual lenient converters this fails loudly: a wrong-length
// input or a non-digit body character is an error, never a garbage result.
func ToISBN10(isbn13 string) (string, error) {
	if len(isbn13) != 13 {
		return "", fmt.Errorf("isbn must be 13 characters, got %d", len(isbn13))
	}

	body := isbn13[3:12]
	sum := 0
	for i, c := range body {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("isbn contains non-digit character %q", c)
		}
		sum += int(c-'0') * (10 - i)
	}

	check := 11 - sum%11
	var checkChar string
	switch check {
	case 10:
		checkChar = "X"
	case 11:
		checkChar = "0"
	default:
		checkChar = fmt.Sprintf("%d", check)
	}

	return body + checkChar, nil
}

// CoverURL builds the deterministic cover image URL for a 10- or 13-digit
// ISBN. It returns an empty string when no URL can be derived; it never
// checks whether the image actually exists.
func CoverURL(isbn string) string {
	isbn = Normalize(isbn)
	switch len(isbn) {
	case 13:
		isbn10, err := ToISBN10(isbn)
		if err != nil {
			return ""
		}
		return fmt.Sprintf(coverURLTemplate, isbn10)
	case 10:
		return fmt.Sprintf(coverURLTemplate, isbn)
	}
	return ""
}
