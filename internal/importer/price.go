package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice yerel formattaki fiyat değerini float'a çevirir
// ("150,000", "₩150,000", "\"55,000\"" -> 150000, 150000, 55000).
// Binlik ayırıcı virgüller, para birimi işareti ve tırnaklar atılır.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₩", "")
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, fmt.Errorf("boş değer")
	}

	return strconv.ParseFloat(s, 64)
}
