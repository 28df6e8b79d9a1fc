package notifier

import "strings"

// NormalizePhone converts a locally formatted phone number into E.164
// form for the SMS gateway. Numbers that already carry a "+" prefix
// pass through unchanged. A leading "0" marks a national number and is
// replaced by the configured country prefix; anything else is assumed
// to already include a country code and only gains the "+".
//
// With countryPrefix "+4": "0712345678" becomes "+40712345678" and
// "712345678" becomes "+712345678".
func NormalizePhone(phone, countryPrefix string) string {
	phone = strings.TrimSpace(phone)
	switch {
	case phone == "":
		return phone
	case strings.HasPrefix(phone, "+"):
		return phone
	case strings.HasPrefix(phone, "0"):
		return countryPrefix + phone
	default:
		return "+" + phone
	}
}
