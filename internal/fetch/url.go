package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// EnsureAutoParam guarantees the URL carries the auto query parameter.
// mod_status only emits machine-parsable Key: Value output when the status
// page is requested with ?auto; without it the endpoint returns HTML.
//
// A URL that already has the parameter (any casing, any position, with or
// without a value) is returned unchanged. Otherwise auto is appended to the
// existing raw query so prior parameters keep their original encoding.
func EnsureAutoParam(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	if q, err := url.ParseQuery(u.RawQuery); err == nil {
		for key := range q {
			if strings.EqualFold(key, "auto") {
				return rawURL, nil
			}
		}
	}

	if u.RawQuery == "" {
		u.RawQuery = "auto"
	} else {
		u.RawQuery += "&auto"
	}
	return u.String(), nil
}
