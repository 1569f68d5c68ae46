package payid

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/everFinance/payid-validator/schema"
)

const Delimiter = "$"

var payIdRegexp = regexp.MustCompile("^[a-z0-9!#@%&*+=?^_`{|}~-]+(?:\\.[a-z0-9!#@%&*+=?^_`{|}~-]+)*\\$" +
	`(?:(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z-]*[a-z0-9])?|(?:[0-9]{1,3}\.){3}[0-9]{1,3})$`)

// PayID is a parsed identifier such as alice$example.com.
type PayID struct {
	User string
	Host string
}

// Parse checks s against the PayID grammar. The grammar is lowercase only;
// pass the input through Normalize first when it comes from a user.
func Parse(s string) (PayID, error) {
	if !payIdRegexp.MatchString(s) {
		return PayID{}, fmt.Errorf("%w: The PayID you specified (%s) is not a valid format for a PayID.", schema.ErrInvalidPayID, s)
	}
	// the local part cannot contain the delimiter, so the first one splits
	idx := strings.Index(s, Delimiter)
	return PayID{User: s[:idx], Host: s[idx+1:]}, nil
}

func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (p PayID) String() string {
	return p.User + Delimiter + p.Host
}

// URL is the address a PayID server answers on for this identifier.
func (p PayID) URL() string {
	u := url.URL{Scheme: "https", Host: p.Host, Path: "/" + p.User}
	return u.String()
}
