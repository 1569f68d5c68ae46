package payid

import (
	"fmt"
	"strings"

	"github.com/everFinance/payid-validator/schema"
)

func IsNetworkSupported(name string) error {
	if _, ok := schema.LookupNetwork(name); !ok {
		return fmt.Errorf("%w: The Request Type provided is not valid.", schema.ErrUnsupportedNetwork)
	}
	return nil
}

// Preflight runs both input checks and returns the message of every failure.
func Preflight(payId, network string) []string {
	var msgs []string
	if _, err := Parse(payId); err != nil {
		msgs = append(msgs, Message(err))
	}
	if err := IsNetworkSupported(network); err != nil {
		msgs = append(msgs, Message(err))
	}
	return msgs
}

func HasPreflightErrors(payId, network string) ([]string, bool) {
	msgs := Preflight(payId, network)
	return msgs, len(msgs) > 0
}

// Message strips the sentinel prefix from a preflight error.
func Message(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
