package common

import (
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/inconshreveable/log15"
)

// NewLog returns a module logger that also forwards error records to sentry.
// Records go through the root handler, so InitLog affects every logger.
func NewLog(module string) log15.Logger {
	lg := log15.New("module", module)

	h := lg.GetHandler()
	sentryHandle := log15.FuncHandler(func(r *log15.Record) error {
		if r.Lvl <= log15.LvlError {
			msg := string(log15.JsonFormat().Format(r))
			go func(m string) {
				sentry.CaptureMessage(m)
			}(msg)
		}
		return nil
	})

	lg.SetHandler(log15.MultiHandler(h, sentryHandle))

	return lg
}

// InitLog sets the root verbosity; debug enables per-check records.
func InitLog(debug bool) {
	lvl := log15.LvlInfo
	if debug {
		lvl = log15.LvlDebug
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(os.Stderr, log15.TerminalFormat())))
}
