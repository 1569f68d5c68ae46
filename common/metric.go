package common

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = NewLog("common")

func NewMetricServer(port string) *http.Server {
	if port == "" {
		port = ":9000"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: port, Handler: mux}

	log.Info("Starting metric server", "listen", port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metric server stopped", "err", err)
		}
	}()
	return srv
}
