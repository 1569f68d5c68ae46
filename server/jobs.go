package server

import (
	"time"
)

func (s *Server) runJobs() {
	if s.wdb != nil && s.retention > 0 {
		s.scheduler.Every(1).Hour().SingletonMode().Do(s.purgeReports)
	}
	s.scheduler.StartAsync()
}

func (s *Server) purgeReports() {
	n, err := s.wdb.DeleteReportsBefore(time.Now().Add(-s.retention))
	if err != nil {
		log.Error("s.wdb.DeleteReportsBefore", "err", err)
		return
	}
	if n > 0 {
		log.Info("purge expired reports", "number", n)
	}
}
