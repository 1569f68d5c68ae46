package server

import (
	"net/http"
	"time"

	payidvalidator "github.com/everFinance/payid-validator"
	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/schema"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
)

var log = common.NewLog("server")

const Version = "v0.1.0"

// Publisher receives a JSON summary of every validation run.
type Publisher interface {
	Write(body []byte) error
	Close()
}

type Server struct {
	validator *payidvalidator.Validator
	engine    *gin.Engine
	scheduler *gocron.Scheduler
	httpSrv   *http.Server

	wdb       *Wdb // nil when history is disabled
	publisher Publisher
	limit     schema.Limit
	retention time.Duration
}

// New wires the HTTP API around v. History is kept in mysql when a dsn is
// configured, otherwise in sqlite when a dir is configured.
func New(cfg schema.Config, v *payidvalidator.Validator) (*Server, error) {
	var (
		wdb *Wdb
		err error
	)
	switch {
	case cfg.Mysql != "":
		wdb, err = NewMysqlDb(cfg.Mysql)
	case cfg.SqliteDir != "":
		wdb, err = NewSqliteDb(cfg.SqliteDir)
	}
	if err != nil {
		return nil, err
	}
	if wdb != nil {
		if err = wdb.Migrate(); err != nil {
			return nil, err
		}
	}

	var publisher Publisher
	if cfg.Kafka.Start {
		publisher, err = NewKWriter(ReportTopic, cfg.Kafka.Uri)
		if err != nil {
			return nil, err
		}
	}

	return NewWithStore(v, wdb, publisher, cfg.Limit, time.Duration(cfg.RetentionHours)*time.Hour), nil
}

func NewWithStore(v *payidvalidator.Validator, wdb *Wdb, publisher Publisher, limit schema.Limit, retention time.Duration) *Server {
	return &Server{
		validator: v,
		engine:    gin.New(),
		scheduler: gocron.NewScheduler(time.UTC),
		wdb:       wdb,
		publisher: publisher,
		limit:     limit,
		retention: retention,
	}
}

func (s *Server) Run(port string) error {
	if err := s.registerRoutes(); err != nil {
		return err
	}
	s.runJobs()

	s.httpSrv = &http.Server{Addr: port, Handler: s.engine}
	go func() {
		log.Info("Starting api server", "listen", port)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("api server stopped", "err", err)
		}
	}()
	return nil
}

func (s *Server) Close() {
	s.scheduler.Stop()
	if s.httpSrv != nil {
		if err := s.httpSrv.Close(); err != nil {
			log.Warn("close api server", "err", err)
		}
	}
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.wdb != nil {
		s.wdb.Close()
	}
}
