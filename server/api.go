package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	payidvalidator "github.com/everFinance/payid-validator"
	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/payid"
	"github.com/everFinance/payid-validator/schema"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

func (s *Server) registerRoutes() error {
	r := s.engine
	r.Use(gin.Recovery(), common.CORSMiddleware())

	limiter, err := common.LimiterMiddleware(s.limit.Rate, s.limit.Period, nil)
	if err != nil {
		return err
	}

	r.GET("/info", s.getInfo)
	r.GET("/networks", s.getNetworks)
	r.POST("/validate", limiter, s.validate)
	r.GET("/reports", s.getReports)
	r.GET("/reports/:id", s.getReport)
	return nil
}

func (s *Server) getInfo(c *gin.Context) {
	c.JSON(http.StatusOK, schema.RespInfo{
		Name:     "payid-validator",
		Version:  Version,
		Networks: schema.NetworkNames(),
		History:  s.wdb != nil,
	})
}

func (s *Server) getNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, schema.NetworkList())
}

func (s *Server) validate(c *gin.Context) {
	req := schema.ReqValidate{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}

	report := s.validator.Validate(payid.Normalize(req.PayId), req.Network)
	if report.HasPreflightErrors() {
		c.JSON(http.StatusBadRequest, report)
		return
	}
	s.saveReport(report)
	c.JSON(http.StatusOK, report)
}

// saveReport stores and publishes a finished run. Failures are logged only,
// the caller already has its report.
func (s *Server) saveReport(report *payidvalidator.Report) {
	if s.wdb != nil {
		rec, err := report.Record()
		if err != nil {
			log.Error("report.Record()", "err", err, "id", report.ID)
		} else if err = s.wdb.InsertReport(rec); err != nil {
			log.Error("s.wdb.InsertReport(rec)", "err", err, "id", report.ID)
		}
	}

	if s.publisher != nil {
		by, err := json.Marshal(report.Summary())
		if err != nil {
			log.Error("json.Marshal(summary)", "err", err, "id", report.ID)
			return
		}
		if err = s.publisher.Write(by); err != nil {
			log.Error("s.publisher.Write(summary)", "err", err, "id", report.ID)
		}
	}
}

func (s *Server) getReports(c *gin.Context) {
	if s.wdb == nil {
		notFoundResponse(c, schema.ErrHistoryDisabled.Error())
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		errorResponse(c, "limit must be a positive number")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := s.wdb.ListReports(limit, payid.Normalize(c.Query("payId")))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	summaries := make([]schema.ReportSummary, 0, len(records))
	for _, rec := range records {
		report, err := payidvalidator.ReportFromRecord(rec)
		if err != nil {
			log.Warn("payidvalidator.ReportFromRecord(rec)", "err", err, "id", rec.RunId)
			continue
		}
		summaries = append(summaries, report.Summary())
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) getReport(c *gin.Context) {
	if s.wdb == nil {
		notFoundResponse(c, schema.ErrHistoryDisabled.Error())
		return
	}
	rec, err := s.wdb.GetReport(c.Param("id"))
	if errors.Is(err, schema.ErrNotFound) {
		notFoundResponse(c, schema.ErrNotFound.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	report, err := payidvalidator.ReportFromRecord(rec)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

func errorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func notFoundResponse(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
