package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/everFinance/payid-validator/schema"
	"gopkg.in/h2non/gentleman.v2"
)

// Result is a validation report as served by the api.
type Result struct {
	Id         string           `json:"id"`
	PayId      string           `json:"payId"`
	Network    string           `json:"network"`
	RequestUrl string           `json:"requestUrl"`
	Errors     []string         `json:"errors"`
	FailError  string           `json:"failError"`
	Verdicts   []schema.Verdict `json:"verdicts"`
	Completed  bool             `json:"completed"`
	Score      float64          `json:"score"`
	DurationMs int64            `json:"durationMs"`
}

type Client struct {
	SCli *gentleman.Client
}

func New(validatorUrl string) *Client {
	return &Client{
		SCli: gentleman.New().URL(validatorUrl),
	}
}

func (c *Client) GetInfo() (schema.RespInfo, error) {
	info := schema.RespInfo{}
	err := c.get("/info", nil, &info)
	return info, err
}

func (c *Client) GetNetworks() ([]schema.NetworkDescriptor, error) {
	res := make([]schema.NetworkDescriptor, 0)
	err := c.get("/networks", nil, &res)
	return res, err
}

// Validate runs a validation on the server. Input problems come back as an
// error and a Result carrying them in Errors.
func (c *Client) Validate(payId, network string) (Result, error) {
	req := c.SCli.Post()
	req.AddPath("/validate")
	req.JSON(schema.ReqValidate{PayId: payId, Network: network})
	resp, err := req.Send()
	if err != nil {
		return Result{}, err
	}
	defer resp.Close()

	res := Result{}
	switch resp.StatusCode {
	case http.StatusOK:
		err = json.Unmarshal(resp.Bytes(), &res)
	case http.StatusBadRequest:
		if err = json.Unmarshal(resp.Bytes(), &res); err == nil && len(res.Errors) > 0 {
			err = errors.New(strings.Join(res.Errors, "; "))
		} else {
			err = respError(resp)
		}
	default:
		err = respError(resp)
	}
	return res, err
}

// GetReports lists stored reports, newest first. An empty payId lists all.
func (c *Client) GetReports(limit int, payId string) ([]schema.ReportSummary, error) {
	query := map[string]string{"limit": strconv.Itoa(limit)}
	if payId != "" {
		query["payId"] = payId
	}
	res := make([]schema.ReportSummary, 0)
	err := c.get("/reports", query, &res)
	return res, err
}

func (c *Client) GetReport(id string) (Result, error) {
	res := Result{}
	err := c.get(fmt.Sprintf("/reports/%s", id), nil, &res)
	return res, err
}

func (c *Client) get(path string, query map[string]string, v interface{}) error {
	req := c.SCli.Get()
	req.AddPath(path)
	if query != nil {
		req.SetQueryParams(query)
	}
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return respError(resp)
	}
	return json.Unmarshal(resp.Bytes(), v)
}

func respError(resp *gentleman.Response) error {
	e := schema.RespErr{}
	if err := json.Unmarshal(resp.Bytes(), &e); err == nil && e.Err != "" {
		if e.Err == schema.ErrNotFound.Error() {
			return schema.ErrNotFound
		}
		return errors.New(e.Err)
	}
	return fmt.Errorf("%w: %d %s", schema.ErrBadStatus, resp.StatusCode, resp.String())
}
