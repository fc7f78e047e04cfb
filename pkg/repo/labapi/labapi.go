package labapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/scienceol/labinv/internal/config"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo"
	"github.com/scienceol/labinv/pkg/utils"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/scienceol/labinv/pkg/repo/labapi"

func init() {
	// the lab api reads cost and quantities as json numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Client talks to the remote laboratory API. Paths are relative to the
// configured base url, e.g. "all-users" or "update-user/{id}".
type Client struct {
	client   *resty.Client
	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

func New() *Client {
	conf := config.Global().LabAPI
	return NewClient(conf.Addr, conf.Timeout)
}

func NewClient(addr string, timeout time.Duration) *Client {
	c := &Client{
		client: resty.New().
			SetTimeout(timeout).
			EnableTrace().
			SetBaseURL(addr).
			SetHeader("Content-Type", "application/json"),
	}
	c.initMetrics()
	return c
}

var _ repo.LabAPI = (*Client)(nil)

func (c *Client) initMetrics() {
	ctx := context.Background()
	meter := otel.Meter(meterName)

	requests, err := meter.Int64Counter("labapi.requests",
		metric.WithDescription("remote lab api requests by endpoint and status"))
	if err != nil {
		logger.Warnf(ctx, "labapi request counter err: %+v", err)
		requests, _ = noop.Meter{}.Int64Counter("labapi.requests")
	}

	latency, err := meter.Float64Histogram("labapi.duration",
		metric.WithDescription("remote lab api latency"),
		metric.WithUnit("ms"))
	if err != nil {
		logger.Warnf(ctx, "labapi latency histogram err: %+v", err)
		latency, _ = noop.Meter{}.Float64Histogram("labapi.duration")
	}

	c.requests = requests
	c.latency = latency
}

type errBody struct {
	Message string `json:"message"`
}

// call issues one request. out may be nil, a *string for text bodies, or any
// json target. endpoint is the stable name used in logs and metrics.
func (c *Client) call(ctx context.Context, endpoint, method, path string, body, out any) error {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	res, err := req.Execute(method, path)
	status := 0
	if res != nil {
		status = res.StatusCode()
		c.latency.Record(ctx, float64(res.Time().Milliseconds()),
			metric.WithAttributes(attribute.String("endpoint", endpoint)))
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.Int("status", status)))

	if err != nil {
		logger.Errorf(ctx, "labapi %s %s err: %+v", method, endpoint, err)
		return code.RPCHttpErr.WithErr(err)
	}

	if !res.IsSuccess() {
		eb := &errBody{}
		_ = json.Unmarshal(res.Body(), eb)
		logger.Errorf(ctx, "labapi %s %s http code: %d msg: %s", method, endpoint, status,
			utils.Or(eb.Message, http.StatusText(status)))
		return code.RPCHttpCodeErr.WithErr(&repo.RemoteError{
			Endpoint: endpoint,
			Status:   status,
			Message:  eb.Message,
		})
	}

	switch o := out.(type) {
	case nil:
		return nil
	case *string:
		*o = string(res.Body())
		return nil
	default:
		if err := json.Unmarshal(res.Body(), out); err != nil {
			logger.Errorf(ctx, "labapi %s %s decode err: %+v", method, endpoint, err)
			return code.RPCHttpCodeRespErr.WithErr(err)
		}
		return nil
	}
}

// Ping succeeds when the remote api answers at all, whatever the status.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.client.R().SetContext(ctx).Head("")
	if err != nil {
		return code.RPCHttpErr.WithErr(err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, out any) error {
	return c.call(ctx, endpoint, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint, path string, body, out any) error {
	return c.call(ctx, endpoint, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, endpoint, path string, body, out any) error {
	return c.call(ctx, endpoint, http.MethodPut, path, body, out)
}
