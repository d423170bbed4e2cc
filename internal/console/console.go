// Package console is the typed endpoint layer over the gateway's REST
// surface. Every method follows the same shape: build a RequestSpec, run
// it, check for a declared envelope failure before trusting anything,
// unwrap, parse. Transport and configuration problems surface as wrapped
// errors; everything the server said is an *APIError.
package console

import (
	"context"
	"fmt"
	"net/http"

	"github.com/janekbaraniewski/gateusage/internal/api"
	"github.com/janekbaraniewski/gateusage/internal/core"
	"github.com/janekbaraniewski/gateusage/internal/pager"
	"github.com/janekbaraniewski/gateusage/internal/parsers"
)

// APIError is a failure the gateway itself reported: either an envelope
// with success:false (Declared) or a non-2xx status. The declared message
// always wins over a generic status line, since a failing envelope may
// still carry a data field that must not be rendered as success.
type APIError struct {
	Status   int
	Message  string
	Declared bool
}

func (e *APIError) Error() string {
	if e.Declared {
		return e.Message
	}
	return fmt.Sprintf("gateway returned HTTP %d", e.Status)
}

func errorFromResult(result api.Result) *APIError {
	if msg := parsers.ErrorMessage(result.Body); msg != "" {
		return &APIError{Status: result.Status, Message: msg, Declared: true}
	}
	if !result.OK {
		return &APIError{Status: result.Status}
	}
	return nil
}

type Console struct {
	client *api.Client
}

func New(client *api.Client) *Console {
	return &Console{client: client}
}

// Self returns the account the session is authenticated as.
func (c *Console) Self(ctx context.Context) (core.User, error) {
	return fetchOne(ctx, c, api.RequestSpec{Path: "/api/user/self"}, parsers.ParseUser)
}

// LoginStatus probes the gateway without auth headers; it reports whether
// the service is up and answering, not whether the session is valid.
func (c *Console) LoginStatus(ctx context.Context) (bool, error) {
	result, err := c.client.Do(ctx, api.RequestSpec{
		Path:         "/api/status",
		SkipIdentity: true,
		SkipToken:    true,
	})
	if err != nil {
		return false, err
	}
	return result.OK && parsers.ErrorMessage(result.Body) == "", nil
}

func (c *Console) Tokens(ctx context.Context, page, pageSize int) (pager.Page[core.Token], error) {
	return fetchList(ctx, c, listSpec("/api/token/", page, pageSize, nil), parsers.ParseToken)
}

// LogFilter narrows the usage log listing. Nil fields are omitted from
// the query entirely. Timestamps are epoch seconds.
type LogFilter struct {
	Type           *int64
	TokenName      *string
	ModelName      *string
	StartTimestamp *int64
	EndTimestamp   *int64
}

func (f LogFilter) apply(spec *api.RequestSpec) {
	spec.SetQueryInt("type", f.Type)
	spec.SetQuery("token_name", f.TokenName)
	spec.SetQuery("model_name", f.ModelName)
	spec.SetQueryInt("start_timestamp", f.StartTimestamp)
	spec.SetQueryInt("end_timestamp", f.EndTimestamp)
}

func (c *Console) Logs(ctx context.Context, page, pageSize int, filter LogFilter) (pager.Page[core.LogItem], error) {
	return fetchList(ctx, c, listSpec("/api/log/self", page, pageSize, filter.apply), parsers.ParseLogItem)
}

// Channels requires an admin session; non-admin accounts get a declared
// permission failure from the gateway.
func (c *Console) Channels(ctx context.Context, page, pageSize int) (pager.Page[core.Channel], error) {
	return fetchList(ctx, c, listSpec("/api/channel/", page, pageSize, nil), parsers.ParseChannel)
}

func (c *Console) Redemptions(ctx context.Context, page, pageSize int) (pager.Page[core.Redemption], error) {
	return fetchList(ctx, c, listSpec("/api/redemption/", page, pageSize, nil), parsers.ParseRedemption)
}

func (c *Console) TopupRecords(ctx context.Context, page, pageSize int) (pager.Page[core.TopupRecord], error) {
	return fetchList(ctx, c, listSpec("/api/user/topup/records", page, pageSize, nil), parsers.ParseTopupRecord)
}

func (c *Console) TopupInfo(ctx context.Context) (core.TopupInfo, error) {
	return fetchOne(ctx, c, api.RequestSpec{Path: "/api/user/topup/info"}, parsers.ParseTopupInfo)
}

func (c *Console) PayMethods(ctx context.Context) ([]core.PayMethod, int, error) {
	return fetchAll(ctx, c, api.RequestSpec{Path: "/api/user/pay_methods"}, parsers.ParsePayMethod)
}

func (c *Console) CreemProducts(ctx context.Context) ([]core.CreemProduct, int, error) {
	return fetchAll(ctx, c, api.RequestSpec{Path: "/api/creem/products"}, parsers.ParseCreemProduct)
}

// QuotaData returns the raw usage rows for [start, end] (epoch seconds),
// ready for series.Aggregate. The dropped count covers rows the gateway
// sent without a usable timestamp.
func (c *Console) QuotaData(ctx context.Context, start, end int64) ([]core.QuotaDataPoint, int, error) {
	spec := api.RequestSpec{Path: "/api/data/self"}
	spec.SetQueryInt("start_timestamp", core.Int64Ptr(start))
	spec.SetQueryInt("end_timestamp", core.Int64Ptr(end))
	return fetchAll(ctx, c, spec, parsers.ParseQuotaDataPoint)
}

// TokensPager, LogsPager etc. bind an endpoint to a pagination controller
// for the list screens.
func (c *Console) TokensPager(pageSize int) *pager.Pager[core.Token] {
	return pager.New(pageSize, func(ctx context.Context, page, size int) (pager.Page[core.Token], error) {
		return c.Tokens(ctx, page, size)
	})
}

func (c *Console) LogsPager(pageSize int, filter LogFilter) *pager.Pager[core.LogItem] {
	return pager.New(pageSize, func(ctx context.Context, page, size int) (pager.Page[core.LogItem], error) {
		return c.Logs(ctx, page, size, filter)
	})
}

func (c *Console) ChannelsPager(pageSize int) *pager.Pager[core.Channel] {
	return pager.New(pageSize, func(ctx context.Context, page, size int) (pager.Page[core.Channel], error) {
		return c.Channels(ctx, page, size)
	})
}

func (c *Console) RedemptionsPager(pageSize int) *pager.Pager[core.Redemption] {
	return pager.New(pageSize, func(ctx context.Context, page, size int) (pager.Page[core.Redemption], error) {
		return c.Redemptions(ctx, page, size)
	})
}

func (c *Console) TopupRecordsPager(pageSize int) *pager.Pager[core.TopupRecord] {
	return pager.New(pageSize, func(ctx context.Context, page, size int) (pager.Page[core.TopupRecord], error) {
		return c.TopupRecords(ctx, page, size)
	})
}

func listSpec(path string, page, pageSize int, extra func(*api.RequestSpec)) api.RequestSpec {
	if page < 1 {
		page = 1
	}
	spec := api.RequestSpec{Method: http.MethodGet, Path: path}
	spec.SetQueryInt("p", core.Int64Ptr(int64(page)))
	if pageSize > 0 {
		spec.SetQueryInt("page_size", core.Int64Ptr(int64(pageSize)))
	}
	if extra != nil {
		extra(&spec)
	}
	return spec
}

func fetchList[T any](ctx context.Context, c *Console, spec api.RequestSpec, parse parsers.RowParser[T]) (pager.Page[T], error) {
	result, err := c.client.Do(ctx, spec)
	if err != nil {
		return pager.Page[T]{}, err
	}
	if apiErr := errorFromResult(result); apiErr != nil {
		return pager.Page[T]{}, apiErr
	}

	payload := parsers.Unwrap(result.Body)
	items, dropped := parsers.ParseList(payload, parse)

	page := pager.Page[T]{Items: items, Dropped: dropped}
	if n, ok := parsers.GetInt(payload, "page"); ok {
		page.Page = int(n)
	}
	if n, ok := parsers.GetInt(payload, "page_size"); ok {
		page.PageSize = int(n)
	}
	if n, ok := parsers.GetInt(payload, "total"); ok {
		page.Total = int(n)
	}
	return page, nil
}

func fetchAll[T any](ctx context.Context, c *Console, spec api.RequestSpec, parse parsers.RowParser[T]) ([]T, int, error) {
	result, err := c.client.Do(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	if apiErr := errorFromResult(result); apiErr != nil {
		return nil, 0, apiErr
	}
	items, dropped := parsers.ParseList(parsers.Unwrap(result.Body), parse)
	return items, dropped, nil
}

func fetchOne[T any](ctx context.Context, c *Console, spec api.RequestSpec, parse parsers.RowParser[T]) (T, error) {
	var zero T
	result, err := c.client.Do(ctx, spec)
	if err != nil {
		return zero, err
	}
	if apiErr := errorFromResult(result); apiErr != nil {
		return zero, apiErr
	}
	entity, ok := parsers.ParseOne(parsers.Unwrap(result.Body), parse)
	if !ok {
		return zero, fmt.Errorf("console: response for %s is missing identity fields", spec.Path)
	}
	return entity, nil
}
