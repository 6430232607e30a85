package api

import (
	"context"
	"net/url"
)

// Params are query parameters; empty values are dropped.
type Params map[string]string

func (p Params) values() url.Values {
	vals := url.Values{}
	for key, val := range p {
		if val != "" {
			vals.Set(key, val)
		}
	}
	return vals
}

// Metric names accepted by Metrics.
const (
	MetricAll               = "all"
	MetricMRR               = "mrr"
	MetricARR               = "arr"
	MetricARPA              = "arpa"
	MetricASP               = "asp"
	MetricCustomerCount     = "customer-count"
	MetricCustomerChurnRate = "customer-churn-rate"
	MetricMRRChurnRate      = "mrr-churn-rate"
	MetricLTV               = "ltv"
)

// Ping checks API reachability and credentials.
func (c *Client) Ping(ctx context.Context) (any, error) {
	return c.get(ctx, "/ping", nil)
}

// Account fetches the authenticated account.
func (c *Client) Account(ctx context.Context) (any, error) {
	return c.get(ctx, "/account", nil)
}

// DataSources lists all data sources.
func (c *Client) DataSources(ctx context.Context) (any, error) {
	return c.get(ctx, "/data_sources", nil)
}

// DataSource fetches a single data source.
func (c *Client) DataSource(ctx context.Context, uuid string) (any, error) {
	return c.get(ctx, "/data_sources/"+url.PathEscape(uuid), nil)
}

// Customers lists customers. Supported params: data_source_uuid, status,
// system, external_id, page, per_page.
func (c *Client) Customers(ctx context.Context, params Params) (any, error) {
	return c.get(ctx, "/customers", params.values())
}

// Customer fetches a single customer.
func (c *Client) Customer(ctx context.Context, uuid string) (any, error) {
	return c.get(ctx, "/customers/"+url.PathEscape(uuid), nil)
}

// SearchCustomers searches customers by email.
func (c *Client) SearchCustomers(ctx context.Context, email string) (any, error) {
	return c.get(ctx, "/customers/search", Params{"email": email}.values())
}

// CustomerActivities lists one customer's activities. Supported params:
// page, per_page.
func (c *Client) CustomerActivities(ctx context.Context, uuid string, params Params) (any, error) {
	return c.get(ctx, "/customers/"+url.PathEscape(uuid)+"/activities", params.values())
}

// CustomerSubscriptions lists one customer's subscriptions.
func (c *Client) CustomerSubscriptions(ctx context.Context, uuid string) (any, error) {
	return c.get(ctx, "/customers/"+url.PathEscape(uuid)+"/subscriptions", nil)
}

// Plans lists plans. Supported params: data_source_uuid, page, per_page.
func (c *Client) Plans(ctx context.Context, params Params) (any, error) {
	return c.get(ctx, "/plans", params.values())
}

// Plan fetches a single plan.
func (c *Client) Plan(ctx context.Context, uuid string) (any, error) {
	return c.get(ctx, "/plans/"+url.PathEscape(uuid), nil)
}

// Invoices lists invoices. Supported params: customer_uuid,
// data_source_uuid, external_id, page, per_page.
func (c *Client) Invoices(ctx context.Context, params Params) (any, error) {
	return c.get(ctx, "/invoices", params.values())
}

// Invoice fetches a single invoice.
func (c *Client) Invoice(ctx context.Context, uuid string) (any, error) {
	return c.get(ctx, "/invoices/"+url.PathEscape(uuid), nil)
}

// Metrics fetches a metrics series. Supported params: start-date, end-date,
// interval.
func (c *Client) Metrics(ctx context.Context, metric string, params Params) (any, error) {
	return c.get(ctx, "/metrics/"+url.PathEscape(metric), params.values())
}

// Activities lists account-wide activities. Supported params: start-date,
// end-date, type, page, per_page.
func (c *Client) Activities(ctx context.Context, params Params) (any, error) {
	return c.get(ctx, "/activities", params.values())
}
