package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/supabase-community/postgrest-go"
)

const schemaPublic = "public"

// Config contains the project URL and the API key (anon or service role).
type Config struct {
	URL    string
	APIKey string
}

// Client reads tables through the project's PostgREST endpoint.
// Queries build their own request state, so one Client is shared across requests.
type Client struct {
	rest   *postgrest.Client
	logger zerolog.Logger
}

// New constructs a Supabase REST client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase url and api key must be provided")
	}

	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid supabase url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid supabase url %q", cfg.URL)
	}

	rest := postgrest.NewClient(base.JoinPath("rest", "v1").String(), schemaPublic, map[string]string{
		"apikey": cfg.APIKey,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("create postgrest client: %w", rest.ClientError)
	}
	rest.SetAuthToken(cfg.APIKey)

	return &Client{
		rest:   rest,
		logger: logger.With().Str("component", "supabase").Logger(),
	}, nil
}

// From starts a read query against table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

type filter struct {
	column string
	value  string
}

type order struct {
	column    string
	ascending bool
}

// Query is a single PostgREST read. Builders mutate and return the receiver.
type Query struct {
	client  *Client
	table   string
	columns []string
	filters []filter
	orders  []order
	single  bool
}

// Select restricts the returned columns.
func (q *Query) Select(columns ...string) *Query {
	q.columns = columns
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column string, value interface{}) *Query {
	q.filters = append(q.filters, filter{column: column, value: fmt.Sprint(value)})
	return q
}

// Order appends a sort key; keys apply in the order they are added.
func (q *Query) Order(column string, ascending bool) *Query {
	q.orders = append(q.orders, order{column: column, ascending: ascending})
	return q
}

// Single asks the server for exactly one row; any other count is reported as an error.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Execute runs the query and decodes the body into dest.
func (q *Query) Execute(ctx context.Context, dest interface{}) error {
	columns := "*"
	if len(q.columns) > 0 {
		columns = strings.Join(q.columns, ",")
	}

	builder := q.client.rest.From(q.table).Select(columns, "", false)
	for _, f := range q.filters {
		builder = builder.Eq(f.column, f.value)
	}
	for _, o := range q.orders {
		builder = builder.Order(o.column, &postgrest.OrderOpts{Ascending: o.ascending})
	}
	if q.single {
		builder = builder.Single()
	}

	if _, err := builder.ExecuteToWithContext(ctx, dest); err != nil {
		q.client.logger.Debug().
			Err(err).
			Str("table", q.table).
			Bool("single", q.single).
			Msg("supabase query failed")
		return err
	}

	return nil
}
