// Package notion wraps the Notion API for lead database management.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Notion API operations used by this application.
type Client interface {
	SearchDatabases(ctx context.Context, query string) ([]*notionapi.Database, error)
	CreateDatabase(ctx context.Context, req *notionapi.DatabaseCreateRequest) (*notionapi.Database, error)
	CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

// ClientOption configures the Notion client.
type ClientOption func(*notionClient)

// WithRateLimit overrides the default Notion rate limit (3 req/s).
func WithRateLimit(rps float64) ClientOption {
	return func(c *notionClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// notionClient implements Client by wrapping a *notionapi.Client.
type notionClient struct {
	inner   *notionapi.Client
	limiter *rate.Limiter
}

// NewClient creates a new Notion client with the given integration token.
// By default, API calls are throttled to 3 req/s (Notion's rate limit).
func NewClient(token string, opts ...ClientOption) Client {
	c := &notionClient{
		inner:   notionapi.NewClient(notionapi.Token(token)),
		limiter: rate.NewLimiter(3, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the rate limiter allows one event, or ctx is cancelled.
func (c *notionClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// SearchDatabases returns all databases whose title matches the query.
// Pagination is followed until exhausted.
func (c *notionClient) SearchDatabases(ctx context.Context, query string) ([]*notionapi.Database, error) {
	var dbs []*notionapi.Database

	req := &notionapi.SearchRequest{
		Query: query,
		Filter: notionapi.SearchFilter{
			Value:    "database",
			Property: "object",
		},
	}

	for {
		if err := c.wait(ctx); err != nil {
			return nil, eris.Wrap(err, "notion: rate limit")
		}
		resp, err := c.inner.Search.Do(ctx, req)
		if err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("notion: search databases %q", query))
		}
		for _, obj := range resp.Results {
			if db, ok := obj.(*notionapi.Database); ok {
				dbs = append(dbs, db)
			}
		}
		if !resp.HasMore {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	return dbs, nil
}

func (c *notionClient) CreateDatabase(ctx context.Context, req *notionapi.DatabaseCreateRequest) (*notionapi.Database, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "notion: rate limit")
	}
	db, err := c.inner.Database.Create(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "notion: create database")
	}
	return db, nil
}

func (c *notionClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "notion: rate limit")
	}
	page, err := c.inner.Page.Create(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "notion: create page")
	}
	return page, nil
}

func (c *notionClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "notion: rate limit")
	}
	page, err := c.inner.Page.Update(ctx, notionapi.PageID(pageID), req)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("notion: update page %s", pageID))
	}
	return page, nil
}

// FindDatabaseByTitle returns the first database whose plain-text title
// equals name exactly, or nil if none matches.
func FindDatabaseByTitle(ctx context.Context, c Client, name string) (*notionapi.Database, error) {
	dbs, err := c.SearchDatabases(ctx, name)
	if err != nil {
		return nil, eris.Wrap(err, "notion: find database")
	}
	for _, db := range dbs {
		if plainTitle(db.Title) == name {
			return db, nil
		}
	}
	return nil, nil
}

func plainTitle(title []notionapi.RichText) string {
	var out string
	for _, rt := range title {
		out += rt.PlainText
	}
	return out
}
