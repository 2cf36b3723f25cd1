// Package api exposes the nightlife REST resources as typed calls over the
// session client. Failures reported by the session client are returned as
// they are, so callers keep branching on session.KindOf.
package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/pkg/errors"
)

// Requester is the part of the session client the resources use.
type Requester interface {
	Get(ctx context.Context, path string, opts ...session.RequestOption) (*session.Response, error)
	Post(ctx context.Context, path string, body any, opts ...session.RequestOption) (*session.Response, error)
	Put(ctx context.Context, path string, body any, opts ...session.RequestOption) (*session.Response, error)
	Patch(ctx context.Context, path string, body any, opts ...session.RequestOption) (*session.Response, error)
	Delete(ctx context.Context, path string, opts ...session.RequestOption) (*session.Response, error)
}

var _ Requester = (*session.Client)(nil)

type Client struct {
	session Requester
}

func New(requester Requester) *Client {
	return &Client{session: requester}
}

// PageQuery selects a page of a list endpoint. Zero values use the backend
// defaults.
type PageQuery struct {
	Page     int
	PageSize int
}

func (q PageQuery) options() []session.RequestOption {
	var opts []session.RequestOption
	if q.Page > 0 {
		opts = append(opts, session.WithQuery("page", strconv.Itoa(q.Page)))
	}
	if q.PageSize > 0 {
		opts = append(opts, session.WithQuery("page_size", strconv.Itoa(q.PageSize)))
	}
	return opts
}

func decode[T any](resp *session.Response, what string) (*T, error) {
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", what)
	}
	return &out, nil
}

func get[T any](ctx context.Context, c *Client, path, what string, opts ...session.RequestOption) (*T, error) {
	resp, err := c.session.Get(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return decode[T](resp, what)
}

func post[T any](ctx context.Context, c *Client, path string, body any, what string) (*T, error) {
	resp, err := c.session.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decode[T](resp, what)
}

func patch[T any](ctx context.Context, c *Client, path string, body any, what string) (*T, error) {
	resp, err := c.session.Patch(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decode[T](resp, what)
}

func resourcePath(collection string, id int64, action ...string) string {
	path := fmt.Sprintf("%s%d/", collection, id)
	for _, a := range action {
		path += a + "/"
	}
	return path
}
