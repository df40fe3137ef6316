package core

import "context"

type clientKey struct{}

// Client identifies who issued a request; the journal stamps it on entries.
type Client struct {
	IP        string
	UserAgent string
}

// WithClient attaches the requesting client to ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFrom returns the client attached to ctx, or the zero Client.
func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}
