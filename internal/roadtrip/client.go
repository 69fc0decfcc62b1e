// Package roadtrip is the typed API surface used by every feature: checklist and route
// CRUD plus the auth calls that establish the credential they all depend on.
//
// Every operation validates its identifiers before touching the network, issues exactly
// one request through the shared transport, and returns either normalized entities or
// one of the transport error types.
package roadtrip

import (
	"fmt"

	"roadtrip/internal/adapter"
	"roadtrip/internal/config"
	"roadtrip/internal/credential"
	"roadtrip/internal/transport"
)

// Client composes the transport and the shape adapters.
type Client struct {
	api       *transport.Client
	store     credential.Store
	clock     adapter.Clock
	checklist *adapter.Checklist
	routes    *adapter.Routes
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	clock     adapter.Clock
	transport []transport.Option
}

// WithClock sets the clock used for synthesized identifiers.
func WithClock(c adapter.Clock) Option {
	return func(o *clientOptions) { o.clock = c }
}

// WithTransport passes options through to the underlying transport.
func WithTransport(opts ...transport.Option) Option {
	return func(o *clientOptions) { o.transport = append(o.transport, opts...) }
}

// New creates a client for baseDomain. store is both the token source for every request
// and the sink for Login/Logout; nil means an in-memory store.
func New(baseDomain string, store credential.Store, opts ...Option) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if store == nil {
		store = credential.NewMemoryStore("")
	}
	return &Client{
		api:       transport.New(baseDomain, store, o.transport...),
		store:     store,
		clock:     o.clock,
		checklist: adapter.NewChecklist(o.clock),
		routes:    adapter.NewRoutes(o.clock),
	}
}

// NewFromConfig creates a client from the api section of cfg.
func NewFromConfig(cfg *config.Config, store credential.Store, opts ...Option) *Client {
	opts = append([]Option{WithTransport(transport.WithTimeout(cfg.GetTimeout()))}, opts...)
	return New(cfg.API.BaseDomain, store, opts...)
}

// Transport exposes the underlying transport for ad-hoc calls.
func (c *Client) Transport() *transport.Client { return c.api }

func validID(field string, id int64) error {
	if id <= 0 {
		return &transport.ValidationError{Field: field, Reason: fmt.Sprintf("must be a positive integer, got %d", id)}
	}
	return nil
}

func checklistPath(roadtripID int64) string {
	return fmt.Sprintf("/roadtrips/%d/checklist", roadtripID)
}

func checklistElementPath(roadtripID, elementID int64) string {
	return fmt.Sprintf("/roadtrips/%d/checklist/%d", roadtripID, elementID)
}

func routesPath(roadtripID int64) string {
	return fmt.Sprintf("/roadtrips/%d/routes", roadtripID)
}

func routePath(roadtripID, routeID int64) string {
	return fmt.Sprintf("/roadtrips/%d/routes/%d", roadtripID, routeID)
}

// createdID interprets a create response that is not an entity object: a bare JSON
// number or a numeric text body is the new identifier.
func createdID(out transport.Outcome) (int64, bool) {
	switch out.Kind {
	case transport.JSONSuccess:
		v, ok := adapter.Decode(out.Payload)
		if !ok {
			return 0, false
		}
		return adapter.ID(v)
	case transport.NonJSONSuccess:
		return adapter.ID(string(out.Raw))
	}
	return 0, false
}

// responseObject returns the JSON object carried by out, if any.
func responseObject(out transport.Outcome) (map[string]any, bool) {
	if out.Kind != transport.JSONSuccess {
		return nil, false
	}
	v, ok := adapter.Decode(out.Payload)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}
