// ABOUTME: Typed helpers for each backend endpoint the widget uses
// ABOUTME: messages, chat, widget-config, lead, and form/submit

package gateway

import (
	"context"
	"net/http"
)

// History fetches prior conversation messages for this client.
func (c *Client) History(ctx context.Context) ([]Message, error) {
	ctx, cancel := c.background(ctx)
	defer cancel()

	var resp HistoryResponse
	if err := c.Call(ctx, http.MethodGet, "messages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Chat sends one visitor message. It is bounded only by ctx, so a visitor
// stop is the way to give up on a slow reply.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	req := ChatRequest{Message: message}
	if c.ids != nil {
		req.ClientID = c.ids.ClientID()
	}

	var reply *ChatReply
	if err := c.Call(ctx, http.MethodPost, "chat", req, &reply); err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, ErrEmptyReply
	}
	return reply, nil
}

// WidgetConfig fetches the current widget configuration. A nil config with
// a nil error means the backend returned an empty body.
func (c *Client) WidgetConfig(ctx context.Context) (*WidgetConfig, error) {
	ctx, cancel := c.background(ctx)
	defer cancel()

	var wc *WidgetConfig
	if err := c.Call(ctx, http.MethodGet, "widget-config", nil, &wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// Lead fetches any lead already saved for this client. A nil lead means
// none exists.
func (c *Client) Lead(ctx context.Context) (*Lead, error) {
	ctx, cancel := c.background(ctx)
	defer cancel()

	var lead *Lead
	if err := c.Call(ctx, http.MethodGet, "lead", nil, &lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// SaveLead stores the visitor's name and email.
func (c *Client) SaveLead(ctx context.Context, name, email string) error {
	ctx, cancel := c.background(ctx)
	defer cancel()

	req := LeadRequest{Name: name, Email: email}
	if c.ids != nil {
		req.ClientID = c.ids.ClientID()
	}
	return c.Call(ctx, http.MethodPost, "lead", req, nil)
}

// SubmitForm posts the full visitor form when there is no email field.
func (c *Client) SubmitForm(ctx context.Context, fields map[string]string) error {
	ctx, cancel := c.background(ctx)
	defer cancel()

	return c.Call(ctx, http.MethodPost, "form/submit", fields, nil)
}
