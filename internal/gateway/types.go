// ABOUTME: Wire types exchanged with the chatbot backend
// ABOUTME: JSON field names follow the backend's snake_case schema

package gateway

import "encoding/json"

// Message is one history entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryResponse is the body of GET messages.
type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

// ChatRequest is the body of POST chat.
type ChatRequest struct {
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}

// ChatReply is the body returned by POST chat.
type ChatReply struct {
	Reply   string `json:"reply"`
	UsedFAQ bool   `json:"used_faq"`
	RunID   string `json:"run_id,omitempty"`
}

// FieldSpec describes one visitor form input.
type FieldSpec struct {
	Name        string  `json:"name"`
	Label       string  `json:"label,omitempty"`
	Type        string  `json:"type,omitempty"`
	Required    bool    `json:"required"`
	Placeholder *string `json:"placeholder,omitempty"`
	Order       int     `json:"order"`
}

// WidgetConfig is the body of GET widget-config. Pointer fields are
// optional: nil means the backend did not send the field.
type WidgetConfig struct {
	FormEnabled      bool            `json:"form_enabled"`
	Fields           []FieldSpec     `json:"fields"`
	PrimaryColor     *string         `json:"primary_color,omitempty"`
	AvatarURL        *string         `json:"avatar_url,omitempty"`
	BotName          *string         `json:"bot_name,omitempty"`
	WidgetIcon       *string         `json:"widget_icon,omitempty"`
	WidgetPosition   *string         `json:"widget_position,omitempty"`
	Subheading       *string         `json:"subheading,omitempty"`
	InputPlaceholder *string         `json:"input_placeholder,omitempty"`
	ShowBranding     *bool           `json:"show_branding,omitempty"`
	OpenByDefault    *bool           `json:"open_by_default,omitempty"`
	StarterQuestions json.RawMessage `json:"starter_questions,omitempty"`
}

// Lead is the visitor contact record returned by GET lead.
type Lead struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// LeadRequest is the body of POST lead.
type LeadRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	ClientID string `json:"client_id"`
}
