// ABOUTME: Conversation engine: transcript, single in-flight send, typing state
// ABOUTME: Every send ends in exactly one assistant message

package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/2389/chatwidget/internal/gateway"
)

// Transcript texts.
const (
	FAQPrefix   = "📚 "
	StoppedText = "(stopped)"
	ErrorPrefix = "Error: "
)

var (
	// ErrChatLocked is returned when the lead gate hides the chat.
	ErrChatLocked = errors.New("chat is locked until contact details are saved")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

// Role is who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Avatar is set for assistant messages.
type Message struct {
	Seq     int
	Role    Role
	Content string
	Avatar  string
}

// SendState guards the single in-flight chat call.
type SendState int

const (
	Idle SendState = iota
	Sending
)

func (s SendState) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// ChatAPI is the part of the backend the engine calls.
type ChatAPI interface {
	Chat(ctx context.Context, message string) (*gateway.ChatReply, error)
	History(ctx context.Context) ([]gateway.Message, error)
}

// GateChecker reports whether the chat is reachable.
type GateChecker interface {
	ChatReachable() bool
}

// AvatarSource supplies the avatar snapshotted onto assistant messages.
type AvatarSource interface {
	AvatarURL() string
}

// Engine is the conversation state for one widget.
type Engine struct {
	mu       sync.Mutex
	messages []Message
	nextSeq  int
	state    SendState
	cancel   context.CancelFunc
	onChange func()

	typing  *typingIndicator
	api     ChatAPI
	gate    GateChecker
	avatars AvatarSource
	logger  *slog.Logger
}

// New creates an engine. gate and avatars may be nil.
func New(api ChatAPI, gate GateChecker, avatars AvatarSource, typingInterval time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		api:     api,
		gate:    gate,
		avatars: avatars,
		logger:  logger.With("component", "conversation"),
	}
	e.typing = newTypingIndicator(typingInterval, e.notify)
	return e
}

// OnChange registers fn to run after any visible change, without locks held.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

func (e *Engine) notify() {
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// LoadHistory appends the backend's stored messages. Failures are ignored.
func (e *Engine) LoadHistory(ctx context.Context) {
	history, err := e.api.History(ctx)
	if err != nil {
		e.logger.Debug("history load failed", "error", err)
		return
	}

	e.mu.Lock()
	added := 0
	for _, m := range history {
		role := Role(m.Role)
		if role != RoleUser && role != RoleAssistant {
			continue
		}
		e.appendLocked(role, m.Content)
		added++
	}
	e.mu.Unlock()

	e.logger.Debug("history loaded", "messages", added)
	if added > 0 {
		e.notify()
	}
}

func (e *Engine) appendLocked(role Role, content string) {
	msg := Message{Seq: e.nextSeq, Role: role, Content: content}
	if role == RoleAssistant && e.avatars != nil {
		msg.Avatar = e.avatars.AvatarURL()
	}
	e.nextSeq++
	e.messages = append(e.messages, msg)
}

// Send posts text to the chat and appends the outcome to the transcript.
// If a send is already in flight, Send cancels it and returns nil. Chat
// failures are reported in the transcript rather than returned.
func (e *Engine) Send(ctx context.Context, text string) error {
	e.mu.Lock()
	if e.state == Sending {
		cancel := e.cancel
		e.mu.Unlock()
		e.logger.Debug("send while sending, cancelling in-flight call")
		if cancel != nil {
			cancel()
		}
		return nil
	}
	if e.gate != nil && !e.gate.ChatReachable() {
		e.mu.Unlock()
		return ErrChatLocked
	}
	text = strings.TrimSpace(text)
	if text == "" {
		e.mu.Unlock()
		return ErrEmptyMessage
	}

	e.appendLocked(RoleUser, text)
	callCtx, cancel := context.WithCancel(ctx)
	e.state = Sending
	e.cancel = cancel
	e.mu.Unlock()

	e.typing.Start()
	e.notify()

	start := time.Now()
	reply, err := e.api.Chat(callCtx, text)
	if err == nil && reply == nil {
		err = gateway.ErrEmptyReply
	}

	e.typing.Stop()
	content := terminalText(reply, err)

	e.mu.Lock()
	e.appendLocked(RoleAssistant, content)
	e.state = Idle
	e.cancel = nil
	e.mu.Unlock()
	cancel()

	switch {
	case err == nil:
		e.logger.Debug("chat reply received", "used_faq", reply.UsedFAQ, "duration", time.Since(start))
	case isAbort(err):
		e.logger.Debug("chat send stopped")
	default:
		e.logger.Warn("chat send failed", "error", err)
	}
	e.notify()
	return nil
}

func terminalText(reply *gateway.ChatReply, err error) string {
	switch {
	case err == nil:
		if reply.UsedFAQ {
			return FAQPrefix + reply.Reply
		}
		return reply.Reply
	case isAbort(err):
		return StoppedText
	default:
		return ErrorPrefix + err.Error()
	}
}

func isAbort(err error) bool {
	return errors.Is(err, gateway.ErrAborted) || errors.Is(err, context.Canceled)
}

// Stop cancels the in-flight send, if any, and reports whether there was one.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	return true
}

// Messages returns a copy of the transcript.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Message(nil), e.messages...)
}

// State returns the send state.
func (e *Engine) State() SendState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// InputEnabled reports whether the message input accepts text.
func (e *Engine) InputEnabled() bool {
	return e.State() == Idle
}

// Typing returns the typing placeholder frame and whether it is shown.
func (e *Engine) Typing() (string, bool) {
	return e.typing.Frame()
}

// Close cancels any in-flight send and stops the typing timer.
func (e *Engine) Close() {
	e.Stop()
	e.typing.Stop()
}
