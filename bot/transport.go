package bot

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FranciscoRer293/pizzaria-ultimat/lang"
)

// ErrTransport wraps failures to deliver a message to the customer.
var ErrTransport = errors.New("transport")

// Transport delivers text to a customer on some chat network.
type Transport interface {
	Deliver(ctx context.Context, customerID, text string) error
	// NotifyTyping shows a "typing" hint. Transports without one return nil.
	NotifyTyping(ctx context.Context, customerID string) error
}

const (
	typingBase    = 2 * time.Second
	typingPerChar = 10 * time.Millisecond
	typingMax     = 5 * time.Second
)

// TypingDelay is how long the typing hint is shown before text is sent.
func TypingDelay(text string) time.Duration {
	return min(typingBase+time.Duration(utf8.RuneCountInString(text))*typingPerChar, typingMax)
}

// WithFooter appends the navigation footer unless text already has it.
func WithFooter(text string) string {
	if strings.Contains(text, lang.FooterMarker) {
		return text
	}
	return text + lang.Footer
}

// Presenter adds the footer and the typing pause to every outgoing message.
type Presenter struct {
	next  Transport
	sleep func(ctx context.Context, d time.Duration)
}

func NewPresenter(next Transport) *Presenter {
	return &Presenter{next: next, sleep: sleepCtx}
}

// WithSleep replaces the pause, mainly so tests don't wait.
func (p *Presenter) WithSleep(sleep func(ctx context.Context, d time.Duration)) *Presenter {
	p.sleep = sleep
	return p
}

func (p *Presenter) Deliver(ctx context.Context, customerID, text string) error {
	text = WithFooter(text)
	if err := p.next.NotifyTyping(ctx, customerID); err != nil {
		log.Printf("typing hint failed customer=%s: %v", customerID, err)
	}
	p.sleep(ctx, TypingDelay(text))
	return p.next.Deliver(ctx, customerID, text)
}

func (p *Presenter) NotifyTyping(ctx context.Context, customerID string) error {
	return p.next.NotifyTyping(ctx, customerID)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
