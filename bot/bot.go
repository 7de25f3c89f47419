package bot

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"sync"

	"github.com/FranciscoRer293/pizzaria-ultimat/lang"
	"github.com/FranciscoRer293/pizzaria-ultimat/models"
	"github.com/FranciscoRer293/pizzaria-ultimat/monitoring"
	"github.com/FranciscoRer293/pizzaria-ultimat/services"
)

// Bot routes inbound customer events through the Flow, keeps drafts in the
// session store and sends the replies. Events of one customer are handled
// one at a time; different customers run concurrently.
type Bot struct {
	flow     *Flow
	sessions services.SessionStore
	history  services.History
	out      Transport
	metrics  *monitoring.Metrics

	customerLocks [lockShards]sync.Mutex
}

// lockShards bounds the number of customer locks. Customers that hash to the
// same shard wait for each other.
const lockShards = 64

func New(flow *Flow, sessions services.SessionStore, history services.History, out Transport, metrics *monitoring.Metrics) *Bot {
	return &Bot{
		flow:     flow,
		sessions: sessions,
		history:  history,
		out:      out,
		metrics:  metrics,
	}
}

// lockCustomer serializes events of one customer and returns the unlock function.
func (b *Bot) lockCustomer(customerID string) func() {
	mu := &b.customerLocks[lockShard(customerID)]
	mu.Lock()
	return mu.Unlock
}

func lockShard(customerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(customerID))
	return int(h.Sum32() % lockShards)
}

// HandleText processes one text message from a customer.
func (b *Bot) HandleText(ctx context.Context, customerID, displayName, text string) error {
	unlock := b.lockCustomer(customerID)
	defer unlock()
	b.metrics.InboundMessage("text")

	cur, err := b.sessions.Get(ctx, customerID)
	if err != nil {
		log.Printf("load draft customer=%s: %v", customerID, err)
		b.metrics.CollaboratorFailure("session")
		b.apologize(ctx, customerID)
		return err
	}
	b.remember(ctx, customerID, services.RoleCustomer, text, cur)

	res, flowErr := b.flow.HandleText(ctx, cur, customerID, displayName, text)
	return b.apply(ctx, customerID, cur, res, flowErr)
}

// HandleMedia processes an image sent by a customer. Images are only used as
// PIX proofs; anything else is ignored.
func (b *Bot) HandleMedia(ctx context.Context, customerID string, data []byte, mimeType string) error {
	unlock := b.lockCustomer(customerID)
	defer unlock()
	b.metrics.InboundMessage("media")

	cur, err := b.sessions.Get(ctx, customerID)
	if err != nil {
		log.Printf("load draft customer=%s: %v", customerID, err)
		b.metrics.CollaboratorFailure("session")
		b.apologize(ctx, customerID)
		return err
	}

	res, handled, flowErr := b.flow.HandleMedia(ctx, cur, customerID, data, mimeType)
	if !handled {
		log.Printf("media ignored customer=%s mime=%s", customerID, mimeType)
		return nil
	}
	return b.apply(ctx, customerID, cur, res, flowErr)
}

// MediaUnavailable reports an image that could not be fetched from the
// transport. A customer waiting on a PIX proof gets an apology and stays in
// that step to send it again.
func (b *Bot) MediaUnavailable(ctx context.Context, customerID string, cause error) error {
	unlock := b.lockCustomer(customerID)
	defer unlock()
	b.metrics.InboundMessage("media")
	b.metrics.CollaboratorFailure("transport")

	cur, err := b.sessions.Get(ctx, customerID)
	if err != nil {
		log.Printf("load draft customer=%s: %v", customerID, err)
		b.metrics.CollaboratorFailure("session")
	}
	if err != nil || (cur != nil && cur.AwaitingProof) {
		b.apologize(ctx, customerID)
	}
	return fmt.Errorf("%w: %v", ErrTransport, cause)
}

// apply commits the next draft and sends the replies. A delivery failure
// restores the previous draft unless the transition already wrote the ledger
// or a proof file.
func (b *Bot) apply(ctx context.Context, customerID string, cur *models.Draft, res Result, flowErr error) error {
	if flowErr != nil {
		log.Printf("handle customer=%s: %v", customerID, flowErr)
		b.metrics.CollaboratorFailure(collaboratorName(flowErr))
	} else if err := b.commit(ctx, customerID, cur, res.Draft); err != nil {
		log.Printf("save draft customer=%s: %v", customerID, err)
		b.metrics.CollaboratorFailure("session")
		if !res.Durable {
			b.apologize(ctx, customerID)
			return err
		}
	}

	for _, reply := range res.Replies {
		if err := b.out.Deliver(ctx, customerID, reply); err != nil {
			log.Printf("deliver customer=%s: %v", customerID, err)
			b.metrics.CollaboratorFailure("transport")
			if flowErr == nil && !res.Durable {
				if rerr := b.commit(ctx, customerID, res.Draft, cur); rerr != nil {
					log.Printf("restore draft customer=%s: %v", customerID, rerr)
				}
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		b.remember(ctx, customerID, services.RoleBot, reply, res.Draft)
	}
	return flowErr
}

// commit moves the stored draft from prev to next.
func (b *Bot) commit(ctx context.Context, customerID string, prev, next *models.Draft) error {
	switch {
	case next != nil:
		if err := b.sessions.Put(ctx, next); err != nil {
			return err
		}
		if prev == nil {
			b.metrics.SessionOpened()
		}
	case prev != nil:
		if err := b.sessions.Delete(ctx, customerID); err != nil {
			return err
		}
		b.metrics.SessionClosed()
	}
	return nil
}

func (b *Bot) apologize(ctx context.Context, customerID string) {
	if err := b.out.Deliver(ctx, customerID, lang.T("apology")); err != nil {
		log.Printf("deliver apology customer=%s: %v", customerID, err)
	}
}

// remember appends a turn tagged with the step of draft d.
func (b *Bot) remember(ctx context.Context, customerID, role, text string, d *models.Draft) {
	if b.history == nil {
		return
	}
	t := services.Turn{Role: role, Text: text}
	if d != nil {
		t.Step = string(d.Step)
	}
	if err := b.history.Append(ctx, customerID, t); err != nil {
		log.Printf("history append customer=%s: %v", customerID, err)
	}
}

func collaboratorName(err error) string {
	switch {
	case errors.Is(err, services.ErrLedger):
		return "ledger"
	case errors.Is(err, services.ErrProof):
		return "proof"
	case errors.Is(err, services.ErrInterpreter):
		return "interpreter"
	}
	return "other"
}
