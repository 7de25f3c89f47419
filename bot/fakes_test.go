package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"
	"github.com/FranciscoRer293/pizzaria-ultimat/services"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

type sent struct {
	customerID string
	text       string
}

type fakeTransport struct {
	mu     sync.Mutex
	sent   []sent
	typing int
	fail   error
}

func (f *fakeTransport) Deliver(_ context.Context, customerID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sent{customerID, text})
	return nil
}

func (f *fakeTransport) NotifyTyping(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return nil
}

func (f *fakeTransport) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

// last returns the most recent message sent to customerID.
func (f *fakeTransport) last(customerID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].customerID == customerID {
			return f.sent[i].text
		}
	}
	return ""
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeLedger struct {
	mu     sync.Mutex
	orders []models.FinalizedOrder
	fail   error
}

func (l *fakeLedger) Append(_ context.Context, o models.FinalizedOrder) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return l.fail
	}
	l.orders = append(l.orders, o)
	return nil
}

func (l *fakeLedger) all() []models.FinalizedOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.FinalizedOrder(nil), l.orders...)
}

type storedProof struct {
	customerID string
	data       []byte
	ext        string
}

type fakeProofs struct {
	mu     sync.Mutex
	proofs []storedProof
	fail   error
}

func (p *fakeProofs) Store(_ context.Context, customerID string, _ time.Time, data []byte, ext string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return "", p.fail
	}
	p.proofs = append(p.proofs, storedProof{customerID, data, ext})
	return "/tmp/" + customerID + "." + ext, nil
}

func (p *fakeProofs) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proofs)
}

type fakeInterpreter struct {
	reply   string
	err     error
	history []services.Turn
}

func (i *fakeInterpreter) Interpret(_ context.Context, history []services.Turn) (string, error) {
	i.history = history
	return i.reply, i.err
}

var errBoom = errors.New("boom")

// harness wires a Bot to in-memory collaborators.
type harness struct {
	bot         *Bot
	flow        *Flow
	out         *fakeTransport
	ledger      *fakeLedger
	proofs      *fakeProofs
	interpreter *fakeInterpreter
	sessions    *services.MemoryStore
	history     *services.MemoryHistory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cat, zones, err := services.LoadCatalog("")
	require.NoError(t, err)

	h := &harness{
		out:         &fakeTransport{},
		ledger:      &fakeLedger{},
		proofs:      &fakeProofs{},
		interpreter: &fakeInterpreter{reply: "Abrimos às 18h."},
		sessions:    services.NewMemoryStore(),
		history:     services.NewMemoryHistory(services.HistoryLimit),
	}
	h.flow = NewFlow(FlowDeps{
		Catalog:        cat,
		Zones:          zones,
		Ledger:         h.ledger,
		Proofs:         h.proofs,
		Interpreter:    h.interpreter,
		History:        h.history,
		DigitalMenuURL: "https://example.com/cardapio",
		Pix:            PixInfo{Key: "pix@example.com", Name: "PIZZARIA TESTE", Bank: "BANCO TESTE"},
		Now:            func() time.Time { return testNow },
	})
	out := NewPresenter(h.out).WithSleep(func(context.Context, time.Duration) {})
	h.bot = New(h.flow, h.sessions, h.history, out, nil)
	return h
}

func (h *harness) say(t *testing.T, customerID, text string) string {
	t.Helper()
	require.NoError(t, h.bot.HandleText(context.Background(), customerID, "Ana", text))
	return h.out.last(customerID)
}

func (h *harness) draft(t *testing.T, customerID string) *models.Draft {
	t.Helper()
	d, err := h.sessions.Get(context.Background(), customerID)
	require.NoError(t, err)
	return d
}
