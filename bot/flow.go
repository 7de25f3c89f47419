package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/FranciscoRer293/pizzaria-ultimat/lang"
	"github.com/FranciscoRer293/pizzaria-ultimat/models"
	"github.com/FranciscoRer293/pizzaria-ultimat/monitoring"
	"github.com/FranciscoRer293/pizzaria-ultimat/services"
)

const (
	cmdReset = "0"
	cmdBack  = "99"

	deferredPaymentKeyword = "pix"
	defaultDisplayName     = "Cliente"
)

var greetings = map[string]bool{
	"oi": true, "ola": true, "olá": true, "menu": true, "start": true, "/start": true,
	"iniciar": true, "bom dia": true, "boa tarde": true, "boa noite": true,
	"quero pizza": true, "cardapio": true, "cardápio": true,
}

// PixInfo is shown to customers who pay by PIX.
type PixInfo struct {
	Key  string
	Name string
	Bank string
}

// FlowDeps are the collaborators of the conversation flow.
type FlowDeps struct {
	Catalog        *models.Catalog
	Zones          *models.ZoneFeeTable
	Ledger         services.Ledger
	Proofs         services.ProofStore
	Interpreter    services.Interpreter
	History        services.History
	Metrics        *monitoring.Metrics
	DigitalMenuURL string
	Pix            PixInfo
	Now            func() time.Time
}

// Flow is the order conversation state machine. It has no I/O of its own
// beyond the collaborators in FlowDeps and never sleeps.
type Flow struct {
	catalog     *models.Catalog
	normalizer  *services.Normalizer
	parser      *services.Parser
	zones       *services.ZoneResolver
	ledger      services.Ledger
	proofs      services.ProofStore
	interpreter services.Interpreter
	history     services.History
	metrics     *monitoring.Metrics
	menuURL     string
	pix         PixInfo
	now         func() time.Time
}

func NewFlow(deps FlowDeps) *Flow {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	interp := deps.Interpreter
	if interp == nil {
		interp = services.CannedInterpreter{}
	}
	return &Flow{
		catalog:     deps.Catalog,
		normalizer:  services.NewNormalizer(services.FlavorPhrases(deps.Catalog)...),
		parser:      services.NewParser(deps.Catalog),
		zones:       services.NewZoneResolver(deps.Zones),
		ledger:      deps.Ledger,
		proofs:      deps.Proofs,
		interpreter: interp,
		history:     deps.History,
		metrics:     deps.Metrics,
		menuURL:     deps.DigitalMenuURL,
		pix:         deps.Pix,
		now:         now,
	}
}

// Result is the outcome of one inbound event.
type Result struct {
	Draft   *models.Draft // draft to keep; nil means the customer has none
	Replies []string
	Durable bool // the ledger or proof storage was written
}

// HandleText runs one text message through the state machine. cur is the
// customer's stored draft (nil when idle) and is never modified. On error the
// result keeps cur and carries the apology to send.
func (f *Flow) HandleText(ctx context.Context, cur *models.Draft, customerID, displayName, raw string) (Result, error) {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	if lower == cmdReset {
		return Result{Replies: []string{f.mainMenu(displayName)}}, nil
	}
	if cur == nil {
		return f.idle(ctx, customerID, displayName, text, lower)
	}
	if lower == cmdBack {
		return f.back(cur), nil
	}

	switch cur.Step {
	case models.StepSizeQuantity:
		return f.sizeQuantity(cur, text), nil
	case models.StepName, models.StepAddress:
		return f.required(cur, text), nil
	case models.StepNeighborhood:
		return f.neighborhood(cur, text), nil
	case models.StepPayment:
		return f.payment(ctx, cur, text)
	case models.StepAwaitingProof:
		return Result{Draft: cur, Replies: []string{f.pixInstructions(cur)}}, nil
	}
	log.Printf("flow: unknown step customer=%s step=%q, resetting", customerID, cur.Step)
	return Result{Replies: []string{f.mainMenu(displayName)}}, nil
}

// HandleMedia handles an image sent while a PIX proof is awaited. ok is false
// when the customer is not waiting on a proof and the media is ignored.
func (f *Flow) HandleMedia(ctx context.Context, cur *models.Draft, customerID string, data []byte, mimeType string) (res Result, ok bool, err error) {
	if cur == nil || !cur.AwaitingProof {
		return Result{Draft: cur}, false, nil
	}
	path, err := f.proofs.Store(ctx, customerID, f.now(), data, services.ExtensionForMIME(mimeType))
	if err != nil {
		return f.failed(cur), true, err
	}
	log.Printf("flow: proof stored customer=%s path=%s", customerID, path)
	return Result{Replies: []string{lang.T("proof_received")}, Durable: true}, true, nil
}

func (f *Flow) idle(ctx context.Context, customerID, displayName, text, lower string) (Result, error) {
	if greetings[lower] {
		return Result{Replies: []string{f.mainMenu(displayName)}}, nil
	}
	switch lower {
	case "1":
		return Result{Replies: []string{f.catalogText()}}, nil
	case "2", "5":
		return Result{Replies: []string{lang.T("digital_menu", f.menuURL)}}, nil
	case "3":
		return Result{Replies: []string{lang.T("human_handoff")}}, nil
	case "4":
		return Result{Replies: []string{lang.T("promotions")}}, nil
	}

	normalized := f.normalizer.Normalize(text)
	flavor, mentioned := services.MentionedFlavor(f.catalog, text)
	if services.HasDigit(normalized) && services.HasOrderKeyword(f.catalog, text) {
		lines, err := f.parser.ParseOrder(normalized)
		if err == nil {
			return f.newOrder(customerID, lines), nil
		}
		log.Printf("flow: customer=%s: %v", customerID, err)
		if !mentioned {
			f.metrics.ParseFailure()
			return Result{Replies: []string{lang.T("parse_error")}}, nil
		}
	}
	if mentioned {
		d := &models.Draft{
			CustomerID:   customerID,
			Step:         models.StepSizeQuantity,
			PinnedFlavor: flavor,
			CreatedAt:    f.now(),
		}
		return Result{Draft: d, Replies: []string{lang.T("ask_size_qty", flavor)}}, nil
	}
	return f.interpret(ctx, customerID)
}

func (f *Flow) newOrder(customerID string, lines []models.OrderLine) Result {
	d := &models.Draft{
		CustomerID: customerID,
		Step:       models.StepName,
		Lines:      lines,
		CreatedAt:  f.now(),
	}
	return f.priced(d)
}

func (f *Flow) sizeQuantity(cur *models.Draft, text string) Result {
	qty, size, crust, ok := f.parser.ParseSizeQuantity(f.normalizer.Normalize(text))
	if !ok {
		return Result{Draft: cur, Replies: []string{lang.T("size_qty_error")}}
	}
	next := cur.Clone()
	next.Lines = append(next.Lines, models.OrderLine{
		Quantity:   qty,
		Size:       size,
		Flavors:    []string{cur.PinnedFlavor},
		ExtraCrust: crust,
	})
	next.PinnedFlavor = ""
	next.Step = models.StepName
	return f.priced(next)
}

// priced computes the subtotal and asks for the first collection step.
func (f *Flow) priced(d *models.Draft) Result {
	subtotal, summary := services.CalcSubtotal(f.catalog, d.Lines)
	d.Subtotal = subtotal
	msg := lang.T("order_summary", summary, services.FormatMoney(subtotal)) + "\n\n" + stepPrompt(d.Step)
	return Result{Draft: d, Replies: []string{msg}}
}

func (f *Flow) back(cur *models.Draft) Result {
	switch cur.Step {
	case models.StepSizeQuantity:
		return Result{Draft: cur, Replies: []string{lang.T("ask_size_qty", cur.PinnedFlavor)}}
	case models.StepAwaitingProof:
		return Result{Draft: cur, Replies: []string{f.pixInstructions(cur)}}
	}
	next := cur.Clone()
	if idx := models.StepIndex(next.Step); idx > 0 {
		next.Step = models.CollectionSteps[idx-1]
	}
	return Result{Draft: next, Replies: []string{stepPrompt(next.Step)}}
}

// required stores the name or address and moves to the following step.
func (f *Flow) required(cur *models.Draft, text string) Result {
	if text == "" {
		return Result{Draft: cur, Replies: []string{emptyAnswer(cur.Step)}}
	}
	next := cur.Clone()
	if next.Step == models.StepName {
		next.CustomerName = text
		next.Step = models.StepAddress
	} else {
		next.Address = text
		next.Step = models.StepNeighborhood
	}
	return Result{Draft: next, Replies: []string{stepPrompt(next.Step)}}
}

func (f *Flow) neighborhood(cur *models.Draft, text string) Result {
	quote := f.zones.Resolve(text)
	f.metrics.ZoneResolved(string(quote.Match))

	next := cur.Clone()
	next.Delivery = &models.Delivery{NeighborhoodRaw: text, Zone: quote.Zone, Fee: quote.Fee}
	next.Step = models.StepPayment
	total, _ := next.Total()

	_, summary := services.CalcSubtotal(f.catalog, next.Lines)
	msg := lang.T("delivery_summary",
		summary,
		services.FormatMoney(next.Subtotal),
		zoneLabel(quote.Zone),
		services.FormatMoney(quote.Fee),
		services.FormatMoney(total),
	) + "\n\n" + stepPrompt(next.Step)
	return Result{Draft: next, Replies: []string{msg}}
}

func (f *Flow) payment(ctx context.Context, cur *models.Draft, text string) (Result, error) {
	if text == "" {
		return Result{Draft: cur, Replies: []string{emptyAnswer(cur.Step)}}, nil
	}
	next := cur.Clone()
	next.PaymentMethod = text
	deferred := strings.Contains(strings.ToLower(text), deferredPaymentKeyword)
	status := models.OrderStatusPaid
	if deferred {
		status = models.OrderStatusPending
	}

	order, err := f.finalize(next, status)
	if err != nil {
		return f.failed(cur), err
	}
	if err := f.ledger.Append(ctx, order); err != nil {
		return f.failed(cur), err
	}
	f.metrics.OrderFinalized(status)
	log.Printf("flow: order recorded customer=%s status=%s total=%d", next.CustomerID, status, order.Total)

	if deferred {
		next.Step = models.StepAwaitingProof
		next.AwaitingProof = true
		return Result{Draft: next, Replies: []string{f.pixInstructions(next)}, Durable: true}, nil
	}
	msg := lang.T("order_confirmed", next.CustomerName, services.FormatMoney(order.Total), next.PaymentMethod)
	return Result{Replies: []string{msg}, Durable: true}, nil
}

func (f *Flow) finalize(d *models.Draft, status string) (models.FinalizedOrder, error) {
	total, ok := d.Total()
	if !ok {
		return models.FinalizedOrder{}, fmt.Errorf("%w: draft of %s has no delivery zone", services.ErrLedger, d.CustomerID)
	}
	_, summary := services.CalcSubtotal(f.catalog, d.Lines)
	return models.FinalizedOrder{
		CustomerID:      d.CustomerID,
		CustomerName:    d.CustomerName,
		Address:         d.Address,
		NeighborhoodRaw: d.Delivery.NeighborhoodRaw,
		Zone:            d.Delivery.Zone,
		PaymentMethod:   d.PaymentMethod,
		Items:           strings.TrimSpace(summary),
		Subtotal:        d.Subtotal,
		DeliveryFee:     d.Delivery.Fee,
		Total:           total,
		Status:          status,
		CreatedAt:       f.now(),
	}, nil
}

func (f *Flow) interpret(ctx context.Context, customerID string) (Result, error) {
	var history []services.Turn
	if f.history != nil {
		h, err := f.history.Recent(ctx, customerID, services.HistoryLimit)
		if err != nil {
			log.Printf("flow: load history customer=%s: %v", customerID, err)
		}
		history = h
	}
	reply, err := f.interpreter.Interpret(ctx, history)
	if err != nil {
		return f.failed(nil), err
	}
	return Result{Replies: []string{reply}}, nil
}

// failed keeps the draft as it was and apologizes.
func (f *Flow) failed(cur *models.Draft) Result {
	return Result{Draft: cur, Replies: []string{lang.T("apology")}}
}

func (f *Flow) mainMenu(displayName string) string {
	if strings.TrimSpace(displayName) == "" {
		displayName = defaultDisplayName
	}
	return lang.T("main_menu", displayName, f.menuURL)
}

func (f *Flow) catalogText() string {
	var b strings.Builder
	b.WriteString(lang.T("catalog_header"))
	for _, s := range []struct {
		size  models.Size
		label string
	}{
		{models.SizeSmall, "Pequena"},
		{models.SizeLarge, "Grande"},
		{models.SizeFamily, "Família"},
	} {
		if p, ok := f.catalog.Price(s.size); ok {
			b.WriteString(lang.T("catalog_size", s.size, s.label, services.FormatMoney(p)))
		}
	}
	b.WriteString(lang.T("catalog_crust", services.FormatMoney(f.catalog.CrustPrice)))
	b.WriteString(lang.T("catalog_flavors"))
	for _, fl := range f.catalog.Flavors {
		b.WriteString(lang.T("catalog_flavor", fl.Name))
	}
	b.WriteString(lang.T("catalog_howto"))
	return b.String()
}

func (f *Flow) pixInstructions(d *models.Draft) string {
	total, _ := d.Total()
	return lang.T("pix_instructions", f.pix.Key, f.pix.Name, f.pix.Bank, services.FormatMoney(total))
}

func stepPrompt(step models.Step) string {
	return lang.T("ask_step", lang.StepLabel(string(step)), lang.StepExample(string(step)))
}

func emptyAnswer(step models.Step) string {
	return lang.T("empty_answer", lang.StepLabel(string(step)), lang.StepExample(string(step)))
}

func zoneLabel(zone string) string {
	if zone == models.DefaultZoneKey {
		return lang.T("zone_default")
	}
	return zone
}
