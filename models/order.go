package models

import "time"

// Step is where a customer currently is in the order conversation.
type Step string

const (
	StepSizeQuantity  Step = "tamanho"
	StepName          Step = "nome"
	StepAddress       Step = "endereco"
	StepNeighborhood  Step = "bairro"
	StepPayment       Step = "pagamento"
	StepAwaitingProof Step = "comprovante"
)

// CollectionSteps is the fixed order in which customer data is asked for.
var CollectionSteps = []Step{StepName, StepAddress, StepNeighborhood, StepPayment}

// StepIndex returns the position of s in CollectionSteps, or -1.
func StepIndex(s Step) int {
	for i, st := range CollectionSteps {
		if st == s {
			return i
		}
	}
	return -1
}

const (
	OrderStatusPaid    = "paid"
	OrderStatusPending = "pending"
)

type OrderLine struct {
	Quantity   int      `json:"quantity"`
	Size       Size     `json:"size"`
	Flavors    []string `json:"flavors"`
	ExtraCrust bool     `json:"extra_crust"`
}

// Delivery is set once the neighborhood step resolves a zone.
type Delivery struct {
	NeighborhoodRaw string `json:"neighborhood_raw"`
	Zone            string `json:"zone"`
	Fee             int64  `json:"fee"`
}

// Draft is the in-progress order of one customer.
type Draft struct {
	CustomerID    string      `json:"customer_id"`
	Step          Step        `json:"step"`
	PinnedFlavor  string      `json:"pinned_flavor,omitempty"` // only while Step == StepSizeQuantity
	Lines         []OrderLine `json:"lines"`
	Subtotal      int64       `json:"subtotal"`
	CustomerName  string      `json:"customer_name"`
	Address       string      `json:"address"`
	Delivery      *Delivery   `json:"delivery,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	AwaitingProof bool        `json:"awaiting_proof"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Total is subtotal plus delivery fee; ok is false until a zone is resolved.
func (d *Draft) Total() (total int64, ok bool) {
	if d.Delivery == nil {
		return 0, false
	}
	return d.Subtotal + d.Delivery.Fee, true
}

// Clone returns a deep copy so a failed transition never leaks into the stored draft.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.Lines = make([]OrderLine, len(d.Lines))
	for i, l := range d.Lines {
		l.Flavors = append([]string(nil), l.Flavors...)
		c.Lines[i] = l
	}
	if d.Delivery != nil {
		dv := *d.Delivery
		c.Delivery = &dv
	}
	return &c
}

// FinalizedOrder is what the ledger records when the payment step completes.
type FinalizedOrder struct {
	CustomerID      string
	CustomerName    string
	Address         string
	NeighborhoodRaw string
	Zone            string
	PaymentMethod   string
	Items           string // human-readable item summary
	Subtotal        int64
	DeliveryFee     int64
	Total           int64
	Status          string
	CreatedAt       time.Time
}
