package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"
)

// ErrLedger wraps every failure to record a finalized order.
var ErrLedger = errors.New("order ledger")

// Ledger stores finalized orders. Append-only.
type Ledger interface {
	Append(ctx context.Context, o models.FinalizedOrder) error
}

const ledgerHeader = "nome,endereco,bairro,pagamento,pedidos,total,status,datahora,numero\n"

// CSVLedger appends one quoted record per order to a CSV file, writing the
// header when the file is created.
type CSVLedger struct {
	path string
	loc  *time.Location
	mu   sync.Mutex
}

func NewCSVLedger(path string, loc *time.Location) *CSVLedger {
	if loc == nil {
		loc = time.Local
	}
	return &CSVLedger{path: path, loc: loc}
}

func (l *CSVLedger) Append(ctx context.Context, o models.FinalizedOrder) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLedger, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create dir: %v", ErrLedger, err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrLedger, l.path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrLedger, l.path, err)
	}
	var b strings.Builder
	if st.Size() == 0 {
		b.WriteString(ledgerHeader)
	}
	b.WriteString(csvRecord(o, l.loc))
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrLedger, l.path, err)
	}
	return nil
}

func csvRecord(o models.FinalizedOrder, loc *time.Location) string {
	fields := []string{
		o.CustomerName,
		o.Address,
		o.NeighborhoodRaw,
		o.PaymentMethod,
		o.Items,
		fmt.Sprintf("%d.%02d", o.Total/100, o.Total%100),
		o.Status,
		o.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		o.CustomerID,
	}
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, ",") + "\n"
}
