package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics counts ledger writes, rejected overpayments and cascade
// removals, and times units of work.
type LedgerMetrics struct {
	payments      *Counter
	overpayments  *Counter
	cascades      *Counter
	uowDurationsS *Histogram
}

// NewLedgerMetrics registers the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		m   LedgerMetrics
		err error
	)
	if m.payments, err = NewCounter(meter, "ledger_payments_total",
		"Payments written to a capped ledger", "{payments}"); err != nil {
		return nil, err
	}
	if m.overpayments, err = NewCounter(meter, "ledger_overpayment_rejections_total",
		"Payment writes rejected because the ledger would exceed its expected total", "{payments}"); err != nil {
		return nil, err
	}
	if m.cascades, err = NewCounter(meter, "cascade_deletes_total",
		"Soft-delete cascades committed", "{removals}"); err != nil {
		return nil, err
	}
	if m.uowDurationsS, err = NewHistogram(meter, HistogramOpts{
		Name:        "uow_duration_seconds",
		Description: "Time from transaction start to its end",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

// PaymentRecorded counts a committed create, update or remove on ledgerName.
func (m *LedgerMetrics) PaymentRecorded(ctx context.Context, ledgerName, operation string) {
	m.payments.Inc(ctx, AttrLedger.String(ledgerName), AttrOperation.String(operation))
}

// OverpaymentRejected counts a write refused by the cap check.
func (m *LedgerMetrics) OverpaymentRejected(ctx context.Context, ledgerName string) {
	m.overpayments.Inc(ctx, AttrLedger.String(ledgerName))
}

// CascadeDeleted counts a committed removal rooted at root ("purchase", "company_sale", ...).
func (m *LedgerMetrics) CascadeDeleted(ctx context.Context, root string) {
	m.cascades.Inc(ctx, AttrRoot.String(root))
}

// ObserveTransaction records how long a unit of work stayed open.
func (m *LedgerMetrics) ObserveTransaction(ctx context.Context, d time.Duration, outcome string) {
	m.uowDurationsS.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}
