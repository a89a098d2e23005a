// Package csvio reads transaction records from delimited input and
// renders account snapshots back out. Every parse failure here is fatal
// to the run; the recoverable error tier lives in the engine.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustworthy/payment-engine/pkg/engine"
	"github.com/rustworthy/payment-engine/pkg/ledger"
	"github.com/rustworthy/payment-engine/pkg/money"
)

// ErrMissingHeader is returned by NewReader when the input is empty.
var ErrMissingHeader = errors.New("missing header row")

// header is the only accepted header row, compared after trimming.
var header = []string{"type", "client", "tx", "amount"}

// Reader decodes one engine record per input row. It implements
// engine.RecordSource.
type Reader struct {
	csv *csv.Reader
	row int
}

// NewReader wraps r and consumes the header row, which must spell
// "type, client, tx, amount". Surrounding whitespace is trimmed in the
// header and in every field of every row.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	// Dispute-family rows legitimately come with three or four fields.
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	fields, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	trimFields(fields)
	if !headerValid(fields) {
		return nil, fmt.Errorf("unexpected header %v, want %v", fields, header)
	}

	return &Reader{csv: cr, row: 1}, nil
}

// Next returns the next record, or io.EOF after the last row. Any other
// error means the row could not form a well-typed record and the run
// must abort.
func (r *Reader) Next() (engine.Record, error) {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.row++
	trimFields(fields)

	if len(fields) != 3 && len(fields) != 4 {
		return nil, fmt.Errorf("row %d: expected 3 or 4 fields, got %d", r.row, len(fields))
	}

	client64, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("row %d: invalid client id %q", r.row, fields[1])
	}
	client := ledger.ClientID(client64)

	tx64, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("row %d: invalid transaction id %q", r.row, fields[2])
	}
	tx := engine.TxID(tx64)

	switch kind := fields[0]; kind {
	case "deposit", "withdrawal":
		if len(fields) < 4 || fields[3] == "" {
			return nil, fmt.Errorf("row %d: %s requires an amount", r.row, kind)
		}

		amount, err := money.Parse(fields[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.row, err)
		}
		if !amount.IsPositive() {
			return nil, fmt.Errorf("row %d: amount must be positive, got %s", r.row, amount)
		}

		return engine.TxnRecord{
			Kind:   engine.TxnKind(kind),
			Client: client,
			Tx:     tx,
			Amount: amount,
		}, nil

	case "dispute", "resolve", "chargeback":
		// A fourth field, when present, is ignored: the amount under
		// dispute is always the one recorded for the transaction.
		return engine.DisputeRecord{
			Kind:   engine.DisputeKind(kind),
			Client: client,
			Tx:     tx,
		}, nil

	default:
		return nil, fmt.Errorf("row %d: unknown record type %q", r.row, kind)
	}
}

func trimFields(fields []string) {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
}

func headerValid(fields []string) bool {
	if len(fields) != len(header) {
		return false
	}
	for i := range header {
		if fields[i] != header[i] {
			return false
		}
	}
	return true
}
