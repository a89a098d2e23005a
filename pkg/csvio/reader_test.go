package csvio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustworthy/payment-engine/pkg/engine"
	"github.com/rustworthy/payment-engine/pkg/ledger"
	"github.com/rustworthy/payment-engine/pkg/money"
)

func parseAmount(t *testing.T, s string) money.Amount {
	t.Helper()

	amount, err := money.Parse(s)
	require.NoError(t, err)
	return amount
}

func TestNewReaderHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"exact header", "type,client,tx,amount\n", false},
		{"padded header", " type ,  client , tx ,   amount \n", false},
		{"wrong field name", "type,client,txn,amount\n", true},
		{"missing column", "type,client,tx\n", true},
		{"extra column", "type,client,tx,amount,notes\n", true},
		{"data row instead of header", "deposit,1,1,5.0\n", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewReader(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewReaderEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := NewReader(strings.NewReader(""))
	require.ErrorIs(t, err, ErrMissingHeader)
}

func TestReaderRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  string
		want engine.Record
	}{
		{
			name: "deposit",
			row:  "deposit,1,100,5.25",
			want: engine.TxnRecord{Kind: engine.TxnKindDeposit, Client: 1, Tx: 100, Amount: parseAmount(t, "5.25")},
		},
		{
			name: "withdrawal with padding",
			row:  "  withdrawal ,  42 ,  7 ,  1.5  ",
			want: engine.TxnRecord{Kind: engine.TxnKindWithdrawal, Client: 42, Tx: 7, Amount: parseAmount(t, "1.5")},
		},
		{
			name: "amount truncated past four digits",
			row:  "deposit,1,1,1.53349999",
			want: engine.TxnRecord{Kind: engine.TxnKindDeposit, Client: 1, Tx: 1, Amount: parseAmount(t, "1.5334")},
		},
		{
			name: "dispute with three fields",
			row:  "dispute,3,6",
			want: engine.DisputeRecord{Kind: engine.DisputeKindDispute, Client: 3, Tx: 6},
		},
		{
			name: "resolve with trailing empty amount",
			row:  "resolve,3,6,",
			want: engine.DisputeRecord{Kind: engine.DisputeKindResolve, Client: 3, Tx: 6},
		},
		{
			name: "chargeback ignores a spurious amount",
			row:  "chargeback,3,6,99.0",
			want: engine.DisputeRecord{Kind: engine.DisputeKindChargeback, Client: 3, Tx: 6},
		},
		{
			name: "maximal ids",
			row:  "deposit,65535,4294967295,1",
			want: engine.TxnRecord{Kind: engine.TxnKindDeposit, Client: 65535, Tx: 4294967295, Amount: parseAmount(t, "1")},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader, err := NewReader(strings.NewReader("type,client,tx,amount\n" + tt.row + "\n"))
			require.NoError(t, err)

			got, err := reader.Next()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			_, err = reader.Next()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestReaderFatalRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  string
	}{
		{"unknown record type", "transfer,1,1,5.0"},
		{"uppercase record type", "Deposit,1,1,5.0"},
		{"client id not numeric", "deposit,abc,1,5.0"},
		{"client id negative", "deposit,-1,1,5.0"},
		{"client id beyond uint16", "deposit,70000,1,5.0"},
		{"transaction id not numeric", "deposit,1,abc,5.0"},
		{"transaction id beyond uint32", "deposit,1,5000000000,5.0"},
		{"deposit without amount field", "deposit,1,1"},
		{"deposit with empty amount", "deposit,1,1,"},
		{"withdrawal with empty amount", "withdrawal,1,1,"},
		{"amount not numeric", "deposit,1,1,abc"},
		{"amount zero", "deposit,1,1,0"},
		{"amount zero after truncation", "deposit,1,1,0.00001"},
		{"amount negative", "withdrawal,1,1,-5"},
		{"too few fields", "deposit,1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader, err := NewReader(strings.NewReader("type,client,tx,amount\n" + tt.row + "\n"))
			require.NoError(t, err)

			_, err = reader.Next()
			require.Error(t, err)
			assert.NotErrorIs(t, err, io.EOF)
		})
	}
}

func TestReaderStreamsRowsInOrder(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 1.0",
		"deposit, 2, 2, 2.0",
		"withdrawal, 1, 3, 0.5",
		"dispute, 2, 2,",
	}, "\n") + "\n"

	reader, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	var clients []ledger.ClientID
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch r := rec.(type) {
		case engine.TxnRecord:
			clients = append(clients, r.Client)
		case engine.DisputeRecord:
			clients = append(clients, r.Client)
		}
	}

	assert.Equal(t, []ledger.ClientID{1, 2, 1, 2}, clients)
}
