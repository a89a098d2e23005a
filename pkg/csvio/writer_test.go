package csvio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustworthy/payment-engine/pkg/ledger"
)

func TestWriterSnapshot(t *testing.T) {
	t.Parallel()

	accounts := []ledger.Account{
		{Client: 1, Available: parseAmount(t, "1.5"), Held: parseAmount(t, "0")},
		{Client: 2, Available: parseAmount(t, "0"), Held: parseAmount(t, "3.25"), Locked: true},
		{Client: 9, Available: parseAmount(t, "-4.0001"), Held: parseAmount(t, "10")},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteAccounts(accounts))

	want := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,0.0000,3.2500,3.2500,true\n" +
		"9,-4.0001,10.0000,5.9999,false\n"
	assert.Equal(t, want, buf.String())
}

func TestWriterEmptySnapshot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteAccounts(nil))

	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}
