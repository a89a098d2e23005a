package csvio

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustworthy/payment-engine/pkg/engine"
)

func runPipeline(t *testing.T, input string, opts engine.Options) (engine.Summary, string) {
	t.Helper()

	reader, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	var out bytes.Buffer
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	summary, err := engine.Run(reader, NewWriter(&out), opts)
	require.NoError(t, err)
	return summary, out.String()
}

func TestPipelineScenario(t *testing.T) {
	t.Parallel()

	// Client 1 accumulates deposits and spends a sliver; client 2
	// deposits and withdraws; client 3 goes through a full dispute and
	// resolve; client 4 is charged back and frozen.
	input := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 5.9999",
		"deposit, 1, 2, 2.9999",
		"withdrawal, 1, 3, 0.0001",
		"deposit, 2, 4, 200.0",
		"withdrawal, 2, 5, 150.0",
		"deposit, 3, 6, 100.0",
		"dispute, 3, 6,",
		"resolve, 3, 6,",
		"deposit, 4, 7, 100",
		"dispute, 4, 7",
		"chargeback, 4, 7",
	}, "\n") + "\n"

	summary, output := runPipeline(t, input, engine.Options{})

	assert.Equal(t, 11, summary.Records)
	assert.Equal(t, 11, summary.Applied)
	assert.Equal(t, 0, summary.Rejected)
	assert.Equal(t, 4, summary.Clients)

	want := "client,available,held,total,locked\n" +
		"1,8.9997,0.0000,8.9997,false\n" +
		"2,50.0000,0.0000,50.0000,false\n" +
		"3,100.0000,0.0000,100.0000,false\n" +
		"4,0.0000,0.0000,0.0000,true\n"
	assert.Equal(t, want, output)
}

func TestPipelineMalformedDisputeIsHarmless(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 10.0",
		"dispute, 1, 99,",
		"dispute, 2, 1,",
	}, "\n") + "\n"

	summary, output := runPipeline(t, input, engine.Options{})

	// Unknown transaction and mismatched client: both skipped, balances
	// bit-for-bit unchanged.
	assert.Equal(t, 1, summary.Applied)
	assert.Equal(t, 2, summary.Rejected)

	want := "client,available,held,total,locked\n" +
		"1,10.0000,0.0000,10.0000,false\n"
	assert.Equal(t, want, output)
}

func TestPipelinePolicyModes(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 100.0",
		"withdrawal, 1, 2, 60.0",
		"dispute, 1, 2,",
	}, "\n") + "\n"

	t.Run("hold", func(t *testing.T) {
		t.Parallel()

		opts := engine.Options{Policy: engine.Policy{WithdrawalDisputes: engine.WithdrawalDisputeHold}}
		summary, output := runPipeline(t, input, opts)

		assert.Equal(t, 3, summary.Applied)
		want := "client,available,held,total,locked\n" +
			"1,-20.0000,60.0000,40.0000,false\n"
		assert.Equal(t, want, output)
	})

	t.Run("reject", func(t *testing.T) {
		t.Parallel()

		opts := engine.Options{Policy: engine.Policy{WithdrawalDisputes: engine.WithdrawalDisputeReject}}
		summary, output := runPipeline(t, input, opts)

		assert.Equal(t, 2, summary.Applied)
		assert.Equal(t, 1, summary.Rejected)
		want := "client,available,held,total,locked\n" +
			"1,40.0000,0.0000,40.0000,false\n"
		assert.Equal(t, want, output)
	})
}

func TestPipelineParseErrorAborts(t *testing.T) {
	t.Parallel()

	reader, err := NewReader(strings.NewReader("type, client, tx, amount\ndeposit, 1, 1, oops\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	opts := engine.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	_, err = engine.Run(reader, NewWriter(&out), opts)
	require.Error(t, err)
	assert.Empty(t, out.String())
}
