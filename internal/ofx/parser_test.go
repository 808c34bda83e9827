package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savingsOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260301120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>021000021
<ACCTID>5550001111
<ACCTTYPE>SAVINGS
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260201120000[0:GMT]
<DTEND>20260228120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260205120000[0:GMT]
<TRNAMT>2500.00
<FITID>SAV2026020501
<NAME>PAYROLL DEPOSIT
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260212120000[0:GMT]
<TRNAMT>-400.00
<FITID>SAV2026021201
<NAME>TRANSFER TO CHECKING
</STMTTRN>
<STMTTRN>
<TRNTYPE>INT
<DTPOSTED>20260228120000[0:GMT]
<TRNAMT>12.34
<FITID>SAV2026022801
<NAME>INTEREST PAID
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>18250.75
<DTASOF>20260228120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const cardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260301120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20260201120000[0:GMT]
<DTEND>20260228120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260210120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2026021001
<NAME>BOOKSTORE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-45.99
<DTASOF>20260228120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestSummarize_SavingsStatement(t *testing.T) {
	summary, err := NewParser().Summarize(context.Background(), strings.NewReader(savingsOFX))
	require.NoError(t, err)
	require.Len(t, summary.Statements, 1)

	st := summary.Statements[0]
	assert.Equal(t, AccountBank, st.Kind)
	assert.Equal(t, "5550001111", st.AccountID)
	assert.Equal(t, 3, st.Transactions)
	assert.InDelta(t, 18250.75, st.LedgerBalance, 1e-9)
	assert.InDelta(t, 2512.34, st.Deposits, 1e-9)
	assert.InDelta(t, 400.00, st.Withdrawals, 1e-9)
	assert.InDelta(t, 12.34, st.Interest, 1e-9)
	assert.Equal(t, 2026, st.AsOf.Year())
	assert.Equal(t, time.February, st.AsOf.Month())

	assert.InDelta(t, 18250.75, summary.LedgerBalance, 1e-9)
	assert.InDelta(t, 12.34, summary.Interest, 1e-9)
	assert.True(t, summary.HasBank())
	assert.Equal(t, []string{"5550001111"}, summary.Accounts())
}

func TestSummarize_CreditCardIsNotSavings(t *testing.T) {
	summary, err := NewParser().Summarize(context.Background(), strings.NewReader(cardOFX))
	require.NoError(t, err)
	require.Len(t, summary.Statements, 1)

	st := summary.Statements[0]
	assert.Equal(t, AccountCreditCard, st.Kind)
	assert.InDelta(t, -45.99, st.LedgerBalance, 1e-9)
	assert.InDelta(t, 45.99, st.Withdrawals, 1e-9)

	assert.False(t, summary.HasBank())
	assert.Zero(t, summary.LedgerBalance)
	assert.Zero(t, summary.Withdrawals)
	assert.Equal(t, []string{"4111111111111111"}, summary.Accounts())
}

func TestSummarize_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid OFX data", "not valid OFX"},
		{"empty OFX", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Summarize(context.Background(), strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewParser().Summarize(ctx, strings.NewReader(savingsOFX))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPreprocessOFX(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "leading blank lines",
			input: "\n\n  OFXHEADER:100",
			want:  "OFXHEADER:100",
		},
		{
			name:  "mixed case severity",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "unclosed tag",
			input: "<OFX>\n<BANKMSGSRSV1\n</OFX>",
			want:  "<OFX>\n<BANKMSGSRSV1>\n</OFX>",
		},
		{
			name:  "tag with value untouched",
			input: "<CODE>0",
			want:  "<CODE>0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.preprocessOFX(tt.input))
		})
	}
}
