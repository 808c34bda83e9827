// Package ofx summarizes OFX/QFX bank statements so a user's savings balance
// and interest income can be taken from a real statement instead of typed in.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line with no closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// AccountKind distinguishes deposit accounts from credit cards.
type AccountKind string

// Account kinds.
const (
	AccountBank       AccountKind = "bank"
	AccountCreditCard AccountKind = "credit_card"
)

// Statement is the summary of one account statement.
type Statement struct {
	AsOf          time.Time
	AccountID     string
	Kind          AccountKind
	LedgerBalance float64
	Deposits      float64
	Withdrawals   float64
	Interest      float64
	Transactions  int
}

// Summary aggregates every statement in a file. Totals only count bank
// statements; a credit card balance is debt, not savings.
type Summary struct {
	Statements    []Statement
	LedgerBalance float64
	Deposits      float64
	Withdrawals   float64
	Interest      float64
}

// Accounts returns the account IDs in file order, without duplicates.
func (s Summary) Accounts() []string {
	seen := make(map[string]bool, len(s.Statements))
	var accounts []string
	for _, st := range s.Statements {
		if st.AccountID == "" || seen[st.AccountID] {
			continue
		}
		seen[st.AccountID] = true
		accounts = append(accounts, st.AccountID)
	}
	return accounts
}

// HasBank reports whether the file held at least one bank statement.
func (s Summary) HasBank() bool {
	for _, st := range s.Statements {
		if st.Kind == AccountBank {
			return true
		}
	}
	return false
}

// Parser reads OFX/QFX statements.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be INFO, WARN or ERROR.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Summarize parses an OFX/QFX document and totals each statement in it.
func (p *Parser) Summarize(ctx context.Context, reader io.Reader) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var summary Summary

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		st := Statement{
			Kind:      AccountBank,
			AccountID: string(stmt.BankAcctFrom.AcctID),
			AsOf:      stmt.DtAsOf.Time,
		}
		st.LedgerBalance, _ = stmt.BalAmt.Float64()
		if stmt.BankTranList != nil {
			tally(&st, stmt.BankTranList.Transactions)
		}
		summary.add(st)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		st := Statement{
			Kind:      AccountCreditCard,
			AccountID: string(stmt.CCAcctFrom.AcctID),
			AsOf:      stmt.DtAsOf.Time,
		}
		st.LedgerBalance, _ = stmt.BalAmt.Float64()
		if stmt.BankTranList != nil {
			tally(&st, stmt.BankTranList.Transactions)
		}
		summary.add(st)
	}

	slog.Info("Parsed OFX file",
		"statements", len(summary.Statements),
		"ledger_balance", summary.LedgerBalance,
		"interest", summary.Interest)

	return summary, nil
}

func (s *Summary) add(st Statement) {
	s.Statements = append(s.Statements, st)
	if st.Kind != AccountBank {
		return
	}
	s.LedgerBalance += st.LedgerBalance
	s.Deposits += st.Deposits
	s.Withdrawals += st.Withdrawals
	s.Interest += st.Interest
}

// tally adds transactions to st. OFX amounts are negative for debits.
func tally(st *Statement, txns []ofxgo.Transaction) {
	for _, tx := range txns {
		amount, _ := tx.TrnAmt.Float64()
		st.Transactions++

		switch {
		case fmt.Sprintf("%v", tx.TrnType) == "INT":
			st.Interest += amount
			st.Deposits += amount
		case amount >= 0:
			st.Deposits += amount
		default:
			st.Withdrawals -= amount
		}
	}
}
