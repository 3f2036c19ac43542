// Package ofx turns OFX/QFX bank and card statements into expense drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Draft is a statement debit ready to become an expense. The category is
// chosen at import time.
type Draft struct {
	Date     time.Time
	FitID    string
	Currency string
	Note     string
	Amount   float64
}

// Patch converts the draft into an add request for categoryID.
func (d Draft) Patch(categoryID string) model.ExpensePatch {
	return model.ExpensePatch{
		Amount:     model.Ptr(d.Amount),
		Currency:   model.Ptr(d.Currency),
		Date:       model.Ptr(d.Date),
		CategoryID: model.Ptr(categoryID),
		Note:       model.Ptr(d.Note),
	}
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be INFO, WARN or ERROR
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX statement and returns one draft per debit.
// Credits (refunds, salary, interest) are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var drafts []Draft
	var bankStmts, ccStmts, skipped int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		d, s := p.convert(stmt.BankTranList.Transactions, stmt.CurDef)
		drafts = append(drafts, d...)
		skipped += s
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		d, s := p.convert(stmt.BankTranList.Transactions, stmt.CurDef)
		drafts = append(drafts, d...)
		skipped += s
	}

	p.logger.Info("Parsed OFX file",
		common.FieldCount, len(drafts),
		"skipped_credits", skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return drafts, nil
}

func (p *Parser) convert(txns []ofxgo.Transaction, curDef ofxgo.CurrSymbol) ([]Draft, int) {
	currency := currencyCode(curDef)

	var drafts []Draft
	skipped := 0
	for _, tx := range txns {
		// OFX uses negative amounts for debits
		amount, _ := tx.TrnAmt.Float64()
		if amount >= 0 {
			skipped++
			continue
		}

		draft := Draft{
			FitID:    string(tx.FiTID),
			Date:     tx.DtPosted.Time,
			Amount:   -amount,
			Currency: currency,
			Note:     p.extractMerchantName(tx),
		}
		if tx.Currency != nil {
			if code := currencyCode(tx.Currency.CurSym); code != "" {
				draft.Currency = code
			}
		}
		drafts = append(drafts, draft)
	}
	return drafts, skipped
}

// currencyCode returns the ISO 4217 code, or "" when the statement omits it.
func currencyCode(sym ofxgo.CurrSymbol) string {
	if ok, _ := sym.Valid(); !ok {
		return ""
	}
	return strings.ToUpper(sym.String())
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"UPI/",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " posting dates
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(strings.TrimSpace(name))
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
