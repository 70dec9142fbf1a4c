// Package core wires models, optimizers, persistence and blob storage
// into the fitting service.
package core

import (
	"holofit/pkg/results"
)

type (
	// FitResult aliases results.FitResult, the record produced by each
	// fit run.
	FitResult = results.FitResult
	// Change aliases results.Change captured in store transactions.
	Change = results.Change
	// Result aliases results.Result from rule evaluation.
	Result = results.Result
	// Rule aliases results.Rule.
	Rule = results.Rule
	// RulesEngine aliases results.RulesEngine.
	RulesEngine = results.RulesEngine
	// Violation aliases results.Violation.
	Violation = results.Violation
	// Severity aliases results.Severity.
	Severity = results.Severity
	// Transaction aliases results.Transaction.
	Transaction = results.Transaction
	// TransactionView aliases results.TransactionView.
	TransactionView = results.TransactionView
	// PersistentStore aliases results.PersistentStore.
	PersistentStore = results.PersistentStore
)

const (
	// SeverityBlock blocks a transaction commit.
	SeverityBlock = results.SeverityBlock
	// SeverityWarn records a warning without blocking.
	SeverityWarn = results.SeverityWarn
)
