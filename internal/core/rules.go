package core

import "holofit/pkg/results"

// NewDefaultRulesEngine builds a rules engine with the built-in policy
// set applied to every fit-result transaction.
func NewDefaultRulesEngine() *RulesEngine {
	engine := results.NewRulesEngine()
	engine.Register(NewFiniteResidualRule())
	engine.Register(NewConvergedIterationsRule())
	return engine
}
