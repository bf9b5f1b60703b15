package attrition

import "sync/atomic"

// RulesHolder publishes the active rule set to concurrent readers.
type RulesHolder struct {
	current atomic.Pointer[Rules]
}

func NewRulesHolder(rules Rules) *RulesHolder {
	h := &RulesHolder{}
	h.Store(rules)
	return h
}

func (h *RulesHolder) Current() Rules {
	if h == nil {
		return DefaultRules()
	}
	rules := h.current.Load()
	if rules == nil {
		return DefaultRules()
	}
	return *rules
}

func (h *RulesHolder) Store(rules Rules) {
	h.current.Store(&rules)
}
