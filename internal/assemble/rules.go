package assemble

import (
	"ledgerlink/constants"
	"ledgerlink/internal/classify"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/normalize"
)

// RuleKind groups merge-candidate rules for override suppression: some
// overrides stand down when the merge evidence is continuation- or
// folio-shaped.
type RuleKind int

const (
	kindContinuation RuleKind = iota
	kindFolio
	kindNumber
	kindBlank
)

// ruleCtx is the evaluation context for one transition: the page under
// consideration against the last-appended page and the group head.
type ruleCtx struct {
	pol  classify.Policy
	prev *entity.PageRecord // last page appended to the open group
	head *entity.PageRecord // first page of the open group
	cur  *entity.PageRecord
}

func (c ruleCtx) adjacent() bool {
	return c.cur.SourcePageIndex == c.prev.SourcePageIndex+1
}

func (c ruleCtx) samePartyAsHead() bool {
	return classify.SameParty(c.head.PartyName, c.cur.PartyName)
}

type candidateRule struct {
	name string
	kind RuleKind
	when func(c ruleCtx) bool
}

type overrideRule struct {
	name string
	// suppressed stands the override down given the kinds of fired candidates.
	suppressed func(fired map[RuleKind]bool, names map[string]bool) bool
	when       func(c ruleCtx) bool
}

// candidateRules fire when the current page tentatively belongs to the open
// group. Any one firing is enough; all fired names feed the merge rationale.
var candidateRules = []candidateRule{
	{
		name: "explicit-continuation",
		kind: kindContinuation,
		when: func(c ruleCtx) bool {
			return c.cur.DeclaredRole == constants.RoleContinuation &&
				c.adjacent() && c.samePartyAsHead()
		},
	},
	{
		name: "blank-middle",
		kind: kindBlank,
		when: func(c ruleCtx) bool {
			return c.adjacent() && c.samePartyAsHead() &&
				!c.cur.HasGrandTotal && c.cur.TotalAmount.IsZero()
		},
	},
	{
		name: "same-document-number",
		kind: kindNumber,
		when: func(c ruleCtx) bool {
			if c.pol.IsPlaceholderNumber(c.cur.DocumentNumber) || c.pol.IsPlaceholderNumber(c.head.DocumentNumber) {
				return false
			}
			return normalize.NormalizeDocNumber(c.cur.DocumentNumber) == normalize.NormalizeDocNumber(c.head.DocumentNumber) &&
				c.samePartyAsHead()
		},
	},
	{
		name: "implicit-continuation",
		kind: kindContinuation,
		when: func(c ruleCtx) bool {
			if !c.pol.IsEffectiveContinuation(c.cur) {
				return false
			}
			if c.cur.PartyIdentifier != "" && c.cur.BusinessCode != "" {
				return false
			}
			return c.adjacent() &&
				(c.samePartyAsHead() || constants.IsUnknownParty(c.cur.PartyName))
		},
	},
	{
		name: "folio-after-header",
		kind: kindFolio,
		when: func(c ruleCtx) bool {
			return c.pol.IsFolio(c.cur) && c.adjacent() &&
				c.pol.IsHeader(c.head) && c.samePartyAsHead() &&
				c.cur.PartyIdentifier == ""
		},
	},
	{
		name: "folio-shared-code",
		kind: kindFolio,
		when: func(c ruleCtx) bool {
			return c.pol.IsFolio(c.cur) && c.cur.BusinessCode != "" &&
				c.cur.BusinessCode == c.head.BusinessCode
		},
	},
}

// overrideRules force a split and are checked, in order, only after a
// candidate fired. Overrides always win over candidates: the assembler is
// biased toward under-merging.
var overrideRules = []overrideRule{
	{
		name: "header-page",
		when: func(c ruleCtx) bool {
			return c.pol.IsHeader(c.cur) && c.cur.DeclaredRole != constants.RoleContinuation
		},
	},
	{
		name: "number-mismatch",
		suppressed: func(fired map[RuleKind]bool, _ map[string]bool) bool {
			return fired[kindContinuation] || fired[kindFolio]
		},
		when: func(c ruleCtx) bool {
			if c.pol.IsPlaceholderNumber(c.cur.DocumentNumber) || c.pol.IsPlaceholderNumber(c.head.DocumentNumber) {
				return false
			}
			return normalize.NormalizeDocNumber(c.cur.DocumentNumber) != normalize.NormalizeDocNumber(c.head.DocumentNumber)
		},
	},
	{
		name: "double-total",
		suppressed: func(fired map[RuleKind]bool, names map[string]bool) bool {
			return fired[kindContinuation] || names["folio-shared-code"]
		},
		when: func(c ruleCtx) bool {
			return c.cur.HasPositiveTotal() && c.prev.HasPositiveTotal()
		},
	},
	{
		name: "party-mismatch",
		when: func(c ruleCtx) bool {
			return !c.samePartyAsHead() && !constants.IsUnknownParty(c.cur.PartyName)
		},
	},
	{
		name: "page-gap",
		when: func(c ruleCtx) bool {
			return !c.adjacent()
		},
	},
}

// Decision is the outcome of evaluating one page against the open group.
type Decision struct {
	Merge      bool
	Candidates []string // fired candidate rule names, in table order
	Override   string   // first override that forced a split, if any
}

// Evaluate runs the rule table for one transition. Pure: no state beyond
// its arguments.
func Evaluate(pol classify.Policy, prev, head, cur *entity.PageRecord) Decision {
	c := ruleCtx{pol: pol, prev: prev, head: head, cur: cur}

	var d Decision
	firedKinds := make(map[RuleKind]bool, 4)
	firedNames := make(map[string]bool, 4)
	for _, r := range candidateRules {
		if r.when(c) {
			d.Candidates = append(d.Candidates, r.name)
			firedKinds[r.kind] = true
			firedNames[r.name] = true
		}
	}
	if len(d.Candidates) == 0 {
		return d
	}
	for _, r := range overrideRules {
		if r.suppressed != nil && r.suppressed(firedKinds, firedNames) {
			continue
		}
		if r.when(c) {
			d.Override = r.name
			return d
		}
	}
	d.Merge = true
	return d
}
