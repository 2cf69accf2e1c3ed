// Package classifier turns client notification text into charge updates.
//
// Every source has an ordered list of rules; the first rule whose pattern
// matches decides the outcome, so a single piece of text yields at most one
// update. Text that matches nothing is the common case and is not an error.
package classifier

import (
	"github.com/AkatukiSora/item-charges/internal/catalog"
)

type Classifier struct {
	rules map[Source][]rule
}

func New() *Classifier {
	return &Classifier{
		rules: map[Source][]rule{
			SourceChat:            chatRules(),
			SourceDialogPrimary:   dialogPrimaryRules(),
			SourceDialogSecondary: dialogSecondaryRules(),
			SourceBraceletBreak:   braceletBreakRules(),
			SourceDestroyPrompt:   destroyPromptRules(),
		},
	}
}

// Classify runs text through the rules of src. A matching rule whose capture
// cannot be read as a count yields no update rather than falling through.
func (c *Classifier) Classify(src Source, text string) (Update, bool) {
	text = Sanitize(text)
	if text == "" {
		return Update{}, false
	}
	for _, r := range c.rules[src] {
		groups, ok := r.match(text)
		if !ok {
			continue
		}
		op, ok := r.op(groups)
		if !ok {
			return Update{}, false
		}
		return Update{Rule: r.name, Category: r.category, Op: op, Notice: r.notice}, true
	}
	return Update{}, false
}

// ClassifyGraphic maps a graphic played on an actor to an update. Only the
// Xeric's talisman teleport on the local player counts.
func (c *Classifier) ClassifyGraphic(localPlayer bool, graphicID int) (Update, bool) {
	if !localPlayer || graphicID != XericTeleportGraphic {
		return Update{}, false
	}
	return Update{
		Rule:     "xeric-teleport",
		Category: catalog.CategoryXericTalisman,
		Op:       Decrement(1),
	}, true
}

// RuleNames lists the rule names of src in evaluation order.
func (c *Classifier) RuleNames(src Source) []string {
	rules := c.rules[src]
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.name)
	}
	return out
}
