package classifier

import (
	"regexp"
	"strings"

	"github.com/AkatukiSora/item-charges/internal/catalog"
)

var (
	reDodgyCheck          = regexp.MustCompile(`Your dodgy necklace has (\d+) charges? left\.`)
	reSlaughterCheck      = regexp.MustCompile(`Your bracelet of slaughter has (\d{1,2}) charges? left.`)
	reExpeditiousCheck    = regexp.MustCompile(`Your expeditious bracelet has (\d{1,2}) charges? left.`)
	reDodgyProtect        = regexp.MustCompile(`Your dodgy necklace protects you\..*It has (\d+) charges? left\.`)
	reSlaughterActivate   = regexp.MustCompile(`Your bracelet of slaughter prevents your slayer count decreasing. It has (\d{1,2}) charges? left.`)
	reExpeditiousActivate = regexp.MustCompile(`Your expeditious bracelet helps you progress your slayer (?:task )?faster. It has (\d{1,2}) charges? left.`)
	reDodgyBreak          = regexp.MustCompile(`Your dodgy necklace protects you\..*It then crumbles to dust\.`)
	reBindingCheck        = regexp.MustCompile(`You have ([0-9]+|one) charges? left before your Binding necklace disintegrates.`)
	reBindingUsed         = regexp.MustCompile(`You bind the temple's power into (?:mud|lava|steam|dust|smoke|mist) runes\.`)
	reXericCheck          = regexp.MustCompile(`talisman has (\d+|one) charges?`)
	reXericOutOfCharges   = regexp.MustCompile(`Your talisman has run out of charges`)
	reSoulBearerCheck     = regexp.MustCompile(`soul bearer has (\d+|one) charges?\.`)
	reChronicleCheck      = regexp.MustCompile(`Your book has (\d+) charges left\.`)
	reChronicleAdd        = regexp.MustCompile(`You add (\d+|a single) charges? to your book. It now has (\d+) charges\.`)
	reChronicleLast       = regexp.MustCompile(`You have one charge left in your book\.`)
	reChronicleOut        = regexp.MustCompile(`Your book has run out of charges\.`)

	reXericRecharge       = regexp.MustCompile(`Your talisman now has (\d+|one) charges?\.`)
	reSoulBearerRecharge  = regexp.MustCompile(`You add (\d+|a) charges? to your soul bearer\. ?It now has (\d+) charges\.`)
	reSoulBearerRecharge1 = regexp.MustCompile(`Your soul bearer now has one charge\.`)

	reXericUncharge       = regexp.MustCompile(`lizard fangs? from your talisman\.`)
	reSoulBearerUncharge  = regexp.MustCompile(`You remove the runes from the soul bearer\.`)
	reSoulBearerBankHeads = regexp.MustCompile(`Your soul bearer carries the ensouled heads? to your ?bank\. It has (\d+|one) charges? left\.`)
	reSoulBearerOut       = regexp.MustCompile(`Your soul bearer carries the ensouled heads? to (.+)\. It has run out of charges\.`)
)

const (
	recoilBreakText  = "Your Ring of Recoil has shattered."
	bindingBreakText = "Your Binding necklace has disintegrated."
	slaughterText    = "bracelet of slaughter"
	expeditiousText  = "expeditious bracelet"
)

// XericTeleportGraphic is the graphic played on the player when a Xeric's
// talisman teleport consumes a charge.
const XericTeleportGraphic = 1612

type matcher func(text string) ([]string, bool)

type rule struct {
	name     string
	match    matcher
	category catalog.Category
	op       func(groups []string) (ChargeOp, bool)
	notice   Notice
}

func pattern(re *regexp.Regexp) matcher {
	return func(text string) ([]string, bool) {
		m := re.FindStringSubmatch(text)
		return m, m != nil
	}
}

func anyPattern(res ...*regexp.Regexp) matcher {
	return func(text string) ([]string, bool) {
		for _, re := range res {
			if m := re.FindStringSubmatch(text); m != nil {
				return m, true
			}
		}
		return nil, false
	}
}

func contains(substr string) matcher {
	return func(text string) ([]string, bool) {
		if strings.Contains(text, substr) {
			return []string{text}, true
		}
		return nil, false
	}
}

func equals(want string) matcher {
	return func(text string) ([]string, bool) {
		if text == want {
			return []string{text}, true
		}
		return nil, false
	}
}

func countFrom(group int) func([]string) (ChargeOp, bool) {
	return func(groups []string) (ChargeOp, bool) {
		if group >= len(groups) {
			return ChargeOp{}, false
		}
		n, ok := parseCount(groups[group])
		if !ok {
			return ChargeOp{}, false
		}
		return SetAbsolute(n), true
	}
}

func always(op ChargeOp) func([]string) (ChargeOp, bool) {
	return func([]string) (ChargeOp, bool) { return op, true }
}

// bindingOverflow is the value stored when the necklace disintegrates. The
// break message arrives before the usage message of the same action, so the
// following decrement lands back on the maximum.
func bindingOverflow() int {
	max, _ := catalog.CategoryBindingNecklace.Max()
	return max + 1
}

func chatRules() []rule {
	return []rule{
		{name: "recoil-break", match: contains(recoilBreakText), op: always(ChargeOp{}), notice: NoticeRecoil},
		{name: "dodgy-check", match: pattern(reDodgyCheck), category: catalog.CategoryDodgyNecklace, op: countFrom(1)},
		{name: "slaughter-check", match: pattern(reSlaughterCheck), category: catalog.CategoryBraceletOfSlaughter, op: countFrom(1)},
		{name: "expeditious-check", match: pattern(reExpeditiousCheck), category: catalog.CategoryExpeditiousBracelet, op: countFrom(1)},
		{name: "dodgy-protect", match: pattern(reDodgyProtect), category: catalog.CategoryDodgyNecklace, op: countFrom(1)},
		{name: "slaughter-activate", match: pattern(reSlaughterActivate), category: catalog.CategoryBraceletOfSlaughter, op: countFrom(1)},
		{name: "expeditious-activate", match: pattern(reExpeditiousActivate), category: catalog.CategoryExpeditiousBracelet, op: countFrom(1)},
		{name: "dodgy-break", match: pattern(reDodgyBreak), category: catalog.CategoryDodgyNecklace, op: always(SetMax()), notice: NoticeDodgy},
		{name: "binding-break", match: contains(bindingBreakText), category: catalog.CategoryBindingNecklace, op: always(SetAbsolute(bindingOverflow())), notice: NoticeBinding},
		{name: "binding-used", match: pattern(reBindingUsed), category: catalog.CategoryBindingNecklace, op: always(Decrement(1))},
		{name: "binding-check", match: pattern(reBindingCheck), category: catalog.CategoryBindingNecklace, op: countFrom(1)},
		{name: "xeric-check", match: pattern(reXericCheck), category: catalog.CategoryXericTalisman, op: countFrom(1)},
		{name: "xeric-out", match: pattern(reXericOutOfCharges), category: catalog.CategoryXericTalisman, op: always(SetZero())},
		{name: "soul-bearer-check", match: pattern(reSoulBearerCheck), category: catalog.CategorySoulBearer, op: countFrom(1)},
		{name: "chronicle-check", match: pattern(reChronicleCheck), category: catalog.CategoryChronicle, op: countFrom(1)},
		{name: "chronicle-add", match: pattern(reChronicleAdd), category: catalog.CategoryChronicle, op: countFrom(2)},
		{name: "chronicle-last", match: pattern(reChronicleLast), category: catalog.CategoryChronicle, op: always(SetAbsolute(1))},
		{name: "chronicle-out", match: pattern(reChronicleOut), category: catalog.CategoryChronicle, op: always(SetZero())},
	}
}

func dialogPrimaryRules() []rule {
	return []rule{
		{name: "xeric-recharge", match: pattern(reXericRecharge), category: catalog.CategoryXericTalisman, op: countFrom(1)},
		{name: "soul-bearer-recharge", match: pattern(reSoulBearerRecharge), category: catalog.CategorySoulBearer, op: countFrom(2)},
		{name: "soul-bearer-recharge-one", match: pattern(reSoulBearerRecharge1), category: catalog.CategorySoulBearer, op: always(SetAbsolute(1))},
	}
}

func dialogSecondaryRules() []rule {
	return []rule{
		{name: "xeric-uncharge", match: pattern(reXericUncharge), category: catalog.CategoryXericTalisman, op: always(SetZero())},
		{name: "soul-bearer-empty", match: anyPattern(reSoulBearerUncharge, reSoulBearerOut), category: catalog.CategorySoulBearer, op: always(SetZero())},
		{name: "soul-bearer-bank-heads", match: pattern(reSoulBearerBankHeads), category: catalog.CategorySoulBearer, op: countFrom(1)},
	}
}

// braceletBreakRules catch a slayer bracelet crumbling. There is no chat
// message for it, only the sprite dialog naming the bracelet.
func braceletBreakRules() []rule {
	return []rule{
		{name: "slaughter-break", match: contains(slaughterText), category: catalog.CategoryBraceletOfSlaughter, op: always(SetMax())},
		{name: "expeditious-break", match: contains(expeditiousText), category: catalog.CategoryExpeditiousBracelet, op: always(SetMax())},
	}
}

func destroyPromptRules() []rule {
	return []rule{
		{name: "destroy-binding", match: equals("Binding necklace"), category: catalog.CategoryBindingNecklace, op: always(SetMax())},
		{name: "destroy-dodgy", match: equals("Dodgy necklace"), category: catalog.CategoryDodgyNecklace, op: always(SetMax())},
	}
}
