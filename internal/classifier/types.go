package classifier

import (
	"fmt"

	"github.com/AkatukiSora/item-charges/internal/catalog"
)

// Source is where a piece of text was observed. Each source has its own
// ordered rule list.
type Source int

const (
	SourceChat Source = iota
	SourceDialogPrimary
	SourceDialogSecondary
	SourceBraceletBreak
	SourceDestroyPrompt
)

func (s Source) String() string {
	switch s {
	case SourceChat:
		return "chat"
	case SourceDialogPrimary:
		return "dialog-primary"
	case SourceDialogSecondary:
		return "dialog-secondary"
	case SourceBraceletBreak:
		return "bracelet-break"
	case SourceDestroyPrompt:
		return "destroy-prompt"
	default:
		return "unknown"
	}
}

// OpKind selects how a ChargeOp mutates a ledger entry.
type OpKind int

const (
	OpNone OpKind = iota
	OpSetAbsolute
	OpSetMax
	OpSetZero
	OpDecrement
)

// ChargeOp is a single ledger mutation. N is the absolute value for
// OpSetAbsolute and the step for OpDecrement.
type ChargeOp struct {
	Kind OpKind
	N    int
}

func SetAbsolute(n int) ChargeOp { return ChargeOp{Kind: OpSetAbsolute, N: n} }
func SetMax() ChargeOp           { return ChargeOp{Kind: OpSetMax} }
func SetZero() ChargeOp          { return ChargeOp{Kind: OpSetZero} }
func Decrement(by int) ChargeOp  { return ChargeOp{Kind: OpDecrement, N: by} }

func (op ChargeOp) String() string {
	switch op.Kind {
	case OpSetAbsolute:
		return fmt.Sprintf("set(%d)", op.N)
	case OpSetMax:
		return "set(max)"
	case OpSetZero:
		return "set(0)"
	case OpDecrement:
		return fmt.Sprintf("decrement(%d)", op.N)
	default:
		return "none"
	}
}

// Notice is a user alert attached to an update.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeRecoil
	NoticeDodgy
	NoticeBinding
)

// Message is the text sent to the notifier.
func (n Notice) Message() string {
	switch n {
	case NoticeRecoil:
		return "Your Ring of Recoil has shattered"
	case NoticeDodgy:
		return "Your dodgy necklace has crumbled to dust."
	case NoticeBinding:
		return "Your Binding necklace has disintegrated."
	default:
		return ""
	}
}

// Update is the structured result of classifying one piece of text.
// Category is CategoryNone for notice-only updates.
type Update struct {
	Rule     string
	Category catalog.Category
	Op       ChargeOp
	Notice   Notice
}

// HasCharge reports whether the update mutates the ledger.
func (u Update) HasCharge() bool {
	return u.Category != catalog.CategoryNone && u.Op.Kind != OpNone
}
