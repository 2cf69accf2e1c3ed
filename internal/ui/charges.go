package ui

import (
	"context"
	"errors"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/widget"

	"github.com/AkatukiSora/item-charges/internal/application"
	"github.com/AkatukiSora/item-charges/internal/catalog"
)

type chargeService interface {
	Charges(ctx context.Context) []application.ChargeRow
	SetCharge(ctx context.Context, cat catalog.Category, n int) error
}

// chargesTabView lists every ledger entry and lets the user correct one.
type chargesTabView struct {
	ctx     context.Context
	svc     chargeService
	win     fyne.Window
	root    *fyne.Container
	onError func(error)
}

func newChargesTabView(ctx context.Context, svc chargeService, win fyne.Window, onError func(error)) *chargesTabView {
	return &chargesTabView{ctx: ctx, svc: svc, win: win, root: container.NewMax(), onError: onError}
}

func (v *chargesTabView) CanvasObject() fyne.CanvasObject {
	return v.root
}

// Update reloads the ledger. Must run on the Fyne thread.
func (v *chargesTabView) Update() {
	rows := v.svc.Charges(v.ctx)
	if len(rows) == 0 {
		v.root.Objects = []fyne.CanvasObject{newCenteredEmptyState(lang.X("charges.empty", "Nothing is tracked."))}
		v.root.Refresh()
		return
	}

	items := make([]*widget.FormItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, widget.NewFormItem(categoryLabel(row.Category), v.newRowEditor(row)))
	}
	title := newSectionTitle(lang.X("charges.title", "Charges"))
	hint := widget.NewLabel(lang.X("charges.hint", "Counts are updated from game messages. Correct one here if it has drifted."))
	hint.Wrapping = fyne.TextWrapWord

	v.root.Objects = []fyne.CanvasObject{container.NewVScroll(container.NewPadded(
		container.NewVBox(title, hint, newSectionDivider(), widget.NewForm(items...)),
	))}
	v.root.Refresh()
}

func (v *chargesTabView) newRowEditor(row application.ChargeRow) fyne.CanvasObject {
	entry := newCountEntry(row.Charges)
	limit := newSubtleText("")
	if row.Capped {
		limit.Text = lang.X("charges.max", "of {{.Max}}", map[string]any{"Max": row.Max})
	}

	setBtn := widget.NewButton(lang.X("charges.set", "Set"), func() {
		n, err := strconv.Atoi(entry.Text)
		if err != nil || n < 0 {
			dialog.ShowError(errInvalidCount(), v.win)
			return
		}
		go func() {
			if err := v.svc.SetCharge(v.ctx, row.Category, n); err != nil && v.onError != nil {
				v.onError(err)
			}
		}()
	})
	return container.NewBorder(nil, nil, nil, container.NewHBox(limit, setBtn), entry)
}

func categoryLabel(cat catalog.Category) string {
	switch cat {
	case catalog.CategoryDodgyNecklace:
		return lang.X("category.dodgy", "Dodgy necklace")
	case catalog.CategoryBraceletOfSlaughter:
		return lang.X("category.slaughter", "Bracelet of slaughter")
	case catalog.CategoryExpeditiousBracelet:
		return lang.X("category.expeditious", "Expeditious bracelet")
	case catalog.CategoryBindingNecklace:
		return lang.X("category.binding", "Binding necklace")
	case catalog.CategoryXericTalisman:
		return lang.X("category.xeric", "Xeric's talisman")
	case catalog.CategorySoulBearer:
		return lang.X("category.soul_bearer", "Soul bearer")
	case catalog.CategoryChronicle:
		return lang.X("category.chronicle", "Chronicle")
	default:
		return cat.String()
	}
}

func errInvalidCount() error {
	return errors.New(lang.X("settings.error.not_a_count", "Enter a whole number"))
}
