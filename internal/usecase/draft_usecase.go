package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/invoice"
	"agency_estimate/internal/domain/pricing"
	"agency_estimate/internal/usecase/interfaces"
)

var (
	ErrTextGeneratorNotConfigured = errors.New("text generator not configured")
	ErrInvalidDraftInput          = errors.New("invalid draft input")
	ErrEmptyDraft                 = errors.New("text generator returned no text")
)

// DraftInput is what the visitor has chosen so far plus free-form notes.
type DraftInput struct {
	Selections entities.Selections
	Groups     []entities.InvoiceGroup
	Notes      string
}

// IDraftUseCase produces a proposal draft from a single model call.
type IDraftUseCase interface {
	Generate(ctx context.Context, in DraftInput) (string, error)
}

type DraftUseCase struct {
	generator interfaces.ITextGenerator
}

var _ IDraftUseCase = (*DraftUseCase)(nil)

// NewDraftUseCase accepts a nil generator; Generate then reports
// ErrTextGeneratorNotConfigured.
func NewDraftUseCase(generator interfaces.ITextGenerator) *DraftUseCase {
	return &DraftUseCase{generator: generator}
}

func (u *DraftUseCase) Generate(ctx context.Context, in DraftInput) (string, error) {
	if u.generator == nil {
		return "", ErrTextGeneratorNotConfigured
	}
	if in.Selections.IsEmpty() && len(invoice.Flatten(in.Groups)) == 0 && strings.TrimSpace(in.Notes) == "" {
		return "", ErrInvalidDraftInput
	}

	prompt := BuildDraftPrompt(in)
	text, err := u.generator.Generate(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "draft generation failed", "prompt_len", len(prompt), "err", err)
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDraft
	}
	return text, nil
}

// BuildDraftPrompt renders the input deterministically: steps sorted by id,
// removed items left out.
func BuildDraftPrompt(in DraftInput) string {
	var b strings.Builder
	b.WriteString("You are preparing a short project proposal for a web agency client.\n")
	b.WriteString("Summarize the scope below in a friendly, professional tone.\n")

	if !in.Selections.IsEmpty() {
		b.WriteString("\nSelected options:\n")
		steps := make([]string, 0, len(in.Selections))
		for step := range in.Selections {
			steps = append(steps, step)
		}
		sort.Strings(steps)
		for _, step := range steps {
			ids := in.Selections[step]
			if len(ids) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", step, strings.Join(ids, ", "))
		}
	}

	items := invoice.Flatten(in.Groups)
	if len(items) > 0 {
		b.WriteString("\nLine items:\n")
		for _, it := range items {
			if it.IsDeleted() {
				continue
			}
			label := it.Name
			if label == "" {
				label = it.ID
			}
			fmt.Fprintf(&b, "- [%s] %s: %s", it.Category, label, pricing.FormatAmount(it.Amount.Value))
			if it.Duration.Present {
				fmt.Fprintf(&b, ", %d days", it.Duration.Value)
			}
			if it.Pages.Present {
				fmt.Fprintf(&b, ", %d pages", it.Pages.Value)
			}
			b.WriteString("\n")
		}
		total := invoice.AggregateGroups(in.Groups)
		fmt.Fprintf(&b, "\nTotal: %s\n", total.Display)
	}

	if notes := strings.TrimSpace(in.Notes); notes != "" {
		b.WriteString("\nClient notes:\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}
