package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"velokassa-backend/internal/domain"
)

// Printer is the optional receipt side-channel invoked after a payment
// is applied. Absence of the collaborator must never fail the payment,
// so callers use Nop when printing is unconfigured and swallow errors.
type Printer interface {
	Print(ctx context.Context, payment domain.Entry) error
}

// Nop is the explicit no-collaborator variant.
type Nop struct{}

func (Nop) Print(ctx context.Context, payment domain.Entry) error { return nil }

// FilePrinter spools plain-text receipts into a directory, one file per
// payment, named by a generated receipt number.
type FilePrinter struct {
	dir string
}

func NewFilePrinter(dir string) (*FilePrinter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}
	return &FilePrinter{dir: dir}, nil
}

func (p *FilePrinter) Print(ctx context.Context, payment domain.Entry) error {
	number := uuid.New().String()
	body := fmt.Sprintf(
		"RECEIPT %s\ndate: %s\nrental: %d\namount: %d\n",
		number, payment.Date, payment.RentalID, payment.Amount,
	)
	path := filepath.Join(p.dir, number+".txt")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}
