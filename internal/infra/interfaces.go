package infra

import (
	"context"

	"game-store/internal/domain"
)

type InvoiceRendererInterface interface {
	Render(ctx context.Context, invoice *domain.Invoice) (*RenderedInvoice, error)
}

var _ InvoiceRendererInterface = (*InvoiceRenderer)(nil)
