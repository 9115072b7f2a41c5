package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"game-store/internal/domain"
)

// RenderedInvoice is the opaque document produced by the external renderer.
type RenderedInvoice struct {
	ContentType string
	Body        []byte
}

// InvoiceRenderer talks to the document-rendering collaborator. The invoice
// format is entirely its concern; this client only ships the record and
// relays the bytes.
type InvoiceRenderer struct {
	baseURL    string
	httpClient *http.Client
}

func NewInvoiceRenderer(baseURL string, timeout time.Duration) *InvoiceRenderer {
	return &InvoiceRenderer{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *InvoiceRenderer) Render(ctx context.Context, invoice *domain.Invoice) (*RenderedInvoice, error) {
	payload, err := json.Marshal(invoice)
	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices/render", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invoice renderer returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &RenderedInvoice{ContentType: ct, Body: body}, nil
}
