package request

type DraftRequest struct {
	Selections map[string][]string   `json:"selections"`
	Groups     []InvoiceGroupRequest `json:"groups"`
	Notes      string                `json:"notes"`
}
