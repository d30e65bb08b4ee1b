package request

type SetStepRequest struct {
	Step *int `json:"step" binding:"required"`
}

// UpdateSelectionRequest replaces the selection list of one step.
type UpdateSelectionRequest struct {
	SelectedIDs      []string `json:"selectedIds"`
	SelectedIDsSnake []string `json:"selected_ids"`
}

func (r UpdateSelectionRequest) ResolveSelectedIDs() []string {
	if r.SelectedIDs != nil {
		return r.SelectedIDs
	}
	if r.SelectedIDsSnake != nil {
		return r.SelectedIDsSnake
	}
	return []string{}
}

// LoadInvoiceRequest carries the output of the external translator.
type LoadInvoiceRequest struct {
	Groups   []InvoiceGroupRequest `json:"groups"`
	Customer CustomerRequest       `json:"customer"`
}
