package request

import "encoding/json"

// PaymentCreateRequest is the envelope form of the payment route body.
//
// `mp_payload` is forwarded as-is to Mercado Pago; a bare body is accepted too.
type PaymentCreateRequest struct {
	MPPayload json.RawMessage `json:"mp_payload"`
}
