package response

type DraftResponse struct {
	Text string `json:"text"`
}

type PingResponse struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}
