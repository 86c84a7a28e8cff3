package model

// BroadcastResponse is the node's acceptance result for a submitted
// transaction, returned unmodified to the caller.
type BroadcastResponse struct {
	TransactionID string `json:"transactionId"`
}

// GenerateResponse represents response for POST /api/wallet/generate
type GenerateResponse struct {
	Passphrase string `json:"passphrase"`
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey"`
	QR         string `json:"qr"`
}

// ForgingRequest represents request for POST /api/forging
type ForgingRequest struct {
	Address                   string `json:"address"`
	Forging                   bool   `json:"forging"`
	Height                    uint64 `json:"height"`
	MaxHeightPreviouslyForged uint64 `json:"maxHeightPreviouslyForged"`
	MaxHeightPrevoted         uint64 `json:"maxHeightPrevoted"`
	Port                      int    `json:"port"`
}

// ForgingResponse represents the forging status after a toggle.
type ForgingResponse struct {
	Address string `json:"address"`
	Forging bool   `json:"forging"`
}

// ImportRequest represents request for POST /api/import
type ImportRequest struct {
	Host string `json:"host"`
}

// OperationResult is the generic result envelope of operator endpoints.
type OperationResult struct {
	Result bool `json:"result"`
}
