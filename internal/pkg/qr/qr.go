package qr

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Payload is the data embedded in a redemption QR code. The redemption ID is
// the authoritative field; the rest is denormalized for offline display in
// the scanning app.
type Payload struct {
	RedemptionID string `json:"redemptionId"`
	OfferID      string `json:"offerId"`
	InfluencerID string `json:"influencerId"`
	BusinessName string `json:"businessName"`
}

// Encode serializes the payload to the string embedded in the barcode.
func (p Payload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr payload: %w", err)
	}
	return string(data), nil
}

// Decode parses a scanned barcode string back into a payload.
func Decode(s string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("failed to decode qr payload: %w", err)
	}
	if p.RedemptionID == "" {
		return nil, fmt.Errorf("qr payload missing redemption id")
	}
	return &p, nil
}

// Image renders the payload as a PNG 2D barcode of the given pixel size.
func Image(p Payload, size int) ([]byte, error) {
	content, err := p.Encode()
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr image: %w", err)
	}
	return png, nil
}
