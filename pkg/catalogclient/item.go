package catalogclient

import (
	"encoding/json"
	"fmt"
)

// Item mirrors the server's catalog record. Decoding is deliberately loose:
// the client must keep working against older server builds.
type Item struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Slug               string   `json:"slug"`
	Subtitle           *string  `json:"subtitle"`
	Description        *string  `json:"description"`
	Price              float64  `json:"price"`
	DiscountPrice      *float64 `json:"discountPrice"`
	PrimaryImage       *string  `json:"primaryImage"`
	Gallery            []string `json:"gallery"`
	Notes              []string `json:"notes"`
	Sizes              []int64  `json:"sizes"`
	VolumeLabel        *string  `json:"volumeLabel"`
	Stock              int      `json:"stock"`
	Featured           bool     `json:"featured"`
	Active             bool     `json:"active"`
	Gender             *string  `json:"gender"`
	DefaultUsagePeriod *string  `json:"defaultUsagePeriod"`
	PinUsagePeriod     bool     `json:"pinUsagePeriod"`
	ReleaseKind        *string  `json:"releaseKind"`
}

// decodePayload accepts either a bare array or an envelope carrying the array
// under "items". A payload with a declared error field is reported via
// declaredErr so the caller can settle into the empty-result state.
func decodePayload(body []byte) (items []Item, declaredErr string, err error) {
	var bare []Item
	if jsonErr := json.Unmarshal(body, &bare); jsonErr == nil {
		return bare, "", nil
	}

	var envelope struct {
		Items []Item          `json:"items"`
		Error json.RawMessage `json:"error"`
	}
	if jsonErr := json.Unmarshal(body, &envelope); jsonErr != nil {
		return nil, "", fmt.Errorf("unexpected payload shape: %w", jsonErr)
	}
	if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		return nil, string(envelope.Error), nil
	}
	if envelope.Items == nil {
		return []Item{}, "", nil
	}
	return envelope.Items, "", nil
}
