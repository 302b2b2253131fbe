package util

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// PincodeInfo is the resolved locality for an Indian postal code.
type PincodeInfo struct {
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
}

type postalPincodeResponse []struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		Name     string `json:"Name"`
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

// LookupPincode resolves a postal code to city/district/state using the
// public postalpincode.in API. Callers treat failures as non-fatal; the
// checkout form falls back to manual entry.
func LookupPincode(pincode string) (*PincodeInfo, error) {
	if len(pincode) != 6 {
		return nil, fmt.Errorf("pincode must be 6 digits")
	}

	resp, err := http.Get(fmt.Sprintf("https://api.postalpincode.in/pincode/%s", pincode))
	if err != nil {
		return nil, fmt.Errorf("failed to call pincode API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode API returned status %d", resp.StatusCode)
	}

	var parsed postalPincodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse pincode response: %w", err)
	}
	if len(parsed) == 0 || parsed[0].Status != "Success" || len(parsed[0].PostOffice) == 0 {
		return nil, fmt.Errorf("no locality found for pincode %s", pincode)
	}

	po := parsed[0].PostOffice[0]
	return &PincodeInfo{
		Pincode:  pincode,
		City:     po.Name,
		District: po.District,
		State:    po.State,
	}, nil
}
