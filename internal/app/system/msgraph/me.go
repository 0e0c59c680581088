// internal/app/system/msgraph/me.go

package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Me is the subset of the Graph /me document the sign-in flow consumes.
type Me struct {
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// FetchMe retrieves the signed-in user's directory record. The client
// must already carry the user's bearer token (oauth2.NewClient). This is
// a one-shot call in the sign-in flow, so it does not go through the
// retry layer.
func FetchMe(ctx context.Context, client *http.Client, baseURL string) (*Me, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/me", nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph me: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph me: status %d", resp.StatusCode)
	}

	var me Me
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, fmt.Errorf("graph me: decode: %w", err)
	}
	return &me, nil
}
