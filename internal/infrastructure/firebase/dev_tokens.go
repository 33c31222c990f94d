package firebase

import (
	"context"
)

// GenerateLongLivedToken mints a custom token for the uid and, when an
// API key is configured, exchanges it for an ID token so development
// clients can call the API without a full sign-in round trip.
func (f *FirebaseAuthClient) GenerateLongLivedToken(ctx context.Context, uid string) (string, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", err
	}

	if f.apiKey != "" {
		idToken, err := f.exchangeCustomTokenForIDToken(customToken)
		if err != nil {
			return "", err
		}
		return idToken, nil
	}

	return customToken, nil
}
