package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fitroom/fitroom/credstore"
)

// BearerRoundTripper attaches the stored bearer token to outgoing
// requests. It reads the credential store on every attempt, so a token
// cleared mid-flight is not resent.
//
// Content-type rules mirror what the backend expects: JSON is the default
// for bodied requests that set nothing, and a forced multipart header
// without a boundary parameter is dropped so only the multipart writer's
// generated header survives. A boundary the transport did not compute
// breaks the upload endpoint.
type BearerRoundTripper struct {
	Base  http.RoundTripper
	Store credstore.Store
}

// RoundTrip executes the request with credentials attached.
func (b *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := b.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if req == nil {
		return nil, errors.New("request is nil")
	}

	req = req.Clone(req.Context())

	if b.Store != nil {
		creds, err := b.Store.Load(req.Context())
		if err == nil && creds.Token != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
		}
	}

	contentType := req.Header.Get("Content-Type")
	switch {
	case isBareMultipart(contentType):
		req.Header.Del("Content-Type")
	case contentType == "" && req.Body != nil:
		req.Header.Set("Content-Type", "application/json")
	}

	return base.RoundTrip(req)
}

func isBareMultipart(contentType string) bool {
	return strings.HasPrefix(contentType, "multipart/form-data") &&
		!strings.Contains(contentType, "boundary=")
}
