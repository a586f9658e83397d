package authenticator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// TokenResponse is the interpreted token endpoint answer. Exactly one of the grant fields
// (AccessToken and friends) or Err is meaningful: IsError tells which.
type TokenResponse struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	IdentityID  string
	Scope       string
	IDToken     string

	// Raw holds every member of the response document
	Raw map[string]any

	Err *ProviderError
}

// IsError reports whether the provider rejected the exchange
func (t *TokenResponse) IsError() bool {
	return t.Err != nil
}

// ParseTokenResponse interprets a token endpoint body. JSON is the default encoding;
// form-encoded bodies are accepted as well. A status of 400 or above without an error
// document is reported as a provider error.
func ParseTokenResponse(statusCode int, contentType string, body []byte, identityField string) (*TokenResponse, error) {
	doc, err := decodeDocument(contentType, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if perr := errorMember(doc); perr != nil {
		return &TokenResponse{Raw: doc, Err: perr}, nil
	}

	if statusCode >= http.StatusBadRequest {
		return &TokenResponse{
			Raw: doc,
			Err: &ProviderError{
				Code:        "http_" + strconv.Itoa(statusCode),
				Description: http.StatusText(statusCode),
			},
		}, nil
	}

	expiresIn, err := intMember(doc, "expires_in")
	if err != nil {
		return nil, fmt.Errorf("%w: expires_in: %w", ErrMalformedResponse, err)
	}

	return &TokenResponse{
		AccessToken: stringMember(doc, "access_token"),
		TokenType:   stringMember(doc, "token_type"),
		ExpiresIn:   expiresIn,
		IdentityID:  stringMember(doc, identityField),
		Scope:       stringMember(doc, "scope"),
		IDToken:     stringMember(doc, "id_token"),
		Raw:         doc,
	}, nil
}

// errorMember reports any present, non-empty, non-false error member as a provider
// error. Some providers nest the error in an object.
func errorMember(doc map[string]any) *ProviderError {
	perr := &ProviderError{
		Description: stringMember(doc, "error_description"),
		URI:         stringMember(doc, "error_uri"),
	}

	switch v := doc["error"].(type) {
	case nil:
		return nil
	case bool:
		if !v {
			return nil
		}
		perr.Code = "error"
	case string:
		if v == "" {
			return nil
		}
		perr.Code = v
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return nil
		}
		perr.Code = v.String()
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
		perr.Code = stringMember(v, "code")
		if perr.Code == "" {
			perr.Code = stringMember(v, "error")
		}
		if perr.Description == "" {
			perr.Description = stringMember(v, "description")
		}
		if perr.Description == "" {
			perr.Description = stringMember(v, "message")
		}
		if perr.Code == "" {
			perr.Code = "error"
		}
	case []any:
		if len(v) == 0 {
			return nil
		}
		perr.Code = fmt.Sprint(v...)
	default:
		perr.Code = fmt.Sprint(v)
	}
	return perr
}

func decodeDocument(contentType string, body []byte) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/x-www-form-urlencoded", "text/plain":
		if len(bytes.TrimSpace(body)) > 0 && body[0] != '{' {
			return decodeForm(body)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("empty document")
	}
	return doc, nil
}

func decodeForm(body []byte) (map[string]any, error) {
	vals, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any, len(vals))
	for k := range vals {
		doc[k] = vals.Get(k)
	}
	return doc, nil
}

// stringMember reads a string or number member; anything else reads as empty.
func stringMember(doc map[string]any, key string) string {
	switch v := doc[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

func intMember(doc map[string]any, key string) (int64, error) {
	var raw string
	switch v := doc[key].(type) {
	case nil:
		return 0, nil
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
		if raw == "" {
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s out of range", raw)
	}
	return int64(f), nil
}
