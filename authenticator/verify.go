package authenticator

import (
	"context"
	"net/http"
	"reflect"
	"strings"
)

// Grant is what the verify callback receives from a successful exchange. AccessToken is
// empty when the provider answered without issuing a token; the callback decides.
type Grant struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	IdentityID  string
	Scope       string

	separator string
}

// Scopes splits the granted scope on the configured separator
func (g Grant) Scopes() []string {
	if g.Scope == "" {
		return nil
	}
	sep := g.separator
	if sep == "" {
		sep = DefaultScopeSeparator
	}
	var scopes []string
	for _, s := range strings.Split(g.Scope, sep) {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// VerifyFunc resolves a grant into a user. Returning a nil user rejects the attempt,
// a non-nil error aborts it.
type VerifyFunc func(ctx context.Context, grant Grant) (user any, info Info, err error)

// VerifyRequestFunc is VerifyFunc with access to the callback request.
type VerifyRequestFunc func(r *http.Request, grant Grant) (user any, info Info, err error)

// Verifier is implemented by VerifyFunc and VerifyRequestFunc
type Verifier interface {
	verify(r *http.Request, grant Grant) (any, Info, error)
}

func (f VerifyFunc) verify(r *http.Request, grant Grant) (any, Info, error) {
	return f(r.Context(), grant)
}

func (f VerifyRequestFunc) verify(r *http.Request, grant Grant) (any, Info, error) {
	return f(r, grant)
}

// dispatch invokes the verifier exactly once and maps its result to an outcome
func dispatch(v Verifier, r *http.Request, grant Grant) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Errored(&VerifierFault{Value: rec})
		}
	}()

	user, info, err := v.verify(r, grant)
	if err != nil {
		return Errored(err)
	}
	if isNilUser(user) {
		reason := info.Message
		var cause error
		if grant.AccessToken == "" {
			cause = ErrNoTokenIssued
			if reason == "" {
				reason = ErrNoTokenIssued.Error()
			}
		}
		out = Fail(reason, http.StatusUnauthorized, cause)
		out.Info.Data = info.Data
		return out
	}
	return Success(user, info)
}

// isNilUser treats nil, a typed nil and false as "no user".
func isNilUser(user any) bool {
	switch u := user.(type) {
	case nil:
		return true
	case bool:
		return !u
	}

	v := reflect.ValueOf(user)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
