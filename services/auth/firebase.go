// Package auth verifies bearer credentials against Firebase Authentication.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studyplanner/config"
	"studyplanner/utils"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt"
	"google.golang.org/api/option"
)

const firebaseService = "firebase"

// Verifier validates a credential and returns the authenticated principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// tokenVerifier is the part of *auth.Client the gate uses.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseGate checks Firebase ID tokens. It keeps no session state: every
// call is delegated to the identity provider after a local shape/expiry
// check.
type FirebaseGate struct {
	client       tokenVerifier
	checkRevoked bool
	now          func() time.Time
}

// NewFirebaseGate initializes the Firebase App and Auth client from the
// configured service-account file.
func NewFirebaseGate(ctx context.Context, cfg *config.Config) (*FirebaseGate, error) {
	if !cfg.AuthConfigured() {
		return nil, errors.New("firebase: no credentials configured")
	}

	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	var fbConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}

	return newFirebaseGate(client, cfg.AuthCheckRevoked), nil
}

func newFirebaseGate(client tokenVerifier, checkRevoked bool) *FirebaseGate {
	return &FirebaseGate{client: client, checkRevoked: checkRevoked, now: time.Now}
}

// Verify returns the Firebase UID of the token's subject.
func (g *FirebaseGate) Verify(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", utils.NewAuthError(utils.AuthMissing, nil)
	}
	if err := g.precheck(token); err != nil {
		return "", err
	}

	var (
		decoded *fbauth.Token
		err     error
	)
	if g.checkRevoked {
		decoded, err = g.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	} else {
		decoded, err = g.client.VerifyIDToken(ctx, token)
	}
	if err != nil {
		return "", classify(err)
	}
	if decoded == nil || decoded.UID == "" {
		return "", utils.NewAuthError(utils.AuthInvalid, errors.New("token has no subject"))
	}
	return decoded.UID, nil
}

// precheck rejects tokens that are not JWTs or are already expired without
// a round trip to the identity provider. Signatures are checked by Firebase.
func (g *FirebaseGate) precheck(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return utils.NewAuthError(utils.AuthMalformed, err)
	}
	if _, ok := claims["exp"]; !ok {
		return utils.NewAuthError(utils.AuthMalformed, errors.New("token has no exp claim"))
	}
	if !claims.VerifyExpiresAt(g.now().Unix(), true) {
		return utils.NewAuthError(utils.AuthExpired, nil)
	}
	return nil
}

func classify(err error) error {
	switch {
	case fbauth.IsIDTokenExpired(err):
		return utils.NewAuthError(utils.AuthExpired, err)
	case fbauth.IsIDTokenRevoked(err), fbauth.IsUserDisabled(err):
		return utils.NewAuthError(utils.AuthRevoked, err)
	case fbauth.IsIDTokenInvalid(err):
		return utils.NewAuthError(utils.AuthInvalid, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return utils.NewExternalServiceError(firebaseService, utils.ExternalTimeout, err)
	case fbauth.IsCertificateFetchFailed(err):
		return utils.NewExternalServiceError(firebaseService, utils.ExternalUnavailable, err)
	default:
		return utils.NewAuthError(utils.AuthInvalid, err)
	}
}

// UnconfiguredGate rejects every request when Firebase credentials are
// absent or could not be loaded, without failing process start. Err is the
// initialization failure, if any.
type UnconfiguredGate struct {
	Err error
}

func (g UnconfiguredGate) Verify(context.Context, string) (string, error) {
	cause := g.Err
	if cause == nil {
		cause = errors.New("FIREBASE_CREDENTIALS_FILE is not set")
	}
	return "", utils.NewExternalServiceError(firebaseService, utils.ExternalNotConfigured, cause)
}
