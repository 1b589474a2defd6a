package firebaseauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("invalid id token")

type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

type Config struct {
	ProjectID  string
	JWKSURL    string
	HTTPClient *http.Client
	Leeway     time.Duration
	// Now is used for expiry checks; nil means time.Now.
	Now func() time.Time
}

type verifier struct {
	projectID string
	issuer    string
	leeway    time.Duration
	now       func() time.Time
	jwks      *jwksCache
}

func NewVerifier(cfg Config) (Verifier, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if strings.TrimSpace(cfg.JWKSURL) == "" {
		cfg.JWKSURL = DefaultJWKSURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Leeway == 0 {
		cfg.Leeway = 30 * time.Second
	}
	return &verifier{
		projectID: projectID,
		issuer:    "https://securetoken.google.com/" + projectID,
		leeway:    cfg.Leeway,
		now:       cfg.Now,
		jwks:      newJWKSCache(cfg.HTTPClient, cfg.JWKSURL, cfg.Now),
	}, nil
}

func (v *verifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	claims := jwt.MapClaims{}
	tok, err := parser.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("missing kid")
		}
		return v.jwks.getKey(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if tok == nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" || len(sub) > 128 {
		return nil, fmt.Errorf("%w: bad sub", ErrInvalidToken)
	}
	if at, ok := claims["auth_time"].(float64); ok {
		if time.Unix(int64(at), 0).After(v.now().Add(v.leeway)) {
			return nil, fmt.Errorf("%w: auth_time in the future", ErrInvalidToken)
		}
	}

	out := &Identity{UID: sub}
	out.Email, _ = claims["email"].(string)
	out.EmailVerified, _ = claims["email_verified"].(bool)
	return out, nil
}

// ----- JWKS cache -----

const (
	defaultJWKSTTL = 6 * time.Hour
	// minJWKSRefresh bounds how often unknown kids can force a fetch.
	minJWKSRefresh = time.Minute
)

type jwksCache struct {
	httpClient *http.Client
	url        string
	now        func() time.Time
	group      singleflight.Group

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	expiresAt   time.Time
	lastAttempt time.Time
}

func newJWKSCache(httpClient *http.Client, url string, now func() time.Time) *jwksCache {
	return &jwksCache{
		httpClient: httpClient,
		url:        url,
		now:        now,
		keys:       map[string]*rsa.PublicKey{},
	}
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (j *jwksCache) getKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	now := j.now()
	j.mu.RLock()
	key := j.keys[kid]
	fresh := now.Before(j.expiresAt)
	throttled := now.Sub(j.lastAttempt) < minJWKSRefresh
	j.mu.RUnlock()
	if key != nil && fresh {
		return key, nil
	}
	if throttled {
		if key != nil {
			return key, nil
		}
		return nil, fmt.Errorf("kid not found in jwks: %s", kid)
	}

	_, err, _ := j.group.Do("refresh", func() (any, error) {
		return nil, j.refresh(ctx)
	})
	if err != nil {
		if key != nil {
			return key, nil
		}
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if key = j.keys[kid]; key == nil {
		return nil, fmt.Errorf("kid not found in jwks: %s", kid)
	}
	return key, nil
}

func (j *jwksCache) refresh(ctx context.Context) error {
	j.mu.Lock()
	j.lastAttempt = j.now()
	j.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		return err
	}
	res, err := j.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("jwks fetch failed: %s", res.Status)
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(res.Body).Decode(&set); err != nil {
		return err
	}
	next := map[string]*rsa.PublicKey{}
	for _, k := range set.Keys {
		if k.Kty != "RSA" || strings.TrimSpace(k.Kid) == "" {
			continue
		}
		if pub, err := rsaFromModExp(k.N, k.E); err == nil {
			next[k.Kid] = pub
		}
	}
	if len(next) == 0 {
		return fmt.Errorf("jwks contained no usable keys")
	}

	ttl := maxAge(res.Header.Get("Cache-Control"))
	if ttl <= 0 {
		ttl = defaultJWKSTTL
	}
	j.mu.Lock()
	j.keys = next
	j.expiresAt = j.now().Add(ttl)
	j.mu.Unlock()
	return nil
}

// maxAge returns the Cache-Control max-age, or 0 when absent.
func maxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		v, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(part)), "max-age=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.Trim(v, `"`))
		if err != nil || n <= 0 {
			return 0
		}
		return time.Duration(n) * time.Second
	}
	return 0
}

func rsaFromModExp(nB64, eB64 string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(nB64)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(eB64)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eb {
		e = e<<8 + int(b)
	}
	if e == 0 {
		return nil, fmt.Errorf("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}
