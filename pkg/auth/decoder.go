package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"topjob-gateway/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// DecodeError means the credential matches none of the supported encodings
// or lacks required fields. Callers treat it as "no valid session".
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode credential: %s: %v", e.Reason, e.Err)
	}
	return "decode credential: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// claimSet is the normalized claim payload shared by all encodings.
// Required-field enforcement happens here, once, via the validator.
type claimSet struct {
	SubjectID string `validate:"required"`
	Email     string
	Role      string `validate:"required"`
	Status    string
	IssuedAt  int64
	ExpiresAt int64 `validate:"required,gt=0"`
}

// Decoder parses a credential into a structured identity using an ordered
// list of encodings:
//
//  1. signed JWT (HS256, shared secret) with structured claims
//  2. base64-encoded JSON object
//  3. raw JSON object
//
// The fallback chain exists because the gateway accepts both backend-issued
// signed tokens and locally fabricated development credentials. The first
// encoding that yields a structured parse with at least a subject id, role
// and expiry wins. Expiry is reported on the identity, not enforced here;
// expiry policy belongs to the session manager and router.
type Decoder struct {
	secret   []byte
	validate *validator.Validate
}

func NewDecoder(secret string) *Decoder {
	return &Decoder{
		secret:   []byte(secret),
		validate: validator.New(),
	}
}

func (d *Decoder) Decode(credential string) (*domain.Identity, error) {
	if credential == "" {
		return nil, &DecodeError{Reason: "empty credential"}
	}

	attempts := []func(string) (map[string]interface{}, error){
		d.decodeJWT,
		d.decodeBase64JSON,
		d.decodeRawJSON,
	}

	var lastErr error
	for _, attempt := range attempts {
		claims, err := attempt(credential)
		if err != nil {
			lastErr = err
			continue
		}
		identity, err := d.identityFromClaims(claims)
		if err != nil {
			lastErr = err
			continue
		}
		return identity, nil
	}

	return nil, &DecodeError{Reason: "no supported encoding matched", Err: lastErr}
}

func (d *Decoder) decodeJWT(credential string) (map[string]interface{}, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if len(d.secret) == 0 {
			return nil, fmt.Errorf("HMAC token received but no token secret configured")
		}
		return d.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	return claims, nil
}

func (d *Decoder) decodeBase64JSON(credential string) (map[string]interface{}, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		raw, err := enc.DecodeString(credential)
		if err != nil {
			lastErr = err
			continue
		}
		claims, err := d.decodeRawJSON(string(raw))
		if err != nil {
			lastErr = err
			continue
		}
		return claims, nil
	}
	return nil, lastErr
}

func (d *Decoder) decodeRawJSON(credential string) (map[string]interface{}, error) {
	var claims map[string]interface{}
	if err := json.Unmarshal([]byte(credential), &claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, fmt.Errorf("credential is JSON null")
	}
	return claims, nil
}

// identityFromClaims accepts the claim-name variants produced by the
// external backend and by development tooling.
func (d *Decoder) identityFromClaims(claims map[string]interface{}) (*domain.Identity, error) {
	cs := claimSet{
		SubjectID: stringClaim(claims, "sub", "subjectId", "subject_id", "user_id", "userId"),
		Email:     stringClaim(claims, "email"),
		Role:      stringClaim(claims, "role"),
		Status:    stringClaim(claims, "status"),
		IssuedAt:  epochClaim(claims, "iat", "issuedAt", "issued_at"),
		ExpiresAt: epochClaim(claims, "exp", "expiresAt", "expires_at"),
	}

	if err := d.validate.Struct(&cs); err != nil {
		return nil, &DecodeError{Reason: "missing required claims", Err: err}
	}

	role, ok := domain.ParseRole(cs.Role)
	if !ok {
		return nil, &DecodeError{Reason: "unrecognized role " + strconv.Quote(cs.Role)}
	}

	identity := &domain.Identity{
		SubjectID: cs.SubjectID,
		Email:     cs.Email,
		Role:      role,
		ExpiresAt: time.Unix(cs.ExpiresAt, 0),
	}
	if cs.IssuedAt > 0 {
		identity.IssuedAt = time.Unix(cs.IssuedAt, 0)
	}
	// Status only carries meaning for employers; drop it for other roles so
	// stale claims cannot leak into routing decisions.
	if role == domain.RoleEmployer {
		identity.Status = domain.ParseStatus(cs.Status)
	}

	return identity, nil
}

func stringClaim(claims map[string]interface{}, names ...string) string {
	for _, name := range names {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func epochClaim(claims map[string]interface{}, names ...string) int64 {
	for _, name := range names {
		switch v := claims[name].(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n
			}
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
