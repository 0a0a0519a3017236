package middleware

import (
	"fmt"
	"time"

	"pay2u/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
)

const tokenContextKey = "user"

// Authenticator validates bearer tokens and puts the subject's user ID on the
// request context.
type Authenticator struct {
	config echojwt.Config
	jwks   *keyfunc.JWKS
}

// NewAuthenticator verifies tokens against the JWKS at jwksURL when set, otherwise
// against the HMAC secret. With neither, a random secret is generated.
func NewAuthenticator(secret, jwksURL string, logger *zap.Logger) (*Authenticator, error) {
	a := &Authenticator{
		config: echojwt.Config{
			ContextKey: tokenContextKey,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(jwt.RegisteredClaims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return common.SendUnauthorizedError(c)
			},
		},
	}

	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("jwks refresh failed", zap.String("url", jwksURL), zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS: %w", err)
		}
		a.jwks = jwks
		a.config.KeyFunc = jwks.Keyfunc
		return a, nil
	}

	if secret == "" {
		secret = random.String(32)
		logger.Warn("JWT_SECRET not set, using a generated secret; issued tokens will not survive a restart")
	}
	a.config.SigningKey = []byte(secret)
	return a, nil
}

// Middleware rejects requests without a valid token and stores the token subject
// as the user ID.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(a.config)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(userFromToken(next))
	}
}

// Close stops the JWKS background refresh.
func (a *Authenticator) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

func userFromToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.SendUnauthorizedError(c)
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return common.SendUnauthorizedError(c)
		}

		userID, err := uuid.Parse(sub)
		if err != nil {
			return common.SendUnauthorizedError(c)
		}

		c.SetRequest(c.Request().WithContext(common.WithUserID(c.Request().Context(), userID)))
		return next(c)
	}
}
