package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/payment"
	"github.com/Domenick1991/staybook/internal/rentapi"
	"github.com/Domenick1991/staybook/internal/repository"
	"github.com/Domenick1991/staybook/internal/service/booking"
	"github.com/Domenick1991/staybook/internal/service/console"
	"github.com/Domenick1991/staybook/internal/service/reviews"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	SessionCookie = "staybook_session"

	sessionKey      = "session"
	sessionStaleKey = "session_stale"
	loginPath       = "/login"
)

type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.Session, error)
	Invalidate(ctx context.Context, sessionID string) error
}

// SessionMiddleware loads the session named by the cookie and drops it once a
// handler reports that the API refused its credential.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err == nil && id != "" {
			sess, err := resolver.Resolve(c.Request.Context(), id)
			if err != nil {
				log.Printf("resolve session: %v", err)
			}
			if sess != nil {
				c.Set(sessionKey, sess)
			}
		}

		c.Next()

		if stale, ok := c.Get(sessionStaleKey); ok {
			if sid, _ := stale.(string); sid != "" {
				if err := resolver.Invalidate(c.Request.Context(), sid); err != nil {
					log.Printf("invalidate session %s: %v", sid, err)
				}
			}
		}
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func sessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*domain.Session)
	return sess
}

func setSessionCookie(c *gin.Context, id string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// respondError maps service errors to a status and a JSON body.
func respondError(c *gin.Context, err error) {
	var (
		transition *domain.TransitionError
		rejected   *domain.RejectedError
		apiErr     *rentapi.APIError
		invalid    validator.ValidationErrors
	)

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		if sess := sessionFrom(c); sess != nil {
			c.Set(sessionStaleKey, sess.ID)
			c.Set(sessionKey, (*domain.Session)(nil))
			clearSessionCookie(c)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error(), "redirect": loginPath})
	case errors.Is(err, domain.ErrNotRegistered):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not registered", "redirect": "/register"})
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, console.ErrInvalidInput), errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAvailabilityUnknown):
		c.JSON(http.StatusBadGateway, gin.H{"error": "❌ Could not check availability"})
	case errors.As(err, &rejected):
		c.JSON(http.StatusConflict, gin.H{"error": rejected.Message})
	case errors.As(err, &transition),
		errors.Is(err, booking.ErrAttemptBusy),
		errors.Is(err, booking.ErrDuplicateSubmission),
		errors.Is(err, payment.ErrUnknownOrder),
		errors.Is(err, payment.ErrOrderMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrAttemptNotFound), errors.Is(err, repository.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, reviews.ErrNotEligible), errors.Is(err, console.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": rentapi.MessageOf(err, http.StatusText(apiErr.Status))})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
