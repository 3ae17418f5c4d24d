package assistant

import (
	"context"
	"crypto/md5"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pourrice/pourrice/internal/storage"
	apperrors "github.com/pourrice/pourrice/pkg/errors"
	"github.com/pourrice/pourrice/pkg/logger"
)

var (
	urlPattern   = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// Hong Kong numbers are eight digits, optionally prefixed with +852.
	phonePattern = regexp.MustCompile(`(\+?852[-\s]?)?\b\d{4}[-\s]?\d{4}\b`)
	promoPattern = regexp.MustCompile(`(?i)(click here|buy now|limited time|act now|risk free|no obligation)`)
)

// Guard screens questions before they reach the model.
type Guard struct {
	redis           storage.RedisClient
	duplicateWindow time.Duration
	maxURLs         int
	logger          logger.Logger
}

func NewGuard(redisClient storage.RedisClient, duplicateWindow time.Duration, maxURLs int, log logger.Logger) *Guard {
	return &Guard{
		redis:           redisClient,
		duplicateWindow: duplicateWindow,
		maxURLs:         maxURLs,
		logger:          log,
	}
}

// Check rejects promotional text, link dumps and a user repeating the same
// question inside the duplicate window.
func (g *Guard) Check(ctx context.Context, userID, question string) error {
	if promoPattern.MatchString(question) {
		return fmt.Errorf("%w: promotional content", apperrors.ErrQuestionRejected)
	}

	if urls := urlPattern.FindAllString(question, -1); len(urls) > g.maxURLs {
		return fmt.Errorf("%w: too many links (max %d)", apperrors.ErrQuestionRejected, g.maxURLs)
	}

	if g.redis == nil || g.duplicateWindow <= 0 || userID == "" {
		return nil
	}

	return g.checkDuplicate(ctx, userID, question)
}

func (g *Guard) checkDuplicate(ctx context.Context, userID, question string) error {
	normalized := strings.ToLower(strings.Join(strings.Fields(question), " "))
	key := fmt.Sprintf("assistant:question:%s:%x", userID, md5.Sum([]byte(normalized)))

	_, err := g.redis.Get(ctx, key)
	switch {
	case err == nil:
		return apperrors.ErrDuplicateQuestion
	case !storage.IsNil(err):
		// Redis trouble should not block the assistant.
		g.logger.Warn("Duplicate check failed", "error", err)
		return nil
	}

	if err := g.redis.Set(ctx, key, 1, g.duplicateWindow); err != nil {
		g.logger.Warn("Failed to store question hash", "error", err)
	}
	return nil
}

// Sanitize redacts contact details so they are never sent upstream.
func Sanitize(question string) string {
	question = emailPattern.ReplaceAllString(question, "[email removed]")
	question = phonePattern.ReplaceAllString(question, "[phone removed]")
	return strings.TrimSpace(question)
}
