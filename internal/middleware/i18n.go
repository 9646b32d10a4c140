// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/droplinked/marketplace-backend/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		// Use the primary language tag only
		if idx := strings.Index(lang, ","); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.TrimSpace(lang)

		supported := false
		for _, l := range i18n.GetSupportedLanguages() {
			if l == lang {
				supported = true
				break
			}
		}
		if !supported {
			lang = "en"
		}

		c.Set("lang", lang)
		c.Next()
	}
}
