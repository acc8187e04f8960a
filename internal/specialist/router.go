// internal/specialist/router.go
package specialist

import (
	"strings"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
)

// Router selects the persona backing a generative call.
type Router struct {
	logger logger.Logger
}

func NewRouter(log logger.Logger) *Router {
	return &Router{logger: log.WithFields(map[string]interface{}{"component": "specialist"})}
}

// Identify scans the message, then the task title, against each profile's
// expertise keywords in declaration order. The first hit wins; no hit falls
// back to the general profile. Identical inputs always yield the same key.
func (r *Router) Identify(message string, task *models.Task) string {
	lowerMsg := strings.ToLower(message)
	if key, keyword := matchProfiles(lowerMsg); key != "" {
		r.logger.Debug("specialist identified from message", map[string]interface{}{
			"profile": key,
			"keyword": keyword,
		})
		return key
	}

	if task != nil && task.Text != "" {
		lowerTitle := strings.ToLower(task.Text)
		if key, keyword := matchProfiles(lowerTitle); key != "" {
			r.logger.Debug("specialist identified from task title", map[string]interface{}{
				"profile": key,
				"keyword": keyword,
			})
			return key
		}
	}

	return GeneralKey
}

func matchProfiles(lowerText string) (key, keyword string) {
	for _, profile := range Profiles {
		for _, kw := range profile.Expertise {
			if strings.Contains(lowerText, kw) {
				return profile.Key, kw
			}
		}
	}
	return "", ""
}
