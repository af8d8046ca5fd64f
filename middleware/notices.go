// File: middleware/notices.go
package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Notice kinds.
const (
	NoticeError   = "error"
	NoticeSuccess = "success"
)

const noticesKey = "notices"

// Notices are the one-shot messages shown on the current response.
type Notices struct {
	Error   []string
	Success []string
}

// Empty reports whether there is nothing to show.
func (n *Notices) Empty() bool {
	return n == nil || len(n.Error)+len(n.Success) == 0
}

// LoadNotices pops the flashes stored by the previous request so they are
// shown exactly once. The pop is persisted when the response saves the session.
func LoadNotices(c *gin.Context) {
	session := sessions.Default(c)
	notices := &Notices{
		Error:   flashStrings(session.Flashes(NoticeError)),
		Success: flashStrings(session.Flashes(NoticeSuccess)),
	}
	c.Set(noticesKey, notices)
	c.Next()
}

func flashStrings(flashes []interface{}) []string {
	var out []string
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetNotices returns the notices for the current response.
func GetNotices(c *gin.Context) *Notices {
	if v, ok := c.Get(noticesKey); ok {
		if n, ok := v.(*Notices); ok {
			return n
		}
	}
	n := &Notices{}
	c.Set(noticesKey, n)
	return n
}

// AddNotice queues a message for the next response.
func AddNotice(c *gin.Context, kind, message string) {
	sessions.Default(c).AddFlash(message, kind)
}

// AddNoticeNow shows a message on the current response instead.
func AddNoticeNow(c *gin.Context, kind, message string) {
	n := GetNotices(c)
	switch kind {
	case NoticeError:
		n.Error = append(n.Error, message)
	default:
		n.Success = append(n.Success, message)
	}
}

// Redirect stores a notice and redirects to location.
func Redirect(c *gin.Context, kind, message, location string) {
	AddNotice(c, kind, message)
	SaveSession(c)
	c.Redirect(http.StatusFound, location)
}

// Back is the referring page when it belongs to this site, otherwise fallback.
func Back(c *gin.Context, fallback string) string {
	ref := c.Request.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return fallback
	}
	if u.Path == "" {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// RedirectBack stores a notice and redirects to the referring page,
// falling back to the stadium listing.
func RedirectBack(c *gin.Context, kind, message string) {
	Redirect(c, kind, message, Back(c, "/stadiums"))
}
