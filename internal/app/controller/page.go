package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
)

// Viewer is the session summary every page shows in its header.
type Viewer struct {
	LoggedIn bool   `json:"logged_in"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// FlashView is a flash message as rendered on a page.
type FlashView struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// renderPage writes a page view model. Pending flashes are consumed here.
func renderPage(c *gin.Context, page string, data gin.H) {
	state := middleware.GetSession(c)

	body := gin.H{
		"page": page,
		"viewer": Viewer{
			LoggedIn: state.IsAuthenticated(),
			Name:     state.CustomerName(),
			Email:    state.CustomerEmail(),
		},
		"flashes": flashViews(state.PopFlashes()),
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func flashViews(flashes []session.Flash) []FlashView {
	views := make([]FlashView, 0, len(flashes))
	for _, f := range flashes {
		views = append(views, FlashView{Category: f.Category, Message: f.Message})
	}
	return views
}

// redirectWithFlash queues a message for the next page and redirects with 303
// so the browser follows with a GET.
func redirectWithFlash(c *gin.Context, location, category, message string) {
	middleware.GetSession(c).AddFlash(category, message)
	c.Redirect(http.StatusSeeOther, location)
}

// parseIDParam reads a positive integer path parameter. Anything else is
// answered with 404, since no such page exists.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Page not found.")
		return 0, false
	}
	return uint(id), true
}

// expireSession handles a session whose customer no longer exists.
func expireSession(c *gin.Context) {
	state := middleware.GetSession(c)
	state.Logout()
	redirectWithFlash(c, middleware.LoginPath, session.FlashWarning, "Your session has expired. Please log in again.")
}
