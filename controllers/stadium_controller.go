// Package controllers file: controllers/stadium_controller.go
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"github.com/skip2/go-qrcode"

	"footy-stadia/logger"
	"footy-stadia/middleware"
	"footy-stadia/models"
	"footy-stadia/services"
	"footy-stadia/store"
)

// qrCodeSize is the edge length in pixels of a stadium's share code.
const qrCodeSize = 300

// stadiumForm is the body of the new and edit stadium forms.
type stadiumForm struct {
	Name        string `form:"name" binding:"required"`
	Image       string `form:"image"`
	Description string `form:"description"`
	Location    string `form:"location"`
}

// StadiumController serves /stadiums.
type StadiumController struct {
	Store          store.Store
	Geocoder       services.Geocoder
	Metrics        services.Metrics
	ApplicationURL string
	Encode         services.QRCodeEncoder
}

// NewStadiumController wires a StadiumController with the real QR encoder.
func NewStadiumController(s store.Store, g services.Geocoder, m services.Metrics, applicationURL string) *StadiumController {
	if m == nil {
		m = services.NoopMetrics{}
	}
	return &StadiumController{
		Store:          s,
		Geocoder:       g,
		Metrics:        m,
		ApplicationURL: applicationURL,
		Encode:         services.QRCodeEncoder(qrcode.Encode),
	}
}

// geocode resolves the submitted address. On failure the request has already
// been answered and ok is false.
func (sc *StadiumController) geocode(c *gin.Context, address string) (*services.Location, bool) {
	loc, err := sc.Geocoder.Geocode(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, errors.NotValid) {
			logger.Warn.Printf("geocode: no match for %q", address)
		} else {
			logger.Error.Printf("geocode: %q: %v", address, err)
		}
		sc.Metrics.RecordEvent(services.MetricGeocodeFailures)
		middleware.RedirectBack(c, middleware.NoticeError, "Invalid address")
		return nil, false
	}
	return loc, true
}

// Index lists stadiums, filtered by ?search= when present.
func (sc *StadiumController) Index(c *gin.Context) {
	search := c.Query("search")
	stadiums, err := sc.Store.ListStadiums(c.Request.Context(), search)
	if err != nil {
		logger.Error.Printf("Index: listing stadiums (search=%q): %v", search, err)
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	logger.Debug.Printf("Index: %d stadiums for search=%q", len(stadiums), search)
	render(c, http.StatusOK, "stadiums_index.html", gin.H{
		"stadiums": stadiums,
		"search":   search,
	})
}

// New renders the create form.
func (sc *StadiumController) New(c *gin.Context) {
	render(c, http.StatusOK, "stadiums_new.html", nil)
}

// Create geocodes the submitted location and stores a new stadium owned by
// the current user. Nothing is stored when the address does not resolve.
func (sc *StadiumController) Create(c *gin.Context) {
	var form stadiumForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("Create: invalid stadium form: %v", err)
		middleware.RedirectBack(c, middleware.NoticeError, "Stadium name is required")
		return
	}

	loc, ok := sc.geocode(c, form.Location)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	stadium := &models.Stadium{
		Name:        form.Name,
		Image:       form.Image,
		Description: form.Description,
		Location:    loc.FormattedAddress,
		Lat:         loc.Latitude,
		Lng:         loc.Longitude,
		Author:      user.AuthorSnapshot(),
	}
	if err := sc.Store.CreateStadium(c.Request.Context(), stadium); err != nil {
		logger.Error.Printf("Create: storing stadium %q: %v", form.Name, err)
		middleware.RedirectBack(c, middleware.NoticeError, "Something went wrong")
		return
	}

	sc.Metrics.RecordEvent(services.MetricStadiumCreated)
	logger.Info.Printf("Create: stadium %s (%s) added by %s", stadium.Name, stadium.ID, user.Username)
	middleware.SaveSession(c)
	c.Redirect(http.StatusFound, "/stadiums")
}

// Show renders one stadium with its comments.
func (sc *StadiumController) Show(c *gin.Context) {
	stadium, err := sc.Store.FindStadiumWithComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, errors.NotFound) {
			logger.Error.Printf("Show: loading stadium %s: %v", c.Param("id"), err)
		}
		middleware.Redirect(c, middleware.NoticeError, "Stadium not found", "/stadiums")
		return
	}
	render(c, http.StatusOK, "stadiums_show.html", gin.H{"stadium": stadium})
}

// Edit renders the edit form for the stadium loaded by the ownership guard.
func (sc *StadiumController) Edit(c *gin.Context) {
	render(c, http.StatusOK, "stadiums_edit.html", gin.H{"stadium": middleware.StadiumFromContext(c)})
}

// Update replaces the editable fields of a stadium. The author is never
// touched.
func (sc *StadiumController) Update(c *gin.Context) {
	id := c.Param("id")
	var form stadiumForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("Update: invalid stadium form for %s: %v", id, err)
		middleware.RedirectBack(c, middleware.NoticeError, "Stadium name is required")
		return
	}

	loc, ok := sc.geocode(c, form.Location)
	if !ok {
		return
	}

	stadium, err := sc.Store.UpdateStadium(c.Request.Context(), id, models.StadiumUpdate{
		Name:        form.Name,
		Image:       form.Image,
		Description: form.Description,
		Location:    loc.FormattedAddress,
		Lat:         loc.Latitude,
		Lng:         loc.Longitude,
	})
	if err != nil {
		logger.Error.Printf("Update: stadium %s: %v", id, err)
		middleware.RedirectBack(c, middleware.NoticeError, err.Error())
		return
	}

	middleware.Redirect(c, middleware.NoticeSuccess, "Successfully Updated!", "/stadiums/"+stadium.ID)
}

// Delete removes a stadium and its comments.
func (sc *StadiumController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := sc.Store.DeleteStadium(c.Request.Context(), id); err != nil {
		logger.Error.Printf("Delete: stadium %s: %v", id, err)
		middleware.Redirect(c, middleware.NoticeError, "Something went wrong", "/stadiums")
		return
	}
	sc.Metrics.RecordEvent(services.MetricStadiumDeleted)
	logger.Info.Printf("Delete: stadium %s removed by %s", id, middleware.CurrentUser(c).Username)
	middleware.Redirect(c, middleware.NoticeSuccess, "Stadium deleted.", "/stadiums")
}

// QRCode serves a PNG linking to the stadium's public page.
func (sc *StadiumController) QRCode(c *gin.Context) {
	stadium, err := sc.findStadium(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, http.StatusNotFound, "Stadium not found")
		return
	}

	png, err := services.GenerateQRCode(services.StadiumShareURL(sc.ApplicationURL, stadium.ID), qrCodeSize, sc.Encode)
	if err != nil {
		logger.Error.Printf("QRCode: Error generating QR code for %s: %v", stadium.ID, err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"stadium-"+stadium.ID+".png\"")
	c.Data(http.StatusOK, "image/png", png)
}

func (sc *StadiumController) findStadium(ctx context.Context, id string) (*models.Stadium, error) {
	stadium, err := sc.Store.FindStadium(ctx, id)
	if err != nil && !errors.Is(err, errors.NotFound) {
		logger.Error.Printf("findStadium: %s: %v", id, err)
	}
	return stadium, err
}
