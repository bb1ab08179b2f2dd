package handlers

import (
	"errors"
	"net/http"

	"mindnest/services/admin"
	"mindnest/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates the dashboard and policy endpoints.
type AdminHandler struct {
	AdminService admin.AdminService
}

func NewAdminHandler(as admin.AdminService) *AdminHandler {
	return &AdminHandler{AdminService: as}
}

// StatsHandler returns revenue and booking counts.
func (ah *AdminHandler) StatsHandler(c *gin.Context) {
	stats, err := ah.AdminService.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, getLogger(c), utils.NewAppError(utils.CodeUpstream, "Failed to load stats", http.StatusInternalServerError, err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ProfilesHandler returns all profiles (password hashes are never serialised).
func (ah *AdminHandler) ProfilesHandler(c *gin.Context) {
	profiles, err := ah.AdminService.Profiles(c.Request.Context())
	if err != nil {
		utils.RespondError(c, getLogger(c), utils.NewAppError(utils.CodeUpstream, "Failed to fetch profiles", http.StatusInternalServerError, err))
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// PoliciesHandler lists policy documents, optionally for one ?audience=.
func (ah *AdminHandler) PoliciesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, ah.AdminService.GetLegalSectionsFor(c.Query("audience")))
}

func (ah *AdminHandler) PolicyHandler(c *gin.Context) {
	section, err := ah.AdminService.GetLegalSection(c.Param("id"))
	if err != nil {
		if errors.Is(err, admin.ErrPolicyNotFound) {
			utils.RespondError(c, getLogger(c), utils.NewAppError(utils.CodeNotFound, "Policy not found", http.StatusNotFound, err))
			return
		}
		utils.RespondError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, section)
}
