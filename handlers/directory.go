package handlers

import (
	"context"
	"errors"
	"net/http"

	directoryRepo "mindnest/database/repository/directory"
	"mindnest/models"
	"mindnest/services/directory"
	"mindnest/utils"

	"github.com/gin-gonic/gin"
)

// DirectorySearcher is the directory query used by the API and the
// psychologists page.
type DirectorySearcher interface {
	Search(ctx context.Context, params directory.SearchParams) ([]models.Psychologist, error)
	Get(ctx context.Context, id string) (*models.Psychologist, error)
}

type DirectoryHandler struct {
	Directory DirectorySearcher
}

func NewDirectoryHandler(dir DirectorySearcher) *DirectoryHandler {
	return &DirectoryHandler{Directory: dir}
}

// searchParamsFrom reads ?q=, repeated or comma separated ?specialization=
// and ?price= values.
func searchParamsFrom(c *gin.Context) directory.SearchParams {
	return directory.SearchParams{
		Term:            c.Query("q"),
		Specializations: c.QueryArray("specialization"),
		PriceRange:      c.QueryArray("price"),
	}
}

func (h *DirectoryHandler) SearchHandler(c *gin.Context) {
	logger := getLogger(c)

	results, err := h.Directory.Search(c.Request.Context(), searchParamsFrom(c))
	if err != nil {
		utils.RespondError(c, logger, directoryError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "psychologists": results})
}

func (h *DirectoryHandler) GetHandler(c *gin.Context) {
	logger := getLogger(c)

	p, err := h.Directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, directoryError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

func directoryError(err error) error {
	switch {
	case errors.Is(err, directory.ErrInvalidFilter):
		return utils.NewAppError(utils.CodeValidation, "Invalid filter", http.StatusBadRequest, err)
	case errors.Is(err, directoryRepo.ErrNotFound):
		return utils.NewAppError(utils.CodeNotFound, "Psychologist not found", http.StatusNotFound, err)
	default:
		return utils.NewAppError(utils.CodeUpstream, "Failed to search directory", http.StatusInternalServerError, err)
	}
}
