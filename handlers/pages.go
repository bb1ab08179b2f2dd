package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"mindnest/middleware"
	"mindnest/services/admin"
	"mindnest/services/directory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates for gin's HTML renderer.
func LoadTemplates() *template.Template {
	funcs := template.FuncMap{
		"join": strings.Join,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// PagesHandler renders the server-side pages.
type PagesHandler struct {
	AdminService  admin.AdminService
	Directory     DirectorySearcher
	LoginProvider string
}

func NewPagesHandler(as admin.AdminService, dir DirectorySearcher, loginProvider string) *PagesHandler {
	return &PagesHandler{AdminService: as, Directory: dir, LoginProvider: loginProvider}
}

func (h *PagesHandler) page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if p, ok := middleware.GetPrincipal(c); ok {
		data["Principal"] = p
	}
	c.HTML(status, name, data)
}

func (h *PagesHandler) Home(c *gin.Context) {
	h.page(c, http.StatusOK, "home.html", gin.H{"Title": "MindNest"})
}

func (h *PagesHandler) About(c *gin.Context) {
	h.page(c, http.StatusOK, "about.html", gin.H{"Title": "About MindNest"})
}

func (h *PagesHandler) Login(c *gin.Context) {
	if _, ok := middleware.GetPrincipal(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.page(c, http.StatusOK, "login.html", gin.H{"Title": "Sign in", "Provider": h.LoginProvider})
}

func (h *PagesHandler) Policies(c *gin.Context) {
	h.page(c, http.StatusOK, "policies.html", gin.H{
		"Title":    "Policies",
		"Sections": h.AdminService.GetLegalSections(),
	})
}

func (h *PagesHandler) Policy(c *gin.Context) {
	section, err := h.AdminService.GetLegalSection(c.Param("id"))
	if err != nil {
		if errors.Is(err, admin.ErrPolicyNotFound) {
			h.NotFound(c)
			return
		}
		getLogger(c).Error("Failed to load policy", zap.Error(err))
		h.page(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Something went wrong"})
		return
	}
	h.page(c, http.StatusOK, "policy.html", gin.H{"Title": section.Title, "Section": section})
}

// PaymentFailed is where the checkout redirects when payment does not go
// through. ?reason=cancelled means the patient closed the checkout.
func (h *PagesHandler) PaymentFailed(c *gin.Context) {
	reason := c.Query("reason")
	cancelled := reason == "cancelled"
	getLogger(c).Info("Payment failure page shown", zap.String("reason", reason))
	h.page(c, http.StatusOK, "payment_failed.html", gin.H{
		"Title":     "Payment not completed",
		"Cancelled": cancelled,
		"Reason":    reason,
	})
}

// Psychologists renders the directory with the same filters as the API.
func (h *PagesHandler) Psychologists(c *gin.Context) {
	params := searchParamsFrom(c)
	data := gin.H{
		"Title":           "Find a psychologist",
		"Term":            params.Term,
		"Specializations": params.Specializations,
		"PriceRange":      params.PriceRange,
	}

	results, err := h.Directory.Search(c.Request.Context(), params)
	if err != nil {
		status := http.StatusInternalServerError
		data["Error"] = "The directory is unavailable right now. Please try again."
		if errors.Is(err, directory.ErrInvalidFilter) {
			status = http.StatusBadRequest
			data["Error"] = "That price range is not recognised."
		} else {
			getLogger(c).Error("Directory page search failed", zap.Error(err))
		}
		h.page(c, status, "psychologists.html", data)
		return
	}
	data["Results"] = results
	h.page(c, http.StatusOK, "psychologists.html", data)
}

func (h *PagesHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	h.page(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Page not found"})
}
