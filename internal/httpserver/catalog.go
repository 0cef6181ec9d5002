package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/authz"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/uploads"
	"github.com/Skotchmaster/inventory/pkg/logging"
	authmw "github.com/Skotchmaster/inventory/pkg/middleware/auth"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func identity(c echo.Context) (authz.Identity, bool) {
	user, role, ok := authmw.CurrentUser(c)
	if !ok {
		return authz.Identity{}, false
	}
	return authz.Identity{User: user, Role: role}, true
}

func (h *CatalogHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.dashboard")

	ident, ok := identity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	listing, err := h.Svc.List(ctx, ident)
	if err != nil {
		l.Errorw("dashboard_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, transport.DashboardView{
		User:     ident.User,
		Role:     ident.Role,
		Products: listing.Products,
		Logo:     listing.Logo,
		Notices:  takeNotices(c),
	})
}

func (h *CatalogHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.add_product")

	ident, ok := identity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	in, closeFn, err := productInput(c)
	if err != nil {
		l.Warnw("add_product_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	defer closeFn()

	prod, err := h.Svc.Add(ctx, ident, in)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warnw("add_product_failed", "status", 400, "reason", "invalid product", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		l.Errorw("add_product_failed", "status", 500, "reason", "cannot add product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product")
	}

	addNotice(c, noticeAdded)
	l.Infow("add_product_success", "id", prod.ID)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *CatalogHTTP) EditProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.edit_product")

	ident, ok := identity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	id, err := parseID(c)
	if err != nil {
		l.Warnw("edit_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	in, closeFn, err := productInput(c)
	if err != nil {
		l.Warnw("edit_product_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	defer closeFn()

	if _, err := h.Svc.Edit(ctx, ident, id, in); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrForbidden):
			l.Warnw("edit_product_no_effect", "id", id, "reason", err.Error())
		case errors.Is(err, service.ErrValidation):
			l.Warnw("edit_product_failed", "status", 400, "reason", "invalid product", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product")
		default:
			l.Errorw("edit_product_failed", "status", 500, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
		}
	}

	addNotice(c, noticeUpdated)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	ident, ok := identity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	id, err := parseID(c)
	if err != nil {
		l.Warnw("delete_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	if err := h.Svc.Delete(ctx, ident, id); err != nil {
		if !errors.Is(err, service.ErrNotFound) && !errors.Is(err, service.ErrForbidden) {
			l.Errorw("delete_product_failed", "status", 500, "reason", "cannot delete product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
		}
		l.Warnw("delete_product_no_effect", "id", id, "reason", err.Error())
	}

	addNotice(c, noticeDeleted)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *CatalogHTTP) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.upload_logo")

	ident, ok := identity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if !ident.IsAdmin() {
		l.Warnw("upload_logo_refused", "user", ident.User, "role", ident.Role)
		addNotice(c, noticeLogoRefused)
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}

	file, closeFn, err := formFile(c, "logo")
	if err != nil {
		l.Warnw("upload_logo_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	defer closeFn()

	name, err := h.Svc.UploadLogo(ctx, ident, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			addNotice(c, noticeLogoRefused)
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		case errors.Is(err, service.ErrValidation):
			l.Warnw("upload_logo_failed", "status", 400, "reason", "invalid file", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid file")
		default:
			l.Errorw("upload_logo_failed", "status", 500, "reason", "cannot store logo", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot store logo")
		}
	}

	if name != "" {
		addNotice(c, noticeLogoUploaded)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *CatalogHTTP) Menu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.menu")

	category := c.QueryParam("category")
	listing, err := h.Svc.Menu(ctx, category)
	if err != nil {
		l.Errorw("menu_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, transport.MenuView{
		Category: category,
		Products: listing.Products,
		Logo:     listing.Logo,
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

var errMissingName = errors.New("name field is required")

// productInput reads the product form. The returned func closes the uploaded file, if any.
func productInput(c echo.Context) (service.ProductInput, func(), error) {
	form, err := c.FormParams()
	if err != nil {
		return service.ProductInput{}, func() {}, err
	}
	if _, ok := form["name"]; !ok {
		return service.ProductInput{}, func() {}, errMissingName
	}

	file, closeFn, err := formFile(c, "image")
	if err != nil {
		return service.ProductInput{}, func() {}, err
	}

	return service.ProductInput{
		Name:      form.Get("name"),
		Available: form.Get("available") == "on",
		Category:  form.Get("category"),
		Image:     file,
	}, closeFn, nil
}

// formFile returns nil when the field is absent or has no filename.
func formFile(c echo.Context, field string) (*uploads.File, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}
	if fh.Filename == "" {
		return nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &uploads.File{Name: fh.Filename, Body: f}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
