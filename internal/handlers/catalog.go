package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func pageParams(c echo.Context) (int, int) {
	return util.ParseIntDefault(c.QueryParam("page"), 1), util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	page, size := pageParams(c)
	res, err := h.Svc.List(ctx, c.QueryParam("category"), page, size)
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		status := statusFor(err)
		l.Warn("get_product_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page, size := pageParams(c)
	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		status := statusFor(err)
		l.Warn("search_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create")

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		status := statusFor(err)
		l.Warn("create_product_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}

	l.Info("product created", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req service.ProductPatch
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.Patch(ctx, id, req)
	if err != nil {
		status := statusFor(err)
		l.Warn("patch_product_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		status := statusFor(err)
		l.Warn("delete_product_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}

	l.Info("product deleted", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
