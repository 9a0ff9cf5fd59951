package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	md "github.com/Astemirdum/school-library/pkg/middleware"
	"github.com/Astemirdum/school-library/pkg/validate"

	_ "github.com/Astemirdum/school-library/swagger"
)

type Handler struct {
	librarySvc LibraryService
	log        *zap.Logger
}

func New(librarySvc LibraryService, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	e.Validator = validate.NewCustomValidator()

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1",
		md.RequestID(),
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		md.NewRateLimiter(apiRPS),
	)
	h.routes(api)

	return e
}

func (h *Handler) routes(api *echo.Group) {
	catalogs := api.Group("/catalogs")
	catalogs.GET("", h.ListCatalogs)
	catalogs.POST("", h.AddCatalog)
	catalogs.GET("/:catalogId", h.GetCatalog)
	catalogs.PUT("/:catalogId", h.EditCatalog)
	catalogs.DELETE("/:catalogId", h.DeleteCatalog)
	catalogs.GET("/:catalogId/rents", h.ListItemLoans)

	members := api.Group("/members")
	members.GET("", h.ListMembers)
	members.POST("", h.RegisterMember)
	members.GET("/:memberId", h.GetMember)
	members.PUT("/:memberId", h.EditMember)
	members.DELETE("/:memberId", h.DeleteMember)
	members.GET("/:memberId/rents", h.ListMemberLoans)

	rents := api.Group("/rents")
	rents.GET("", h.ListLoans)
	rents.POST("", h.RentBook)
	rents.GET("/:rentId", h.GetLoan)
	rents.PUT("/:rentId/return", h.ReturnBook)
}

// Health godoc
// @Summary Liveness check
// @Tags manage
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(name + " is invalid")
	}
	return id, nil
}

func pageParams(c echo.Context) (page, size int, err error) {
	if p := c.QueryParam("page"); p != "" {
		if page, err = strconv.Atoi(p); err != nil {
			return 0, 0, badRequest("page is invalid")
		}
	}
	if s := c.QueryParam("pageSize"); s != "" {
		if size, err = strconv.Atoi(s); err != nil {
			return 0, 0, badRequest("pageSize is invalid")
		}
	}
	return page, size, nil
}

func openParam(c echo.Context) (bool, error) {
	v := c.QueryParam("open")
	if v == "" {
		return false, nil
	}
	open, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest("open is invalid")
	}
	return open, nil
}

// bind decodes and validates a request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("malformed request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}
