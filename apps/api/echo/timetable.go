package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
)

var errSlotNotFoundInCtx = errors.New("time slot object not found in echo.Context")

type timetableApi struct {
	svc      timetable.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerTimetableAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc timetable.Service,
	usrSvc user.Service,
	validate *validator.Validate,
) {
	api := timetableApi{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	// any authenticated role
	tg := g.Group("/timetable", jwt)
	tg.GET("", api.weekView)
	tg.GET("/teacher", api.teacherSchedule)
	tg.GET("/student", api.studentSchedule)
	tg.GET("/all", api.fullList)

	// admin endpoints
	ag := g.Group("/admin/timetable", jwt, adminMiddleware())
	ag.GET("", api.query)
	ag.POST("", api.create)

	// detail endpoints
	dg := ag.Group("/:id", slotObjectMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *timetableApi) weekView(ctx echo.Context) error {
	view, err := api.svc.WeekView(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building week view")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *timetableApi) teacherSchedule(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !usr.IsTeacher() {
		return errHttpForbidden
	}

	slots, err := api.svc.TeacherSchedule(ctx.Request().Context(), usr.Name)
	if err != nil {
		return errors.Wrap(err, "querying teacher schedule")
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *timetableApi) studentSchedule(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	slots, err := api.svc.StudentSchedule(ctx.Request().Context(), usr.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *timetableApi) fullList(ctx echo.Context) error {
	slots, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying time slots")
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *timetableApi) query(ctx echo.Context) error {
	slots, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying time slots")
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *timetableApi) create(ctx echo.Context) error {
	var data timetable.NewSlot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSlot")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	slot, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating time slot")
	}

	return ctx.JSON(http.StatusCreated, slot)
}

func (api *timetableApi) retrieve(ctx echo.Context) error {
	slot, ok := ctx.Get("object").(timetable.TimeSlot)
	if !ok {
		return errors.Wrap(errSlotNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, slot)
}

func (api *timetableApi) update(ctx echo.Context) error {
	slot, ok := ctx.Get("object").(timetable.TimeSlot)
	if !ok {
		return errors.Wrap(errSlotNotFoundInCtx, "retrieving object from context")
	}

	var data timetable.UpdateSlot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSlot")
	}
	if err := data.Validate(slot, api.validate); err != nil {
		return err
	}

	slot, err := api.svc.Update(ctx.Request().Context(), slot, data)
	if err != nil {
		return errors.Wrap(err, "updating time slot")
	}

	return ctx.JSON(http.StatusOK, slot)
}

func (api *timetableApi) destroy(ctx echo.Context) error {
	slot, ok := ctx.Get("object").(timetable.TimeSlot)
	if !ok {
		return errors.Wrap(errSlotNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), slot.ID); err != nil {
		return errors.Wrap(err, "deleting time slot")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// slotObjectMiddleware loads the TimeSlot referenced by the `id` path param
// into the echo.Context.
func slotObjectMiddleware(svc timetable.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			slot, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == timetable.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding time slot by ID")
			}
			ctx.Set("object", slot)
			return next(ctx)
		}
	}
}
