package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nabenabe-code/kintai/config"
	"github.com/nabenabe-code/kintai/handlers"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	punch := handlers.NewPunchHandler()
	emp := handlers.NewEmployeeHandler(cfg.EmployeeDeletionPolicy)
	shift := handlers.NewShiftHandler()
	att := handlers.NewAttendanceHandler()
	imp := handlers.NewImportHandler()
	exp := handlers.NewExportHandler()

	e.GET("/healthz", handlers.Health)

	// 打刻（キオスク）
	e.POST("/punch", punch.Punch)

	// 従業員マスタ
	e.GET("/employees", emp.List)
	e.POST("/employees", emp.Create)
	e.PUT("/employees/:id", emp.Update)
	e.DELETE("/employees/:id", emp.Delete)

	// シフト
	e.GET("/shifts", shift.List)
	e.POST("/shifts", shift.Create)
	e.PUT("/shifts/:id", shift.Update)
	e.DELETE("/shifts/:id", shift.Delete)

	// 勤怠
	e.GET("/attendance", att.List)
	e.PUT("/attendance/:id/note", att.UpdateNote)
	e.DELETE("/attendance/:id", att.Delete)

	// Excel 取込 / 出力
	e.POST("/imports/employees", imp.Employees)
	e.POST("/imports/shifts", imp.Shifts)
	e.GET("/exports/employees.xlsx", exp.Employees)
	e.GET("/exports/shifts.xlsx", exp.Shifts)
	e.GET("/exports/attendance.xlsx", exp.Attendance)
}
