package router

import (
	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/handler"
)

// RegisterProfiles registers student and lecturer profile routes on the
// authenticated group.
func RegisterProfiles(g *echo.Group, h *handler.ProfileHandler) {
	g.POST("/students", h.CreateStudent)
	g.GET("/students", h.ListStudents)
	g.GET("/students/:id", h.GetStudent)
	g.DELETE("/students/:id", h.DeleteStudent)
	g.GET("/users/:id/student", h.StudentByUser)

	g.POST("/lecturers", h.CreateLecturer)
	g.GET("/lecturers", h.ListLecturers)
	g.GET("/lecturers/:id", h.GetLecturer)
	g.DELETE("/lecturers/:id", h.DeleteLecturer)
	g.GET("/users/:id/lecturer", h.LecturerByUser)
}

func RegisterTheses(g *echo.Group, h *handler.ThesisHandler) {
	g.POST("/theses", h.Create)
	g.GET("/theses", h.List)
	g.GET("/theses/:id", h.Get)
	g.PATCH("/theses/:id", h.Update)
	g.DELETE("/theses/:id", h.Delete)
	g.GET("/theses/:id/lecturers", h.Lecturers)
	g.GET("/students/:id/theses", h.ByStudent)
	g.GET("/lecturers/:id/theses", h.ByLecturer)
}

func RegisterGuidance(g *echo.Group, h *handler.GuidanceHandler) {
	g.POST("/guidance-sessions", h.CreateSession)
	g.GET("/guidance-sessions/:id", h.GetSession)
	g.PATCH("/guidance-sessions/:id/notes", h.UpdateNotes)
	g.DELETE("/guidance-sessions/:id", h.DeleteSession)
	g.GET("/theses/:id/guidance-sessions", h.SessionsByThesis)

	g.POST("/submissions", h.CreateSubmission)
	g.GET("/submissions/:id", h.GetSubmission)
	g.DELETE("/submissions/:id", h.DeleteSubmission)
	g.GET("/guidance-sessions/:id/submissions", h.SubmissionsBySession)

	g.POST("/comments", h.CreateComment)
	g.GET("/comments/:id", h.GetComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.GET("/guidance-sessions/:id/comments", h.CommentsBySession)
	g.GET("/submissions/:id/comments", h.CommentsBySubmission)
}
