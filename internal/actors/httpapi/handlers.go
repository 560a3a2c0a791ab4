package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbroggi/oneclick/internal/core/model"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) signup(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	resp, err := s.users.Signup(c.Request.Context(), model.SignupArgs{Payload: payload})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": resp.User})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	resp, err := s.users.Authenticate(c.Request.Context(), model.AuthenticateArgs{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := s.auth.IssueToken(resp.User)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": resp.User})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	if err := s.users.ForgotPassword(c.Request.Context(), model.ForgotPasswordArgs{Email: req.Email}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (s *Server) me(c *gin.Context) {
	caller := callerIdentity(c)
	if caller == nil {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}
	resp, err := s.users.Profile(c.Request.Context(), model.ProfileArgs{Caller: caller})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "user": resp.User})
}

func (s *Server) network(c *gin.Context) {
	resp, err := s.users.ListNetwork(c.Request.Context(), model.ListNetworkArgs{Caller: callerIdentity(c)})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": resp.Users})
}

func (s *Server) createEvent(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	resp, err := s.events.CreateEvent(c.Request.Context(), model.CreateEventArgs{
		Caller:  callerIdentity(c),
		Payload: payload,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": resp.Event})
}

func (s *Server) listEvents(c *gin.Context) {
	resp, err := s.events.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": resp.Events})
}

func (s *Server) ownedEvents(c *gin.Context) {
	resp, err := s.events.ListOwned(c.Request.Context(), model.ListOwnedEventsArgs{Caller: callerIdentity(c)})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": resp.Events})
}

func (s *Server) searchEvents(c *gin.Context) {
	resp, err := s.events.Search(c.Request.Context(), model.SearchEventsArgs{
		Caller: callerIdentity(c),
		Query:  c.Query("query"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": resp.Events})
}

func (s *Server) register(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	resp, err := s.registrations.Register(c.Request.Context(), model.RegisterArgs{
		EventID: c.Param("eid"),
		Caller:  callerIdentity(c),
		Payload: payload,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	// both transitions answer 200: registration is a toggle on the event, and
	// an idempotent repeat register has no new resource to report
	c.JSON(http.StatusOK, resp)
}

// registrationStatus returns the caller's registration state together with
// the event's field schema, so a client can render the intake form.
func (s *Server) registrationStatus(c *gin.Context) {
	fields, err := s.events.GetSchema(c.Request.Context(), c.Param("eid"))
	if err != nil {
		writeError(c, err)
		return
	}
	registered, err := s.registrations.IsRegistered(c.Request.Context(), c.Param("eid"), callerIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": registered, "fields": fields})
}

func (s *Server) listAttendees(c *gin.Context) {
	resp, err := s.registrations.ListAttendees(c.Request.Context(), model.ListAttendeesArgs{
		EventID: c.Param("eid"),
		Caller:  callerIdentity(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendees": resp.Attendees})
}
