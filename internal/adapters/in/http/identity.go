package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/kernel"
)

// RegisterUser handles POST /api/v1/users. It is the only public route.
func (s *Server) RegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	contragentID, err := kernel.Ptr(req.ContragentID)
	if err != nil {
		return err
	}

	userID, personID := kernel.NewUUID(), kernel.NewUUID()
	cmd, err := commands.NewRegisterUserCommand(userID, personID, req.Phone, req.Role, req.FullName, contragentID)
	if err != nil {
		return err
	}
	if err := s.handlers.RegisterUser.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerUserResponse{
		Message:  "user registered",
		UserID:   userID.Bytes(),
		PersonID: personID.Bytes(),
	})
}

// UpdatePushToken handles PUT /api/v1/users/me/push-token.
func (s *Server) UpdatePushToken(c echo.Context) error {
	var req pushTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdatePushTokenCommand(actorFrom(c), req.Token, req.DeviceType)
	if err != nil {
		return err
	}
	if err := s.handlers.UpdatePushToken.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "push token updated"})
}

func (s *Server) approve(handler commandHandler[commands.ApprovePersonCommand], message string) echo.HandlerFunc {
	return func(c echo.Context) error {
		personID, err := pathUUID(c, "personId")
		if err != nil {
			return err
		}
		var req approvalRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		profile, err := req.profile()
		if err != nil {
			return err
		}

		cmd, err := commands.NewApprovePersonCommand(actorFrom(c), personID, profile)
		if err != nil {
			return err
		}
		if err := handler.Handle(c.Request().Context(), cmd); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, messageResponse{Message: message})
	}
}
