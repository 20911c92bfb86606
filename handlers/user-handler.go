package handlers

import (
	"net/http"

	"taskflow/services"
	"taskflow/utils"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetUsers lists user summaries for assignment pickers.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorID(w, r); !ok {
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSONList(w, http.StatusOK, users, len(users))
}
