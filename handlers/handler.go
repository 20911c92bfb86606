package handlers

import (
	"errors"
	"net/http"

	"taskflow/logging"
	"taskflow/middleware"
	"taskflow/services"
	"taskflow/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeServiceError maps a service failure onto the HTTP status and envelope
// message. Unrecognized errors are logged and answered as a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrBadRequest):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrBadCurrentPassword):
		utils.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrAlreadyMember):
		utils.WriteError(w, http.StatusConflict, err.Error())
	default:
		logging.Logger.Errorf("Event ID: HANDLER_INTERNAL_ERROR, Description: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// actorID pulls the authenticated user id out of the request context. The
// auth middleware guarantees it on every protected route.
func actorID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return primitive.NilObjectID, false
	}
	return id, true
}

func objectIDVar(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid id format")
		return primitive.NilObjectID, false
	}
	return id, true
}
