package handlers

import (
	"net/http"

	"taskflow/services"
	"taskflow/utils"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	notifications, err := h.service.List(r.Context(), actor.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSONList(w, http.StatusOK, notifications, len(notifications))
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	notificationID := mux.Vars(r)["id"]

	notification, err := h.service.MarkRead(r.Context(), actor.Hex(), notificationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, notification)
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	notificationID := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), actor.Hex(), notificationID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, struct{}{})
}
