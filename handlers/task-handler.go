package handlers

import (
	"encoding/json"
	"net/http"

	"taskflow/logging"
	"taskflow/services"
	"taskflow/utils"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.ListForUser(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSONList(w, http.StatusOK, tasks, len(tasks))
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorID(w, r); !ok {
		return
	}
	taskID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var input services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by user %s", task.ID.Hex(), actor.Hex())
	utils.WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	var input services.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.service.Update(r.Context(), actor, taskID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, taskID); err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by user %s", taskID.Hex(), actor.Hex())
	utils.WriteJSON(w, http.StatusOK, struct{}{})
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	comments, err := h.service.AddComment(r.Context(), actor, taskID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, comments)
}
