package handlers

import (
	"encoding/json"
	"net/http"

	"taskflow/logging"
	"taskflow/models"
	"taskflow/services"
	"taskflow/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TeamHandler struct {
	service *services.TeamService
}

func NewTeamHandler(service *services.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

func (h *TeamHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	teams, err := h.service.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSONList(w, http.StatusOK, teams, len(teams))
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	teamID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	team, err := h.service.Get(r.Context(), actor, teamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	team, err := h.service.Create(r.Context(), actor, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TEAM_CREATED, Description: Team %s created by user %s", team.ID.Hex(), actor.Hex())
	utils.WriteJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	teamID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	var input services.UpdateTeamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	team, err := h.service.Update(r.Context(), actor, teamID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	teamID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, teamID); err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TEAM_DELETED, Description: Team %s deleted by user %s", teamID.Hex(), actor.Hex())
	utils.WriteJSON(w, http.StatusOK, struct{}{})
}

func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	teamID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Email string            `json:"email"`
		Role  models.MemberRole `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	team, err := h.service.AddMember(r.Context(), actor, teamID, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TEAM_MEMBER_ADDED, Description: Member %s added to team %s by user %s", req.Email, teamID.Hex(), actor.Hex())
	utils.WriteJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	teamID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	team, err := h.service.RemoveMember(r.Context(), actor, teamID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TEAM_MEMBER_REMOVED, Description: Member %s removed from team %s by user %s", req.UserID, teamID.Hex(), actor.Hex())
	utils.WriteJSON(w, http.StatusOK, team)
}
