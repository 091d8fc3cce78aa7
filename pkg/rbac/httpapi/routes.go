package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assokit/assokit/pkg/orgchart"
	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/tenant"
)

// caller returns the association and member of the request.
func caller(r *http.Request) (string, string, bool) {
	return rbac.ContextIdentity(r)
}

func association(r *http.Request) string {
	id, _ := tenant.IDFromContext(r.Context())
	return id
}

type permissionsBody struct {
	MemberID   string                                  `json:"member_id"`
	Admin      bool                                    `json:"is_admin"`
	Effective  []permission.ID                         `json:"permissions"`
	ByCategory map[permission.Category][]permission.ID `json:"by_category"`
}

func (h *Handler) myPermissions(w http.ResponseWriter, r *http.Request) {
	associationID, memberID, ok := caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized", Code: "unauthorized"})
		return
	}

	member, err := h.engine.GetMember(r.Context(), associationID, memberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	set, err := h.engine.GetEffectivePermissions(r.Context(), associationID, memberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	byCategory, err := h.engine.PermissionsByCategory(r.Context(), associationID, memberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, permissionsBody{
		MemberID:   memberID,
		Admin:      member.IsAdmin,
		Effective:  set.Slice(),
		ByCategory: byCategory,
	})
}

type transferRequest struct {
	ToMemberID string `json:"to_member_id"`
}

// transferAdmin hands the administrator designation from the caller to another member.
func (h *Handler) transferAdmin(w http.ResponseWriter, r *http.Request) {
	associationID, memberID, ok := caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized", Code: "unauthorized"})
		return
	}

	var req transferRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := h.engine.TransferAdmin(r.Context(), associationID, memberID, req.ToMemberID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.engine.ListRoles(r.Context(), association(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.engine.GetRole(r.Context(), association(r), chi.URLParam(r, "roleID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var in rbac.RoleInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	role, err := h.engine.CreateRole(r.Context(), association(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var in rbac.RoleInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	role, err := h.engine.UpdateRole(r.Context(), association(r), chi.URLParam(r, "roleID"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteRole(r.Context(), association(r), chi.URLParam(r, "roleID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.engine.ListMembers(r.Context(), association(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.engine.GetMember(r.Context(), association(r), chi.URLParam(r, "memberID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var in rbac.MemberInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	member, err := h.engine.AddMember(r.Context(), association(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

type assignRequest struct {
	RoleIDs []string `json:"role_ids"`
}

func (h *Handler) assignRoles(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	member, err := h.engine.AssignRoles(r.Context(), association(r), chi.URLParam(r, "memberID"), req.RoleIDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) removeRole(w http.ResponseWriter, r *http.Request) {
	member, warnings, err := h.engine.RemoveRole(r.Context(), association(r),
		chi.URLParam(r, "memberID"), chi.URLParam(r, "roleID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, warningsBody{Member: member, Warnings: toWarnings(warnings)})
}

type statusRequest struct {
	Status rbac.MemberStatus `json:"status"`
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	member, warnings, err := h.engine.ChangeMemberStatus(r.Context(), association(r), chi.URLParam(r, "memberID"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, warningsBody{Member: member, Warnings: toWarnings(warnings)})
}

type overrideRequest struct {
	// Mode is grant, revoke or clear.
	Mode string `json:"mode"`
}

func (h *Handler) overridePermission(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	var (
		ctx           = r.Context()
		associationID = association(r)
		memberID      = chi.URLParam(r, "memberID")
		id            = permission.ID(chi.URLParam(r, "permissionID"))
		member        rbac.Member
		err           error
	)
	switch req.Mode {
	case "grant":
		member, err = h.engine.GrantPermission(ctx, associationID, memberID, id)
	case "revoke":
		member, err = h.engine.RevokePermission(ctx, associationID, memberID, id)
	case "clear":
		member, err = h.engine.ClearPermissionOverride(ctx, associationID, memberID, id)
	default:
		badRequest(w, errors.New("mode must be grant, revoke or clear"))
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) completeness(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Completeness(r.Context(), association(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Complete bool      `json:"complete"`
		Vacant   []warning `json:"vacant"`
	}{report.Complete(), toWarnings(report.Vacant)})
}

func (h *Handler) listTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.chart.List(r.Context(), association(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, titles)
}

func (h *Handler) getTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.chart.Get(r.Context(), association(r), chi.URLParam(r, "titleID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, title)
}

func (h *Handler) createTitle(w http.ResponseWriter, r *http.Request) {
	var in orgchart.Input
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	title, err := h.chart.Create(r.Context(), association(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, title)
}

func (h *Handler) updateTitle(w http.ResponseWriter, r *http.Request) {
	var in orgchart.Input
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	title, err := h.chart.Update(r.Context(), association(r), chi.URLParam(r, "titleID"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, title)
}

func (h *Handler) deleteTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.chart.Delete(r.Context(), association(r), chi.URLParam(r, "titleID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assigneeRequest struct {
	MemberID string `json:"member_id"`
}

func (h *Handler) assignTitle(w http.ResponseWriter, r *http.Request) {
	var req assigneeRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	title, err := h.chart.Assign(r.Context(), association(r), chi.URLParam(r, "titleID"), req.MemberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, title)
}

func (h *Handler) unassignTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.chart.Unassign(r.Context(), association(r), chi.URLParam(r, "titleID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, title)
}
