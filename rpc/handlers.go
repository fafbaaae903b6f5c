package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	"github.com/flowsplit/flowsplit/ledger/types"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Errorf("Failed to encode response: %v", err)
		}
	}
}

func writeResult(w http.ResponseWriter, res result.Result, body interface{}) {
	if res.IsOK() {
		writeJSON(w, http.StatusOK, body)
		return
	}
	writeJSON(w, statusForCode(res.Code), errorResponse{
		Code:    int(res.Code),
		Message: res.Message,
	})
}

// statusForCode maps the transition error taxonomy onto HTTP statuses.
func statusForCode(code result.ErrorCode) int {
	switch code {
	case result.CodeUnauthorized, result.CodeNotAuthorizedForToken:
		return http.StatusForbidden
	case result.CodeUnknownRecipient, result.CodeNotApprovedRecipient:
		return http.StatusNotFound
	case result.CodeDuplicateRecipient:
		return http.StatusConflict
	case result.CodeReentrantCall:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Code: int(result.CodeGenericError), Message: msg})
}

// ---------------------------- read surface ----------------------------

type statusView struct {
	Address     string        `json:"address"`
	Owner       string        `json:"owner"`
	Curator     string        `json:"curator"`
	Manager     string        `json:"manager"`
	ActiveCount uint64        `json:"activeRecipients"`
	RateSplit   rateSplitView `json:"rateSplit"`
}

type rateSplitView struct {
	TotalRate         int64  `json:"totalRate"`
	BaselinePct       uint32 `json:"baselinePct"`
	ManagerRewardPct  uint32 `json:"managerRewardPct"`
	BaselineRate      int64  `json:"baselineRate"`
	BonusRate         int64  `json:"bonusRate"`
	ManagerRewardRate int64  `json:"managerRewardRate"`
}

type recipientView struct {
	ID            string `json:"id"`
	Address       string `json:"address"`
	Kind          string `json:"kind"`
	Removed       bool   `json:"removed"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	BaselineUnits uint64 `json:"baselineUnits"`
	BonusUnits    uint64 `json:"bonusUnits"`
}

func newRateSplitView(split types.RateSplit) rateSplitView {
	return rateSplitView{
		TotalRate:         split.TotalRate,
		BaselinePct:       split.BaselinePct,
		ManagerRewardPct:  split.ManagerRewardPct,
		BaselineRate:      split.BaselineRate,
		BonusRate:         split.BonusRate,
		ManagerRewardRate: split.ManagerRewardRate,
	}
}

func newRecipientView(r *types.Recipient) recipientView {
	return recipientView{
		ID:            r.ID.Hex(),
		Address:       r.Address.Hex(),
		Kind:          r.Kind.String(),
		Removed:       r.Removed,
		Title:         r.Metadata.Title,
		Description:   r.Metadata.Description,
		Image:         r.Metadata.Image,
		BaselineUnits: r.BaselineUnits,
		BonusUnits:    r.BonusUnits,
	}
}

func (t *AllocatorRPCServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	params := t.allocator.Params()
	writeJSON(w, http.StatusOK, statusView{
		Address:     t.allocator.Addr().Hex(),
		Owner:       params.Owner.Hex(),
		Curator:     params.Curator.Hex(),
		Manager:     params.Manager.Hex(),
		ActiveCount: t.allocator.ActiveRecipientCount(),
		RateSplit:   newRateSplitView(t.allocator.RateSplit()),
	})
}

func (t *AllocatorRPCServer) handleListRecipients(w http.ResponseWriter, r *http.Request) {
	views := []recipientView{}
	for _, recipient := range t.allocator.Recipients() {
		views = append(views, newRecipientView(recipient))
	}
	writeJSON(w, http.StatusOK, views)
}

func (t *AllocatorRPCServer) handleGetRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseHash(mux.Vars(r)["id"])
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	recipient := t.allocator.Recipient(id)
	if recipient == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:    int(result.CodeUnknownRecipient),
			Message: "unknown recipient",
		})
		return
	}
	writeJSON(w, http.StatusOK, newRecipientView(recipient))
}

func (t *AllocatorRPCServer) handleGetRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newRateSplitView(t.allocator.RateSplit()))
}

func (t *AllocatorRPCServer) handleGetAllocation(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseUint(mux.Vars(r)["tokenID"], 10, 64)
	if err != nil {
		badRequest(w, "invalid token id")
		return
	}
	allocation := t.allocator.Allocation(tokenID)
	if allocation == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:    int(result.CodeGenericError),
			Message: "token has no allocation",
		})
		return
	}

	type entryView struct {
		RecipientID  string `json:"recipientId"`
		ShareBps     uint32 `json:"shareBps"`
		UnitsGranted uint64 `json:"unitsGranted"`
	}
	entries := []entryView{}
	for _, e := range allocation.Entries {
		entries = append(entries, entryView{
			RecipientID:  e.RecipientID.Hex(),
			ShareBps:     e.ShareBps,
			UnitsGranted: e.UnitsGranted,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tokenId": allocation.TokenID,
		"caster":  allocation.Caster.Hex(),
		"weight":  allocation.Weight,
		"entries": entries,
	})
}

func (t *AllocatorRPCServer) handleClaimable(w http.ResponseWriter, r *http.Request) {
	addr, err := common.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"address":   addr.Hex(),
		"claimable": t.allocator.Claimable(addr).String(),
	})
}

// ---------------------------- write surface ----------------------------

type addRecipientRequest struct {
	Caller       string `json:"caller"`
	Address      string `json:"address"`
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ChildManager string `json:"childManager"`
}

func (t *AllocatorRPCServer) handleAddRecipient(w http.ResponseWriter, r *http.Request) {
	var req addRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	caller, err := common.ParseAddress(req.Caller)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var kind types.RecipientKind
	switch req.Kind {
	case "ExternalAccount":
		kind = types.KindExternalAccount
	case "NestedAllocator":
		kind = types.KindNestedAllocator
	default:
		badRequest(w, "kind must be ExternalAccount or NestedAllocator")
		return
	}

	var target common.Address
	if req.Address != "" {
		if target, err = common.ParseAddress(req.Address); err != nil {
			badRequest(w, err.Error())
			return
		}
	}
	var childManager common.Address
	if req.ChildManager != "" {
		if childManager, err = common.ParseAddress(req.ChildManager); err != nil {
			badRequest(w, err.Error())
			return
		}
	}

	id, res := t.allocator.AddRecipient(caller, target, kind, types.RecipientMetadata{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}, childManager)

	var body interface{}
	if res.IsOK() {
		body = map[string]string{"id": id.Hex()}
	}
	writeResult(w, res, body)
}

func (t *AllocatorRPCServer) handleRemoveRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseHash(mux.Vars(r)["id"])
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	caller, err := common.ParseAddress(r.URL.Query().Get("caller"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res := t.allocator.RemoveRecipient(caller, id)
	writeResult(w, res, map[string]string{"id": id.Hex()})
}

type castVoteRequest struct {
	Caller      string `json:"caller"`
	TokenID     uint64 `json:"tokenId"`
	TokenOwner  string `json:"tokenOwner"`
	Weight      uint64 `json:"weight"`
	Allocations []struct {
		RecipientID string `json:"recipientId"`
		ShareBps    uint32 `json:"shareBps"`
	} `json:"allocations"`
}

func (t *AllocatorRPCServer) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	caller, err := common.ParseAddress(req.Caller)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	owner, err := common.ParseAddress(req.TokenOwner)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	allocations := make([]types.ShareAllocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		id, err := common.ParseHash(a.RecipientID)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		allocations = append(allocations, types.ShareAllocation{
			RecipientID: id,
			ShareBps:    a.ShareBps,
		})
	}

	res := t.allocator.CastVote(caller, req.TokenID, owner, req.Weight, allocations)
	writeResult(w, res, map[string]uint64{"tokenId": req.TokenID})
}

type setTotalRateRequest struct {
	Caller    string `json:"caller"`
	TotalRate int64  `json:"totalRate"`
}

func (t *AllocatorRPCServer) handleSetTotalRate(w http.ResponseWriter, r *http.Request) {
	var req setTotalRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	caller, err := common.ParseAddress(req.Caller)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res := t.allocator.SetTotalRate(caller, req.TotalRate)
	writeResult(w, res, newRateSplitView(t.allocator.RateSplit()))
}

type setRatePercentagesRequest struct {
	Caller           string `json:"caller"`
	BaselinePct      uint32 `json:"baselinePct"`
	ManagerRewardPct uint32 `json:"managerRewardPct"`
}

func (t *AllocatorRPCServer) handleSetRatePercentages(w http.ResponseWriter, r *http.Request) {
	var req setRatePercentagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	caller, err := common.ParseAddress(req.Caller)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res := t.allocator.SetRatePercentages(caller, req.BaselinePct, req.ManagerRewardPct)
	writeResult(w, res, newRateSplitView(t.allocator.RateSplit()))
}
