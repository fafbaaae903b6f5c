package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/ledger"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
	"github.com/flowsplit/flowsplit/store/database/backend"
)

var (
	ownerAddr   = common.HexToAddress("0xa000000000000000000000000000000000000001")
	curatorAddr = common.HexToAddress("0xa000000000000000000000000000000000000002")
	managerAddr = common.HexToAddress("0xa000000000000000000000000000000000000003")
	voterAddr   = common.HexToAddress("0xa000000000000000000000000000000000000004")
	targetAddr  = common.HexToAddress("0xb000000000000000000000000000000000000001")
)

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Allocator) {
	allocator, err := ledger.NewAllocator(ledger.Config{
		Addr:             types.RootAllocatorAddress(ownerAddr),
		Owner:            ownerAddr,
		Curator:          curatorAddr,
		Manager:          managerAddr,
		BaselinePct:      250000,
		ManagerRewardPct: 50000,
		DB:               backend.NewMemDatabase(),
		Engine:           pool.NewStreamEngine(nil),
		VoteAuth:         ledger.OwnershipAuthorizer{Tokens: ledger.StaticTokenOwners{1: voterAddr}},
	})
	require.Nil(t, err)

	s := NewAllocatorRPCServer(allocator)
	ts := httptest.NewServer(s.router)
	t.Cleanup(ts.Close)
	return ts, allocator
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	data, err := json.Marshal(body)
	require.Nil(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.Nil(t, err)
	return resp
}

func putJSON(t *testing.T, url string, body interface{}) *http.Response {
	data, err := json.Marshal(body)
	require.Nil(t, err)
	req, err := http.NewRequest("PUT", url, bytes.NewReader(data))
	require.Nil(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	require.Nil(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestStatusEndpoint(t *testing.T) {
	assert := assert.New(t)
	ts, allocator := newTestServer(t)

	resp, err := http.Get(ts.URL + "/status")
	require.Nil(t, err)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var status map[string]interface{}
	decode(t, resp, &status)
	assert.Equal(allocator.Addr().Hex(), status["address"])
	assert.Equal(ownerAddr.Hex(), status["owner"])
}

func TestAddAndGetRecipient(t *testing.T) {
	assert := assert.New(t)
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/recipients", addRecipientRequest{
		Caller:      curatorAddr.Hex(),
		Address:     targetAddr.Hex(),
		Kind:        "ExternalAccount",
		Title:       "Water Project",
		Description: "Clean water",
		Image:       "ipfs://abc",
	})
	assert.Equal(http.StatusOK, resp.StatusCode)

	var created map[string]string
	decode(t, resp, &created)
	assert.NotEmpty(created["id"])

	resp, err := http.Get(ts.URL + "/recipients/" + created["id"])
	require.Nil(t, err)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var view recipientView
	decode(t, resp, &view)
	assert.Equal(targetAddr.Hex(), view.Address)
	assert.Equal("ExternalAccount", view.Kind)
	assert.Equal(uint64(types.BaselineUnits), view.BaselineUnits)
}

func TestAddRecipientErrorStatuses(t *testing.T) {
	assert := assert.New(t)
	ts, _ := newTestServer(t)

	// Unauthorized caller.
	resp := postJSON(t, ts.URL+"/recipients", addRecipientRequest{
		Caller:      voterAddr.Hex(),
		Address:     targetAddr.Hex(),
		Kind:        "ExternalAccount",
		Title:       "t",
		Description: "d",
		Image:       "i",
	})
	assert.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Missing metadata.
	resp = postJSON(t, ts.URL+"/recipients", addRecipientRequest{
		Caller:  curatorAddr.Hex(),
		Address: targetAddr.Hex(),
		Kind:    "ExternalAccount",
	})
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Malformed address.
	resp = postJSON(t, ts.URL+"/recipients", addRecipientRequest{
		Caller: "not-an-address",
		Kind:   "ExternalAccount",
	})
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Duplicate registration conflicts.
	ok := postJSON(t, ts.URL+"/recipients", addRecipientRequest{
		Caller: curatorAddr.Hex(), Address: targetAddr.Hex(), Kind: "ExternalAccount",
		Title: "t", Description: "d", Image: "i",
	})
	assert.Equal(http.StatusOK, ok.StatusCode)
	ok.Body.Close()
	resp = postJSON(t, ts.URL+"/recipients", addRecipientRequest{
		Caller: curatorAddr.Hex(), Address: targetAddr.Hex(), Kind: "ExternalAccount",
		Title: "t", Description: "d", Image: "i",
	})
	assert.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestGetUnknownRecipient(t *testing.T) {
	assert := assert.New(t)
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/recipients/0x" + "00" + "11223344556677889900112233445566778899001122334455667788990011")
	require.Nil(t, err)
	assert.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCastVoteEndpoint(t *testing.T) {
	assert := assert.New(t)
	ts, allocator := newTestServer(t)

	id, res := allocator.AddRecipient(curatorAddr, targetAddr, types.KindExternalAccount,
		types.RecipientMetadata{Title: "t", Description: "d", Image: "i"}, common.Address{})
	require.True(t, res.IsOK())

	vote := castVoteRequest{
		Caller:     voterAddr.Hex(),
		TokenID:    1,
		TokenOwner: voterAddr.Hex(),
		Weight:     100,
	}
	vote.Allocations = append(vote.Allocations, struct {
		RecipientID string `json:"recipientId"`
		ShareBps    uint32 `json:"shareBps"`
	}{id.Hex(), types.Scale})

	resp := postJSON(t, ts.URL+"/votes", vote)
	assert.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(uint64(100), allocator.Recipient(id).BonusUnits)

	resp, err := http.Get(ts.URL + "/votes/1")
	require.Nil(t, err)
	assert.Equal(http.StatusOK, resp.StatusCode)
	var va map[string]interface{}
	decode(t, resp, &va)
	assert.Equal(voterAddr.Hex(), va["caster"])

	// Bad share sum is a validation failure.
	vote.Allocations[0].ShareBps = 1
	resp = postJSON(t, ts.URL+"/votes", vote)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A non-owner caller is rejected.
	vote.Allocations[0].ShareBps = types.Scale
	vote.Caller = curatorAddr.Hex()
	resp = postJSON(t, ts.URL+"/votes", vote)
	assert.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestRateEndpoints(t *testing.T) {
	assert := assert.New(t)
	ts, _ := newTestServer(t)

	resp := putJSON(t, ts.URL+"/rate", setTotalRateRequest{
		Caller:    managerAddr.Hex(),
		TotalRate: 1000000,
	})
	assert.Equal(http.StatusOK, resp.StatusCode)

	var split rateSplitView
	decode(t, resp, &split)
	assert.Equal(int64(1000000), split.TotalRate)
	assert.Equal(split.TotalRate, split.BaselineRate+split.BonusRate+split.ManagerRewardRate)

	resp = putJSON(t, ts.URL+"/rate", setTotalRateRequest{
		Caller:    voterAddr.Hex(),
		TotalRate: 5,
	})
	assert.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = putJSON(t, ts.URL+"/rate/percentages", setRatePercentagesRequest{
		Caller:           managerAddr.Hex(),
		BaselinePct:      600000,
		ManagerRewardPct: 500000,
	})
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/rate")
	require.Nil(t, err)
	assert.Equal(http.StatusOK, resp.StatusCode)
	decode(t, resp, &split)
	assert.Equal(int64(1000000), split.TotalRate)
}

func TestRemoveRecipientEndpoint(t *testing.T) {
	assert := assert.New(t)
	ts, allocator := newTestServer(t)

	id, res := allocator.AddRecipient(curatorAddr, targetAddr, types.KindExternalAccount,
		types.RecipientMetadata{Title: "t", Description: "d", Image: "i"}, common.Address{})
	require.True(t, res.IsOK())

	req, err := http.NewRequest("DELETE", ts.URL+"/recipients/"+id.Hex()+"?caller="+curatorAddr.Hex(), nil)
	require.Nil(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	assert.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.True(allocator.Recipient(id).Removed)

	// Removing again resolves to not found.
	req, err = http.NewRequest("DELETE", ts.URL+"/recipients/"+id.Hex()+"?caller="+curatorAddr.Hex(), nil)
	require.Nil(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.Nil(t, err)
	assert.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestClaimableEndpoint(t *testing.T) {
	assert := assert.New(t)
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/claimable/" + targetAddr.Hex())
	require.Nil(t, err)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal("0", body["claimable"])
}
