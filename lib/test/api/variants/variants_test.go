package variants

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apiErrors "github.com/ether/uiflex-go/lib/api/errors"
	"github.com/ether/uiflex-go/lib/api/variants"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/ether/uiflex-go/lib/models/variant"
	"github.com/ether/uiflex-go/lib/test/testutils"
	flexVariants "github.com/ether/uiflex-go/lib/variants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/flex/variants/" + testutils.Reference

func withVariants(t *testing.T) *testutils.TestMemoryUtils {
	t.Helper()
	utils := testutils.InitMemoryUtils()
	require.NoError(t, utils.DB.SaveVariants(context.Background(), testutils.Reference, testutils.VariantSet()))
	return utils
}

func send(t *testing.T, utils *testutils.TestMemoryUtils, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := utils.Store.C.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestGetVariants(t *testing.T) {
	utils := withVariants(t)

	resp := send(t, utils, "GET", base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[variants.VariantsResponse](t, resp)
	assert.Equal(t, testutils.Reference, got.Reference)
	assert.Len(t, got.SelectionSet, 2)
	assert.Equal(t, "vm1", got.SelectionSet["vm1"].Current())
	assert.Empty(t, got.Parameters)
}

func TestGetVariantsInvalidReference(t *testing.T) {
	utils := testutils.InitMemoryUtils()
	resp := send(t, utils, "GET", "/flex/variants/-bad", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivateVariant(t *testing.T) {
	utils := withVariants(t)

	resp := send(t, utils, "POST", base+"/activate", variants.ActivateRequest{VariantID: "v2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[variants.VariantsResponse](t, resp)
	assert.Equal(t, "v2", got.SelectionSet["vm2"].Current())
	assert.Equal(t, []string{"v2"}, got.Parameters)

	// the selection lives in the shared model
	resp = send(t, utils, "GET", base, nil)
	assert.Equal(t, []string{"v2"}, decodeBody[variants.VariantsResponse](t, resp).Parameters)
}

func TestActivateVariantErrors(t *testing.T) {
	tests := []struct {
		name    string
		request variants.ActivateRequest
		status  int
		message string
	}{
		{name: "missing variant", request: variants.ActivateRequest{}, status: http.StatusUnprocessableEntity},
		{name: "unknown variant", request: variants.ActivateRequest{VariantID: "nope"}, status: http.StatusBadRequest, message: flexVariants.ErrMsgInvalidCombination},
		{name: "unknown target", request: variants.ActivateRequest{Target: "other.app", VariantID: "v1"}, status: http.StatusBadRequest, message: flexVariants.ErrMsgIDNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utils := withVariants(t)
			resp := send(t, utils, "POST", base+"/activate", tt.request)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeBody[apiErrors.Error](t, resp).Message)
			}
		})
	}
}

func TestSaveVariants(t *testing.T) {
	utils := withVariants(t)
	resp := send(t, utils, "POST", base+"/activate", variants.ActivateRequest{VariantID: "v1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	set := variant.SelectionSet{
		"vm3": {DefaultVariant: "vm3", Variants: []variant.Variant{{Key: "vm3"}, {Key: "v3"}}},
	}
	resp = send(t, utils, "PUT", base, set)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[variants.VariantsResponse](t, resp)
	assert.Equal(t, []string{"vm3"}, keys(got.SelectionSet))
	assert.Empty(t, got.Parameters, "a reloaded model starts on the defaults")

	stored, err := utils.DB.GetVariants(context.Background(), testutils.Reference)
	require.NoError(t, err)
	assert.True(t, stored.HasVariant("vm3", "v3"))
}

func TestSaveVariantsRejectsNullGroup(t *testing.T) {
	utils := withVariants(t)
	req := httptest.NewRequest("PUT", base, bytes.NewBufferString(`{"vm1":null}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := utils.Store.C.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetDefaultVariant(t *testing.T) {
	utils := withVariants(t)

	resp := send(t, utils, "POST", base+"/default", variants.DefaultVariantRequest{Group: "vm1", VariantID: "v1", Layer: "USER"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[variants.VariantsResponse](t, resp)
	assert.Equal(t, "v1", got.SelectionSet["vm1"].DefaultVariant)
	assert.Equal(t, "vm1", got.SelectionSet["vm1"].OriginalDefaultVariant)
	assert.Empty(t, got.Parameters, "the default variant is not written to the URL")

	stored, err := utils.DB.GetChanges(context.Background(), testutils.Reference)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, flex.DefaultVariantChangeType, stored[0].ChangeType)
	assert.Equal(t, flex.VariantManagementFileType, stored[0].FileType)
}

func TestSetDefaultVariantErrors(t *testing.T) {
	tests := []struct {
		name    string
		request variants.DefaultVariantRequest
		status  int
	}{
		{name: "missing layer", request: variants.DefaultVariantRequest{Group: "vm1", VariantID: "v1"}, status: http.StatusUnprocessableEntity},
		{name: "unknown group", request: variants.DefaultVariantRequest{Group: "vm9", VariantID: "v1", Layer: "USER"}, status: http.StatusNotFound},
		{name: "variant of other group", request: variants.DefaultVariantRequest{Group: "vm1", VariantID: "v2", Layer: "USER"}, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utils := withVariants(t)
			resp := send(t, utils, "POST", base+"/default", tt.request)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func keys(set variant.SelectionSet) []string {
	var out []string
	for k := range set {
		out = append(out, k)
	}
	return out
}
