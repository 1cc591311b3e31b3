package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ether/uiflex-go/lib/changefile"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/ether/uiflex-go/lib/models/change"
	models "github.com/ether/uiflex-go/lib/models/ws"
	"github.com/ether/uiflex-go/lib/test/testutils"
	"github.com/ether/uiflex-go/lib/variants"
	"github.com/ether/uiflex-go/lib/ws"
	"github.com/ether/uiflex-go/lib/xmlview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseCLIArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    navigateArgs
		wantErr error
	}{
		{
			name:    "no arguments",
			args:    []string{},
			wantErr: errMissingReference,
		},
		{
			name: "positional host",
			args: []string{"http://test.com", "-r", "my.app"},
			want: navigateArgs{host: "http://test.com", reference: "my.app"},
		},
		{
			name: "explicit flags",
			args: []string{"-host", "http://test.com", "-reference", "my.app", "-hash", "#Obj-act"},
			want: navigateArgs{host: "http://test.com", reference: "my.app", hash: "#Obj-act"},
		},
		{
			name: "default host",
			args: []string{"-reference", "my.app"},
			want: navigateArgs{host: "http://127.0.0.1:9002", reference: "my.app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCLIArgs(tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseApplyArgs(t *testing.T) {
	parsed, err := parseApplyArgs([]string{"view.xml", "-changes", "c.yaml", "-component", "comp", "-strict"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, applyArgs{view: "view.xml", changes: "c.yaml", component: "comp", maxLayer: "USER", strict: true}, parsed)

	_, err = parseApplyArgs([]string{"-view", "view.xml"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errMissingInput)
}

func TestNavigationURL(t *testing.T) {
	address, err := NavigationURL("https://example.com/base/", "my.app", "#Obj-act")
	require.NoError(t, err)
	assert.Equal(t, "wss://example.com/base/flex/navigation?hash=%23Obj-act&reference=my.app", address)

	address, err = NavigationURL("http://127.0.0.1:9002", "my.app", "")
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9002/flex/navigation?hash=&reference=my.app", address)
}

func TestApplyChanges(t *testing.T) {
	view, err := xmlview.ParseString(testutils.XMLView)
	require.NoError(t, err)
	definitions := []change.Definition{
		testutils.GenerateRenameChange("label", "renamed", change.CUSTOMER),
		testutils.GenerateRenameChange("button", "Press me", change.USER),
	}

	processed, results, err := ApplyChanges(context.Background(), view, definitions, testutils.ComponentID, change.CUSTOMER, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, flex.StatusApplied, results[0].Status)
	out := xmlview.String(processed)
	assert.Contains(t, out, `text="renamed"`)
	assert.Contains(t, out, `text="Press"`)
}

func TestApplyChanges_MixedReferences(t *testing.T) {
	view, err := xmlview.ParseString(testutils.XMLView)
	require.NoError(t, err)
	other := testutils.GenerateRenameChange("label", "x", change.USER)
	other.Reference = "other.app"

	_, _, err = ApplyChanges(context.Background(), view, []change.Definition{
		testutils.GenerateRenameChange("label", "renamed", change.USER), other,
	}, testutils.ComponentID, change.USER, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestRunApply(t *testing.T) {
	dir := t.TempDir()
	viewPath := filepath.Join(dir, "view.xml")
	changesPath := filepath.Join(dir, "changes.yaml")
	outPath := filepath.Join(dir, "out.xml")
	require.NoError(t, os.WriteFile(viewPath, []byte(testutils.XMLView), 0o600))
	require.NoError(t, changefile.WriteFile(changesPath, []change.Definition{
		testutils.GenerateRenameChange("label", "from file", change.USER),
	}))

	var stdout bytes.Buffer
	code := RunApply(zap.NewNop().Sugar(), []string{"-view", viewPath, "-changes", changesPath, "-component", testutils.ComponentID, "-out", outPath}, &stdout)
	require.Equal(t, 0, code, stdout.String())

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), `text="from file"`)
}

func TestRunApply_StrictFailsOnUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	viewPath := filepath.Join(dir, "view.xml")
	changesPath := filepath.Join(dir, "changes.json")
	require.NoError(t, os.WriteFile(viewPath, []byte(testutils.XMLView), 0o600))
	missing := testutils.GenerateRenameChange("label", "x", change.USER)
	missing.ChangeType = "unknownType"
	require.NoError(t, changefile.WriteFile(changesPath, []change.Definition{missing}))

	var stdout bytes.Buffer
	code := RunApply(zap.NewNop().Sugar(), []string{"-view", viewPath, "-changes", changesPath, "-component", testutils.ComponentID, "-strict"}, &stdout)
	assert.Equal(t, 3, code)
	assert.Contains(t, stdout.String(), `text="initial"`)
}

func TestRunApply_Usage(t *testing.T) {
	var stdout bytes.Buffer
	assert.Equal(t, 2, RunApply(zap.NewNop().Sugar(), nil, &stdout))
	assert.Contains(t, stdout.String(), "Usage")
}

func navigationServer(t *testing.T) string {
	t.Helper()
	utils := testutils.InitMemoryUtils()
	require.NoError(t, utils.DB.SaveVariants(context.Background(), testutils.Reference, testutils.VariantSet()))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.ServeNavigationWs(w, r, utils.Store.Hub, utils.Store.Manager, utils.Settings, utils.Store.Logger)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

type recorder struct {
	mu       sync.Mutex
	messages map[string][]json.RawMessage
}

func record(n *Navigator, types ...string) *recorder {
	r := &recorder{messages: make(map[string][]json.RawMessage)}
	for _, messageType := range types {
		n.On(messageType, func(data json.RawMessage) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.messages[messageType] = append(r.messages[messageType], data)
		})
	}
	return r
}

func (r *recorder) count(messageType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[messageType])
}

func (r *recorder) last(messageType string) json.RawMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	received := r.messages[messageType]
	return received[len(received)-1]
}

func TestNavigator_ActivateFollowsSetParameter(t *testing.T) {
	navigator, err := Connect(navigationServer(t), testutils.Reference, "#Obj-act", zap.NewNop().Sugar())
	require.NoError(t, err)
	defer navigator.Close()
	received := record(navigator, models.TypeState, models.TypeSetParameter, models.TypeError)

	require.NoError(t, navigator.Activate("", "v1"))

	require.Eventually(t, func() bool { return received.count(models.TypeSetParameter) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Obj-act?"+variants.DefaultParameterName+"=v1", navigator.Hash())

	require.NoError(t, navigator.RequestState())
	require.Eventually(t, func() bool {
		if received.count(models.TypeState) == 0 {
			return false
		}
		var state models.State
		return json.Unmarshal(received.last(models.TypeState), &state) == nil && state.Hash == navigator.Hash()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, received.count(models.TypeError))
}

func TestNavigator_UnknownVariantReportsError(t *testing.T) {
	navigator, err := Connect(navigationServer(t), testutils.Reference, "#Obj-act", zap.NewNop().Sugar())
	require.NoError(t, err)
	defer navigator.Close()
	received := record(navigator, models.TypeError)

	require.NoError(t, navigator.Activate("", "nope"))

	require.Eventually(t, func() bool { return received.count(models.TypeError) == 1 }, 2*time.Second, 10*time.Millisecond)
	var msg models.Error
	require.NoError(t, json.Unmarshal(received.last(models.TypeError), &msg))
	assert.Equal(t, variants.ErrMsgInvalidCombination, msg.Message)
}

func TestConnect_UnknownReference(t *testing.T) {
	_, err := Connect(navigationServer(t), "", "", zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestNavigator_RunCommand(t *testing.T) {
	navigator := NewNavigator("", "", "", nil, zap.NewNop().Sugar())

	proceed, err := navigator.runCommand("")
	assert.True(t, proceed)
	assert.NoError(t, err)

	proceed, err = navigator.runCommand("jump #x")
	assert.True(t, proceed)
	assert.ErrorContains(t, err, "jump")

	proceed, err = navigator.runCommand("quit")
	assert.False(t, proceed)
	assert.NoError(t, err)
}
