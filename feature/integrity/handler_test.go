package integrity

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"borg-link/core/apperror"
	"borg-link/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, dbIDs ...int) (*fiber.App, *serviceFixture) {
	f := newServiceFixture(t, dbIDs...)
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler(apperror.DefaultMessages(), zap.NewNop())})
	NewHandler(f.svc, auth.New(auth.Config{ApiKey: "secret"}), zap.NewNop()).RegisterRoutes(app)
	return app, f
}

func authorized(target string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set(auth.Header, "secret")
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandler_RequiresAPIKey(t *testing.T) {
	app, _ := setupTestApp(t)

	for _, target := range []string{"/integrity", "/integrity/structure", "/integrity/schema", "/integrity/items"} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, target)
	}
}

func TestHandleStructureCheck(t *testing.T) {
	app, f := setupTestApp(t)
	f.storage.On("BucketExists", mock.Anything, "borgs").Return(true, nil)
	f.storage.On("ListObjects", mock.Anything, "borgs", mock.Anything).Return(listing())

	resp, err := app.Test(authorized("/integrity/structure"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "checked", body["status"])
	assert.Equal(t, []any{"test-default", "test-large"}, body["missing"])
	f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, f := setupTestApp(t)
	f.storage.On("BucketExists", mock.Anything, "borgs").Return(true, nil)
	f.storage.On("ListObjects", mock.Anything, "borgs", mock.Anything).Return(listing())
	f.storage.On("PutObject", mock.Anything, "borgs", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(authorized("/integrity/structure?fix=true"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "fixed", decode(t, resp)["status"])
	f.storage.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestHandleStructureCheck_BucketError(t *testing.T) {
	app, f := setupTestApp(t)
	f.storage.On("BucketExists", mock.Anything, "borgs").Return(false, errors.New("unreachable"))

	resp, err := app.Test(authorized("/integrity/structure"))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(authorized("/integrity/schema"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["matched"])
}

func TestHandleItemsCheck(t *testing.T) {
	app, f := setupTestApp(t, 1)
	f.chain.On("FetchTotalGeneratedCount", mock.Anything).Return(2, nil)
	onPrefix(f.storage, "test-default/", "test-default/1.png")
	onPrefix(f.storage, "test-large/", "test-large/1.png")

	resp, err := app.Test(authorized("/integrity/items"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "checked", body["status"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["missing_db"])
	assert.Empty(t, f.repairer.imported)
}

func TestHandleItemsCheck_Fix(t *testing.T) {
	app, f := setupTestApp(t, 1)
	f.chain.On("FetchTotalGeneratedCount", mock.Anything).Return(2, nil)
	onPrefix(f.storage, "test-default/", "test-default/1.png")
	onPrefix(f.storage, "test-large/", "test-large/1.png")

	resp, err := app.Test(authorized("/integrity/items?fix=true"))
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "scheduled", body["status"])
	assert.Equal(t, float64(1), body["enqueued"])
	assert.Empty(t, f.repairer.imported)

	jobs := drain(t, f.queue)
	require.Len(t, jobs, 1)
	assert.Equal(t, 2, jobs[0].ItemID)
	assert.False(t, jobs[0].TriggerDownstream)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, f := setupTestApp(t)
	f.storage.On("BucketExists", mock.Anything, "borgs").Return(true, nil)
	f.storage.On("ListObjects", mock.Anything, "borgs", mock.Anything).Return(listing())
	f.chain.On("FetchTotalGeneratedCount", mock.Anything).Return(0, errors.New("rpc down"))

	resp, err := app.Test(authorized("/integrity"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp)
	assert.Contains(t, body, "structure")
	assert.Equal(t, true, body["schema"].(map[string]any)["matched"])
	assert.Equal(t, "error", body["items"].(map[string]any)["status"])
}
