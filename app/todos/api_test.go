package todos

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, repo *MockTodoRepo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) TodoResponse {
	t.Helper()
	var resp TodoResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAPIRoot(t *testing.T) {
	rec := doJSON(t, &MockTodoRepo{}, http.MethodGet, "/api/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com/api/todos/", decodeErrors(t, rec)["todos"])
}

func TestAPIList(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockTodoRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success",
			mockRepoSetup: func() *MockTodoRepo {
				return &MockTodoRepo{Todos: sampleTodos()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []TodoResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				require.Len(t, resp, 2)
				assert.Equal(t, "Buy milk", resp[0].Title)
				assert.Equal(t, "2 litres", resp[0].Description)
				assert.True(t, resp[1].Completed)
			},
		},
		{
			name: "Empty list is an empty array",
			mockRepoSetup: func() *MockTodoRepo {
				return &MockTodoRepo{}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `[]`, rec.Body.String())
			},
		},
		{
			name: "Repository error",
			mockRepoSetup: func() *MockTodoRepo {
				return &MockTodoRepo{Err: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "internal server error", decodeErrors(t, rec)["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			rec := doJSON(t, tc.mockRepoSetup(), http.MethodGet, "/api/todos/", "")

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			tc.checkResponse(t, rec)
		})
	}
}

func TestAPICreate(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		expectedStatusCode int
		expectedErrors     string
		checkCreated       func(t *testing.T, resp TodoResponse)
	}{
		{
			name:               "Success",
			body:               `{"title": "Buy milk", "description": "semi-skimmed"}`,
			expectedStatusCode: http.StatusCreated,
			checkCreated: func(t *testing.T, resp TodoResponse) {
				assert.Equal(t, uint(1), resp.ID)
				assert.Equal(t, "Buy milk", resp.Title)
				assert.Equal(t, "semi-skimmed", resp.Description)
				assert.False(t, resp.Completed)
				assert.False(t, resp.CreatedAt.IsZero())
			},
		},
		{
			name:               "Read-only fields are ignored",
			body:               `{"id": 99, "title": "Walk", "completed": true, "created_at": "2000-01-01T00:00:00Z"}`,
			expectedStatusCode: http.StatusCreated,
			checkCreated: func(t *testing.T, resp TodoResponse) {
				assert.Equal(t, uint(1), resp.ID)
				assert.True(t, resp.Completed)
				assert.Equal(t, 2025, resp.CreatedAt.Year())
			},
		},
		{
			name:               "Missing title",
			body:               `{"description": "no title"}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedErrors:     `{"title": ["This field is required."]}`,
		},
		{
			name:               "Empty body",
			body:               "",
			expectedStatusCode: http.StatusBadRequest,
			expectedErrors:     `{"title": ["This field is required."]}`,
		},
		{
			name:               "Blank title",
			body:               `{"title": "   "}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedErrors:     `{"title": ["This field may not be blank."]}`,
		},
		{
			name:               "Title too long",
			body:               `{"title": "` + strings.Repeat("a", 201) + `"}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedErrors:     `{"title": ["Ensure this field has no more than 200 characters."]}`,
		},
		{
			name:               "Completed must be a boolean",
			body:               `{"title": "x", "completed": "yes"}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedErrors:     `{"completed": ["Must be a valid boolean."]}`,
		},
		{
			name:               "Body must be an object",
			body:               `["title"]`,
			expectedStatusCode: http.StatusBadRequest,
			expectedErrors:     `{"non_field_errors": ["Invalid data. Expected a dictionary, but got array."]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := &MockTodoRepo{}

			// Act
			rec := doJSON(t, repo, http.MethodPost, "/api/todos/", tc.body)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedErrors != "" {
				assert.JSONEq(t, tc.expectedErrors, rec.Body.String())
				assert.Nil(t, repo.Created, "nothing must be persisted")
				return
			}
			tc.checkCreated(t, decodeTodo(t, rec))
		})
	}
}

func TestAPIMalformedJSON(t *testing.T) {
	repo := &MockTodoRepo{}

	rec := doJSON(t, repo, http.MethodPost, "/api/todos/", `{"title": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	detail, _ := decodeErrors(t, rec)["detail"].(string)
	assert.True(t, strings.HasPrefix(detail, "JSON parse error - "), detail)
	assert.Nil(t, repo.Created)
}

func TestAPIRetrieve(t *testing.T) {
	testCases := []struct {
		name               string
		path               string
		expectedStatusCode int
		expectedBody       string
	}{
		{name: "Found", path: "/api/todos/2/", expectedStatusCode: http.StatusOK},
		{name: "Unknown id", path: "/api/todos/77/", expectedStatusCode: http.StatusNotFound, expectedBody: `{"detail": "Not found."}`},
		{name: "Non-numeric id", path: "/api/todos/abc/", expectedStatusCode: http.StatusNotFound, expectedBody: `{"detail": "Not found."}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, &MockTodoRepo{Todos: sampleTodos()}, http.MethodGet, tc.path, "")

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
				return
			}
			resp := decodeTodo(t, rec)
			assert.Equal(t, uint(2), resp.ID)
			assert.Equal(t, "Write report", resp.Title)
		})
	}
}

func TestAPIUpdate(t *testing.T) {
	t.Run("PUT replaces every writable field", func(t *testing.T) {
		repo := &MockTodoRepo{Todos: sampleTodos()}
		repo.Todos[0].Completed = true

		rec := doJSON(t, repo, http.MethodPut, "/api/todos/1/", `{"title": "Buy oat milk"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeTodo(t, rec)
		assert.Equal(t, "Buy oat milk", resp.Title)
		assert.Equal(t, "", resp.Description)
		assert.False(t, resp.Completed)
	})

	t.Run("PUT without title is rejected", func(t *testing.T) {
		repo := &MockTodoRepo{Todos: sampleTodos()}

		rec := doJSON(t, repo, http.MethodPut, "/api/todos/1/", `{"completed": true}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"title": ["This field is required."]}`, rec.Body.String())
		assert.Nil(t, repo.Saved)
	})

	t.Run("PATCH of completed keeps title and description", func(t *testing.T) {
		repo := &MockTodoRepo{Todos: sampleTodos()}

		rec := doJSON(t, repo, http.MethodPatch, "/api/todos/1/", `{"completed": true}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeTodo(t, rec)
		assert.Equal(t, "Buy milk", resp.Title)
		assert.Equal(t, "2 litres", resp.Description)
		assert.True(t, resp.Completed)
	})

	t.Run("PATCH with a blank title is rejected", func(t *testing.T) {
		repo := &MockTodoRepo{Todos: sampleTodos()}

		rec := doJSON(t, repo, http.MethodPatch, "/api/todos/1/", `{"title": ""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, repo.Saved)
	})

	t.Run("Unknown todo", func(t *testing.T) {
		rec := doJSON(t, &MockTodoRepo{}, http.MethodPatch, "/api/todos/5/", `{"completed": true}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPIDelete(t *testing.T) {
	repo := &MockTodoRepo{Todos: sampleTodos()}

	rec := doJSON(t, repo, http.MethodDelete, "/api/todos/1/", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, uint(1), repo.DeletedID)

	rec = doJSON(t, repo, http.MethodDelete, "/api/todos/1/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIToggleComplete(t *testing.T) {
	repo := &MockTodoRepo{Todos: sampleTodos()}

	rec := doJSON(t, repo, http.MethodPost, "/api/todos/1/toggle_complete/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeTodo(t, rec).Completed)

	rec = doJSON(t, repo, http.MethodPost, "/api/todos/1/toggle_complete/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeTodo(t, rec).Completed, "toggling twice restores the original state")

	rec = doJSON(t, repo, http.MethodPost, "/api/todos/9/toggle_complete/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
