package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
	"github.com/nutribattle/nutribattle/internal/cli/session"
)

// stubAuth logs in any user with a fixed token without a backend
type stubAuth struct {
	token string
	role  api.Role
}

func (s stubAuth) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	return &api.AuthResponse{AccessToken: s.token, ID: 1, Username: creds.Username, Role: s.role}, nil
}

func (s stubAuth) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	return &api.AuthResponse{AccessToken: s.token, ID: 1, Username: req.Username, Role: s.role}, nil
}

// countingNavigator records navigations
type countingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *countingNavigator) Navigate(path string, replace bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *countingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.paths)
}

// loggedIn returns a store holding token
func loggedIn(t *testing.T, token string) *session.Store {
	t.Helper()
	store := session.Open(session.NewMemoryStorage(), session.WithAuthenticator(stubAuth{token: token, role: api.RoleUser}))
	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	return store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sampleFoods() []api.Food {
	return []api.Food{
		{ID: 12, Name: "Momo", Category: "Dumplings", Type: api.FoodTypeTraditional, Calories: 250, Protein: 9, NutriScore: "C"},
		{ID: 47, Name: "Dal Bhat", Category: "Rice", Type: api.FoodTypeTraditional, Calories: 180, Protein: 7, NutriScore: "A"},
		{ID: 48, Name: "Fried Rice", Category: "Rice", Type: api.FoodTypeModern, Calories: 230, Protein: 5, NutriScore: "D"},
		{ID: 49, Name: "Jeera Rice", Category: "Rice", Type: api.FoodTypeTraditional, Calories: 200, Protein: 4, NutriScore: "C"},
		{ID: 50, Name: "Pizza", Category: "Fast Food", Type: api.FoodTypeModern, Calories: 290, Protein: 11, NutriScore: "E"},
	}
}

func foodByID(id string) (api.Food, bool) {
	for _, f := range sampleFoods() {
		if id == jsonID(f.ID) {
			return f, true
		}
	}
	return api.Food{}, false
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestClient_BearerHeaderOnlyWithToken(t *testing.T) {
	var got []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Authorization"))
		mu.Unlock()
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, []api.Food{})
	}))
	defer server.Close()

	anonymous := New(server.URL, session.Open(session.NewMemoryStorage()), nil)
	_, err := anonymous.ListFoods(context.Background())
	require.NoError(t, err)

	authed := New(server.URL, loggedIn(t, "tok-123"), nil)
	_, err = authed.ListFoods(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok-123"}, got)
}

func TestClient_LoginRejectedWithBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
	}))
	defer server.Close()

	store := session.Open(session.NewMemoryStorage())
	c := New(server.URL, store, nil)
	store.Bind(c)

	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Equal(t, KindHTTP, KindOf(err))
	assert.False(t, store.IsAuthenticated())
}

func TestClient_FailedLoginKeepsExistingSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid username or password"})
	}))
	defer server.Close()

	store := loggedIn(t, "tok-alice")
	nav := &countingNavigator{}
	c := New(server.URL, store, nav)
	store.Bind(c)

	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid username or password", err.Error())
	assert.True(t, store.IsAuthenticated())
	assert.Zero(t, nav.count())
}

func TestClient_LoginSuccessPersistsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, api.AuthResponse{
			AccessToken: "tok-new", ID: 3, Username: creds.Username, Email: "admin@nutribattle.local", Role: api.RoleAdmin,
		})
	}))
	defer server.Close()

	storage := session.NewMemoryStorage()
	store := session.Open(storage)
	store.Bind(New(server.URL, store, nil))

	sess, err := store.Login(context.Background(), api.Credentials{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "tok-new", sess.Token)
	assert.True(t, store.IsAdmin())

	// A fresh store sees the persisted session
	assert.True(t, session.Open(storage).IsAdmin())
}

func TestClient_UnauthorizedClearsSessionAndRedirects(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
	}))
	defer server.Close()

	store := loggedIn(t, "tok-valid")
	history := guard.NewHistory(nil)
	history.Navigate(guard.RouteDashboard, false)
	c := New(server.URL, store, history)

	_, err := c.ListFoods(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.True(t, errors.Is(err, ErrUnauthorized))

	assert.Equal(t, int32(1), hits.Load(), "the request is not retried")
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, guard.RouteLogin, history.Current())
	assert.Equal(t, []string{guard.RouteLanding, guard.RouteLogin}, history.Entries(), "the redirect replaces the current entry")
}

func TestClient_ConcurrentUnauthorizedRedirectsOnce(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := loggedIn(t, "tok-valid")
	nav := &countingNavigator{}
	c := New(server.URL, store, nav)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.NutritionGoals(context.Background())
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.Equal(t, KindUnauthorized, KindOf(err))
	}
	assert.Equal(t, 1, nav.count())
	assert.False(t, store.IsAuthenticated())
}

func TestClient_UnauthorizedWithoutSessionDoesNotRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	nav := &countingNavigator{}
	c := New(server.URL, session.Open(session.NewMemoryStorage()), nav)

	_, err := c.Profile(context.Background())
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Zero(t, nav.count())
}

func TestClient_HTTPErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{"message field", http.StatusBadRequest, "application/json", `{"success":false,"message":"Food is used in intakes"}`, "Food is used in intakes"},
		{"error field", http.StatusInternalServerError, "application/json", `{"error":"boom"}`, "boom"},
		{"plain text", http.StatusBadRequest, "text/plain", "Current password is incorrect", "Current password is incorrect"},
		{"empty body", http.StatusNotFound, "text/plain", "", "Not Found (status 404)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(server.URL, loggedIn(t, "tok"), nil)
			_, err := c.ChangePassword(context.Background(), api.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "newsecret"})
			require.Error(t, err)

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.Equal(t, KindHTTP, KindOf(err))
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(url, nil, nil)
	_, err := c.ListFoods(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.MethodGet, netErr.Method)
	assert.False(t, netErr.Timeout())
}

func TestClient_Timeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()
	defer close(done)

	c := New(server.URL, nil, nil, WithTimeout(50*time.Millisecond))
	_, err := c.Categories(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestClient_SchemaDefaultsAndValidation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/nutrition/goals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"nutritionGoal": "WEIGHT_LOSS"})
	})
	mux.HandleFunc("/foods/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"name": "no id"})
	})
	mux.HandleFunc("/foods", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"ok"},`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)

	goals, err := c.NutritionGoals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.GoalWeightLoss, goals.NutritionGoal)
	assert.Equal(t, api.AgeMiddleAge, goals.AgeGroup)
	assert.Equal(t, api.DefaultCalorieGoal, goals.DailyCalorieGoal)
	assert.Equal(t, api.DefaultFatGoal, goals.DailyFatGoal)

	_, err = c.GetFood(context.Background(), 1)
	assert.Equal(t, KindSchema, KindOf(err), "missing required id")

	_, err = c.ListFoods(context.Background())
	assert.Equal(t, KindSchema, KindOf(err), "truncated payload")
}

func TestClient_ValidationBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"zero quantity", func() error {
			_, err := c.AddIntake(ctx, api.AddFoodIntakeRequest{FoodID: 1, Quantity: 0, MealType: api.MealLunch})
			return err
		}},
		{"unknown meal", func() error {
			_, err := c.AddIntake(ctx, api.AddFoodIntakeRequest{FoodID: 1, Quantity: 100, MealType: "BRUNCH"})
			return err
		}},
		{"missing food", func() error {
			_, err := c.AddIntake(ctx, api.AddFoodIntakeRequest{Quantity: 100, MealType: api.MealLunch})
			return err
		}},
		{"update zero quantity", func() error {
			_, err := c.UpdateIntake(ctx, 3, api.UpdateFoodIntakeRequest{Quantity: 0, MealType: api.MealLunch})
			return err
		}},
		{"update bad id", func() error {
			_, err := c.UpdateIntake(ctx, 0, api.UpdateFoodIntakeRequest{Quantity: 100, MealType: api.MealLunch})
			return err
		}},
		{"compare nothing", func() error {
			_, err := c.CompareFoods(ctx, nil)
			return err
		}},
		{"compare four", func() error {
			_, err := c.CompareFoods(ctx, []int64{1, 2, 3, 4})
			return err
		}},
		{"k too large", func() error {
			_, err := c.Recommendations(ctx, 1, 11, api.ModeMixed)
			return err
		}},
		{"unknown mode", func() error {
			_, err := c.Recommendations(ctx, 1, 5, "RANDOM")
			return err
		}},
		{"short password", func() error {
			_, err := c.ChangePassword(ctx, api.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "abc"})
			return err
		}},
		{"bad goal", func() error {
			_, err := c.SetNutritionGoals(ctx, api.NutritionGoalRequest{NutritionGoal: "BULK", AgeGroup: api.AgeChild})
			return err
		}},
		{"signup bad email", func() error {
			_, err := c.Signup(ctx, api.SignupRequest{Username: "bob", Email: "nope", Password: "secret1", FullName: "Bob"})
			return err
		}},
		{"negative calories", func() error {
			_, err := c.CreateFood(ctx, api.FoodInput{Name: "x", Category: "y", Type: api.FoodTypeModern, Calories: -1})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err), err.Error())
		})
	}
	assert.Zero(t, hits.Load())
}

func TestClient_ValidationMessageUsesJSONNames(t *testing.T) {
	c := New("http://unused", nil, nil)
	_, err := c.ChangePassword(context.Background(), api.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "abc"})
	require.Error(t, err)
	assert.Equal(t, "newPassword must be at least 6 characters", err.Error())
}

func TestClient_CompareFoods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compare", r.URL.Path)
		var req api.CompareRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int64{12, 47}, req.FoodIDs)

		foods := sampleFoods()[:2]
		writeJSON(w, http.StatusOK, api.ComparisonResult{Foods: foods, HealthiestFood: &foods[1]})
	}))
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)
	result, err := c.CompareFoods(context.Background(), []int64{12, 47})
	require.NoError(t, err)

	require.Len(t, result.Foods, 2)
	require.NotNil(t, result.HealthiestFood)
	assert.Contains(t, []int64{12, 47}, result.HealthiestFood.ID)
	assert.NotNil(t, result.Recommendations, "defaults fill optional lists")
}

func TestClient_CompareFoodsFallsBackLocally(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/compare", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("/foods/", func(w http.ResponseWriter, r *http.Request) {
		food, ok := foodByID(r.URL.Path[len("/foods/"):])
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, food)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)
	result, err := c.CompareFoods(context.Background(), []int64{12, 47})
	require.NoError(t, err)

	require.Len(t, result.Foods, 2)
	assert.Equal(t, int64(47), result.HealthiestFood.ID, "grade A beats grade C")
	assert.Equal(t, []string{
		"Momo has the highest protein content (9g).",
		"Momo has the highest calorie content (250kcal).",
	}, result.Recommendations)

	_, err = c.CompareFoods(context.Background(), []int64{12, 999})
	assert.Equal(t, KindHTTP, KindOf(err))
}

func TestClient_CompareFoodsDoesNotFallBackOnUnauthorized(t *testing.T) {
	var foodHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/compare", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/foods/", func(w http.ResponseWriter, r *http.Request) {
		foodHits.Add(1)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)
	_, err := c.CompareFoods(context.Background(), []int64{12, 47})
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Zero(t, foodHits.Load())
}

func TestClient_RecommendationsFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recommendations/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("k"))
		assert.Equal(t, "SAME_CATEGORY", r.URL.Query().Get("mode"))
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/foods/", func(w http.ResponseWriter, r *http.Request) {
		food, ok := foodByID(r.URL.Path[len("/foods/"):])
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, food)
	})
	mux.HandleFunc("/foods", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sampleFoods())
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)

	recs, err := c.Recommendations(context.Background(), 47, 2, api.ModeSameCategory)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.NotEqual(t, int64(47), r.Food.ID)
		assert.Equal(t, "Rice", r.Food.Category)
		assert.GreaterOrEqual(t, r.SimilarityScore, 0.7)
		assert.LessOrEqual(t, r.SimilarityScore, 0.9)
	}

	// Momo is alone in its category, so any other food may stand in
	recs, err = c.Recommendations(context.Background(), 12, 2, api.ModeSameCategory)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.NotEqual(t, int64(12), r.Food.ID)
		assert.Contains(t, r.Reason, "Alternative")
	}
}

func TestClient_RecommendationsFromBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MIXED", r.URL.Query().Get("mode"), "mode defaults to mixed")
		writeJSON(w, http.StatusOK, []map[string]any{
			{"food": sampleFoods()[1], "similarityScore": 0.93, "reason": "Lower fat"},
		})
	}))
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)
	recs, err := c.Recommendations(context.Background(), 12, DefaultRecommendations, "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Lower fat", recs[0].Reason)
	assert.NotNil(t, recs[0].Improvements)
}

func TestClient_HomepageFallback(t *testing.T) {
	foods := make([]api.Food, 12)
	for i := range foods {
		foods[i] = api.Food{ID: int64(i + 1), Name: "food"}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/foods/homepage", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/foods", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, foods)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL, nil, nil)
	got, err := c.HomepageFoods(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 8)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestClient_DeleteIntakeNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/nutrition/intake/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)
	require.NoError(t, c.DeleteIntake(context.Background(), 9))
}

func TestClient_UpdateIntake(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/nutrition/intake/3", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"quantity": 200.0, "mealType": "DINNER", "notes": "seconds"}, body)

		writeJSON(w, http.StatusOK, api.FoodIntakeResponse{ID: 3, FoodID: 12, FoodName: "Momo", Quantity: 200, MealType: api.MealDinner, Notes: "seconds"})
	}))
	defer server.Close()

	c := New(server.URL, loggedIn(t, "tok"), nil)
	intake, err := c.UpdateIntake(context.Background(), 3, api.UpdateFoodIntakeRequest{Quantity: 200, MealType: api.MealDinner, Notes: "seconds"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), intake.FoodID)
	assert.Equal(t, 200.0, intake.Quantity)
}

func TestClient_UpdateIntakeRejectedChangeSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "The food of a logged intake cannot be changed"})
	}))
	defer server.Close()

	other := int64(47)
	c := New(server.URL, loggedIn(t, "tok"), nil)
	_, err := c.UpdateIntake(context.Background(), 3, api.UpdateFoodIntakeRequest{Quantity: 100, MealType: api.MealLunch, FoodID: &other})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "The food of a logged intake cannot be changed", httpErr.Message)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
	assert.Equal(t, KindValidation, KindOf(invalid("k", "bad")))
	assert.Equal(t, KindUnauthorized, KindOf(&HTTPError{Status: 401}))
	assert.Equal(t, KindHTTP, KindOf(&HTTPError{Status: 409}))
	assert.Equal(t, KindNetwork, KindOf(&NetworkError{Err: errors.New("refused")}))
	assert.Equal(t, KindSchema, KindOf(&SchemaError{Err: errors.New("bad")}))
}
