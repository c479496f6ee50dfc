package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopez_back_end/internal/cartcache"
	"shopez_back_end/internal/cartstore"
	"shopez_back_end/internal/cartsync"
	"shopez_back_end/internal/middleware"
	"shopez_back_end/internal/models"
	"shopez_back_end/internal/utils"
)

func newCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cache, err := cartcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)

	InitCart(cartsync.New(cartstore.New(rdb), cache))

	r := gin.New()
	cart := r.Group("/api/cart", middleware.AuthRequired())
	cart.GET("", GetCart)
	cart.POST("/add", AddToCart)
	cart.PUT("/:productId/quantity", UpdateQuantity)
	cart.POST("/:productId/increase", IncreaseQuantity)
	cart.POST("/:productId/decrease", DecreaseQuantity)
	cart.DELETE("/:productId", RemoveFromCart)
	return r
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWT(models.User{ID: userID, Email: userID + "@example.com"})
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type cartBody struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func getCart(t *testing.T, r *gin.Engine, auth string) cartBody {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/api/cart", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCartEndToEnd(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := newCartRouter(t)
	auth := bearer(t, "u1")

	product := models.Product{ID: 1, Title: "Sac à dos", Price: 9.99, Image: "https://example.com/sac.jpg"}

	// Ajout sur panier vide → quantité 1
	w := doJSON(t, r, http.MethodPost, "/api/cart/add", auth, product)
	require.Equal(t, http.StatusOK, w.Code)

	body := getCart(t, r, auth)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "1", body.Items[0].ID)
	assert.Equal(t, 1, body.Items[0].Quantity)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 9.99, body.Total)

	// Deuxième ajout du même produit → quantité 2
	w = doJSON(t, r, http.MethodPost, "/api/cart/add", auth, product)
	require.Equal(t, http.StatusOK, w.Code)

	body = getCart(t, r, auth)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.Items[0].Quantity)
	assert.Equal(t, 19.98, body.Total)

	// Quantité 0 → ligne supprimée
	w = doJSON(t, r, http.MethodPut, "/api/cart/1/quantity", auth, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	body = getCart(t, r, auth)
	assert.Empty(t, body.Items)
	assert.Equal(t, 0, body.Count)
}

func TestCartIncreaseDecrease(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := newCartRouter(t)
	auth := bearer(t, "u1")

	product := models.Product{ID: 5, Title: "Bague", Price: 10}
	require.Equal(t, http.StatusOK,
		doJSON(t, r, http.MethodPost, "/api/cart/add", auth, product).Code)

	w := doJSON(t, r, http.MethodPost, "/api/cart/5/increase", auth, gin.H{"currentQuantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	body := getCart(t, r, auth)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.Items[0].Quantity)

	// Décrément depuis 1 → suppression
	w = doJSON(t, r, http.MethodPost, "/api/cart/5/decrease", auth, gin.H{"currentQuantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	body = getCart(t, r, auth)
	assert.Empty(t, body.Items)
}

func TestCartRemove(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := newCartRouter(t)
	auth := bearer(t, "u1")

	product := models.Product{ID: 3, Title: "Écharpe", Price: 15.5}
	require.Equal(t, http.StatusOK,
		doJSON(t, r, http.MethodPost, "/api/cart/add", auth, product).Code)

	w := doJSON(t, r, http.MethodDelete, "/api/cart/3", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Suppression répétée : même résultat
	w = doJSON(t, r, http.MethodDelete, "/api/cart/3", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := getCart(t, r, auth)
	assert.Empty(t, body.Items)
}

func TestCartRequiresAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := newCartRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/cart/add", "",
		models.Product{ID: 1, Title: "Sac à dos", Price: 9.99})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartsIsolatedPerUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := newCartRouter(t)
	authA := bearer(t, "ua")
	authB := bearer(t, "ub")

	require.Equal(t, http.StatusOK,
		doJSON(t, r, http.MethodPost, "/api/cart/add", authA,
			models.Product{ID: 1, Title: "Sac à dos", Price: 9.99}).Code)

	assert.Len(t, getCart(t, r, authA).Items, 1)
	assert.Empty(t, getCart(t, r, authB).Items)
}
