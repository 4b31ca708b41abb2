package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "farmer/internal/api/http"
	"farmer/internal/domain"
	"farmer/internal/mocks"
	"farmer/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testRouter struct {
	http.Handler
	catalog *mocks.CatalogServiceInterface
	orders  *mocks.OrderServiceInterface
	auth    *service.AuthService
}

func setupTestRouter(t *testing.T, limiter *httpapi.RateLimiter) *testRouter {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	catalog := mocks.NewCatalogServiceInterface(t)
	orders := mocks.NewOrderServiceInterface(t)
	auth := service.NewAuthService(service.AuthConfig{
		User:   "farmer",
		Pass:   "potato",
		Secret: "s3cret",
		Issuer: "farmer",
		TTL:    time.Hour,
	})

	handler := httpapi.NewHandler(catalog, orders, auth, log)
	return &testRouter{
		Handler: httpapi.NewRouter(handler, limiter),
		catalog: catalog,
		orders:  orders,
		auth:    auth,
	}
}

func (tr *testRouter) bearer(t *testing.T) string {
	t.Helper()
	token, err := tr.auth.IssueToken("farmer")
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, req)
	return recorder
}

func TestHandler_catalogRoutes(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		target       string
		payload      string
		prepareMocks func(tr *testRouter)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "list_products",
			method: http.MethodGet,
			target: "/catalog/products",
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("ListProducts", mock.Anything).
					Return([]domain.Product{{ID: 1, Name: "bintje", Prices: []domain.Price{}, Categories: []domain.Category{}}}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"name":"bintje"`,
		},
		{
			name:   "empty_deliveries_are_a_list",
			method: http.MethodGet,
			target: "/catalog/deliveries",
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("ListDeliveries", mock.Anything).Return([]domain.Delivery{}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:    "create_order",
			method:  http.MethodPost,
			target:  "/catalog/orders/",
			payload: `{"when":"2024-06-01","contact":{"name":"Jeanne"},"products":[{"product":1,"amount":2}]}`,
			prepareMocks: func(tr *testRouter) {
				tr.orders.On("Create", mock.Anything, mock.MatchedBy(func(in service.OrderInput) bool {
					return in.When == "2024-06-01" && in.Contact != nil && in.Contact.Name == "Jeanne"
				})).Return(&domain.Order{ID: 5, Items: []domain.OrderItem{}}, nil).Once()
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"id":5`,
		},
		{
			name:    "create_order_missing_contact",
			method:  http.MethodPost,
			target:  "/catalog/orders/",
			payload: `{"when":"2024-06-01"}`,
			prepareMocks: func(tr *testRouter) {
				tr.orders.On("Create", mock.Anything, mock.Anything).
					Return(nil, domain.BadData("missing contact information")).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"missing contact information","code":400}`,
		},
		{
			name:         "create_order_invalid_json",
			method:       http.MethodPost,
			target:       "/catalog/orders/",
			payload:      `not json`,
			prepareMocks: func(*testRouter) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid JSON body","code":400}`,
		},
		{
			name:         "create_order_wrong_field_type",
			method:       http.MethodPost,
			target:       "/catalog/orders/",
			payload:      `{"when":5}`,
			prepareMocks: func(*testRouter) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid JSON body","code":400}`,
		},
		{
			name:   "internal_error_is_redacted",
			method: http.MethodGet,
			target: "/catalog/products",
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("ListProducts", mock.Anything).
					Return(nil, errors.New("pq: password authentication failed")).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"bad request","code":400}`,
		},
		{
			name:         "health",
			method:       http.MethodGet,
			target:       "/health",
			prepareMocks: func(*testRouter) {},
			expectedCode: http.StatusOK,
			expectedBody: `"service":"farmer"`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			tr := setupTestRouter(t, nil)
			testCase.prepareMocks(tr)

			recorder := serve(tr, testCase.method, testCase.target, testCase.payload, nil)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			assert.NotContains(t, recorder.Body.String(), "password")
			assert.NotContains(t, recorder.Body.String(), "json: ")
		})
	}
}

func TestHandler_authenticate(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectedCode int
	}{
		{name: "valid", payload: `{"user":"farmer","pass":"potato"}`, expectedCode: http.StatusCreated},
		{name: "wrong_password", payload: `{"user":"farmer","pass":"carrot"}`, expectedCode: http.StatusUnauthorized},
		{name: "invalid_json", payload: `{`, expectedCode: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			tr := setupTestRouter(t, nil)
			recorder := serve(tr, http.MethodPost, "/auth/", testCase.payload, nil)
			assert.Equal(t, testCase.expectedCode, recorder.Code)

			if testCase.expectedCode == http.StatusCreated {
				var token string
				require.NoError(t, jsonDecode(recorder.Body, &token))
				user, err := tr.auth.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, "farmer", user)
			}
		})
	}
}

func TestHandler_shedAuthentication(t *testing.T) {
	tests := []struct {
		name          string
		headers       func(tr *testRouter) map[string]string
		prepareMocks  func(tr *testRouter)
		expectedCode  int
		expectRotated bool
	}{
		{
			name:         "no_authorization_header",
			headers:      func(*testRouter) map[string]string { return nil },
			expectedCode: http.StatusForbidden,
		},
		{
			name: "not_a_bearer_token",
			headers: func(*testRouter) map[string]string {
				return map[string]string{"Authorization": "Token abc"}
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "tampered_token",
			headers: func(tr *testRouter) map[string]string {
				return map[string]string{"Authorization": tr.bearer(t) + "x"}
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "token_without_user",
			headers: func(tr *testRouter) map[string]string {
				token, err := tr.auth.IssueToken("")
				require.NoError(t, err)
				return map[string]string{"Authorization": "Bearer " + token}
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "wrong_basic_credentials",
			headers: func(*testRouter) map[string]string {
				return map[string]string{"Authorization": basic("farmer", "carrot")}
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "valid_bearer_rotates_token",
			headers: func(tr *testRouter) map[string]string {
				return map[string]string{"Authorization": tr.bearer(t)}
			},
			prepareMocks: func(tr *testRouter) {
				tr.orders.On("List", mock.Anything).Return([]domain.Order{}, nil).Once()
			},
			expectedCode:  http.StatusOK,
			expectRotated: true,
		},
		{
			name: "valid_basic_rotates_token",
			headers: func(*testRouter) map[string]string {
				return map[string]string{"Authorization": basic("farmer", "potato")}
			},
			prepareMocks: func(tr *testRouter) {
				tr.orders.On("List", mock.Anything).Return([]domain.Order{}, nil).Once()
			},
			expectedCode:  http.StatusOK,
			expectRotated: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			tr := setupTestRouter(t, nil)
			if testCase.prepareMocks != nil {
				testCase.prepareMocks(tr)
			}

			recorder := serve(tr, http.MethodGet, "/shed/orders", "", testCase.headers(tr))
			assert.Equal(t, testCase.expectedCode, recorder.Code)

			rotated := recorder.Header().Get("Authorization")
			if !testCase.expectRotated {
				assert.Empty(t, rotated)
				assert.Contains(t, recorder.Body.String(), `"code":`)
				return
			}
			require.True(t, strings.HasPrefix(rotated, "Bearer "))
			user, err := tr.auth.ParseToken(strings.TrimPrefix(rotated, "Bearer "))
			require.NoError(t, err)
			assert.Equal(t, "farmer", user)
		})
	}
}

func TestHandler_tokenWithoutUserSkipsHandler(t *testing.T) {
	tr := setupTestRouter(t, nil)
	token, err := tr.auth.IssueToken("")
	require.NoError(t, err)

	recorder := serve(tr, http.MethodPost, "/shed/products/", `{"name":"bintje"}`, map[string]string{
		"Authorization": "Bearer " + token,
	})

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, `{"error":"token carries no user","code":403}`, strings.TrimSpace(recorder.Body.String()))
	assert.Empty(t, recorder.Header().Get("Authorization"))
	tr.catalog.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestHandler_shedRoutes(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		target        string
		payload       string
		prepareMocks  func(tr *testRouter)
		expectedCode  int
		expectedBody  string
		expectRotated bool
	}{
		{
			name:    "create_product",
			method:  http.MethodPost,
			target:  "/shed/products/",
			payload: `{"name":"bintje","prices":[{"amount":2}],"categories":["légumes"]}`,
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in service.ProductInput) bool {
					return in.Name != nil && *in.Name == "bintje" && len(in.Prices) == 1
				})).Return(&domain.Product{ID: 3, Name: "bintje"}, nil).Once()
			},
			expectedCode:  http.StatusCreated,
			expectedBody:  `"id":3`,
			expectRotated: true,
		},
		{
			name:    "create_product_bad_price",
			method:  http.MethodPost,
			target:  "/shed/products/",
			payload: `{"name":"bintje","prices":[2]}`,
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("CreateProduct", mock.Anything, mock.Anything).
					Return(nil, domain.BadData("expected object for price")).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `"expected object for price"`,
		},
		{
			name:    "edit_unknown_product",
			method:  http.MethodPut,
			target:  "/shed/products/42",
			payload: `{"desc":"x"}`,
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("EditProduct", mock.Anything, 42, mock.Anything).
					Return(nil, domain.NotFound("product not found")).Once()
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:    "upload_image",
			method:  http.MethodPost,
			target:  "/shed/products/3/upload",
			payload: "\x89PNG",
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("UploadImage", mock.Anything, 3, []byte("\x89PNG")).Return(nil).Once()
			},
			expectedCode:  http.StatusCreated,
			expectedBody:  `{"id":3,"size":4}`,
			expectRotated: true,
		},
		{
			name:         "upload_empty_image",
			method:       http.MethodPost,
			target:       "/shed/products/3/upload",
			prepareMocks: func(*testRouter) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `"empty image"`,
		},
		{
			name:    "create_delivery",
			method:  http.MethodPost,
			target:  "/shed/deliveries/",
			payload: `{"distance":20,"amount":60}`,
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("CreateDelivery", mock.Anything, mock.Anything).
					Return(&domain.Delivery{ID: 1, Distance: 20, Amount: 60}, nil).Once()
			},
			expectedCode:  http.StatusCreated,
			expectedBody:  `"distance":20`,
			expectRotated: true,
		},
		{
			name:    "edit_delivery",
			method:  http.MethodPut,
			target:  "/shed/deliveries/1",
			payload: `{"amount":65}`,
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("EditDelivery", mock.Anything, 1, mock.Anything).
					Return(&domain.Delivery{ID: 1, Distance: 20, Amount: 65}, nil).Once()
			},
			expectedCode:  http.StatusOK,
			expectedBody:  `"amount":65`,
			expectRotated: true,
		},
		{
			name:   "delete_delivery",
			method: http.MethodDelete,
			target: "/shed/deliveries/1",
			prepareMocks: func(tr *testRouter) {
				tr.catalog.On("DeleteDelivery", mock.Anything, 1).Return(nil).Once()
			},
			expectedCode:  http.StatusNoContent,
			expectRotated: true,
		},
		{
			name:   "get_order",
			method: http.MethodGet,
			target: "/shed/orders/5",
			prepareMocks: func(tr *testRouter) {
				tr.orders.On("Get", mock.Anything, 5).
					Return(&domain.Order{ID: 5, Items: []domain.OrderItem{}}, nil).Once()
			},
			expectedCode:  http.StatusOK,
			expectedBody:  `"id":5`,
			expectRotated: true,
		},
		{
			name:   "order_qrcode",
			method: http.MethodGet,
			target: "/shed/orders/5/qrcode",
			prepareMocks: func(tr *testRouter) {
				tr.orders.On("PickupQRCode", mock.Anything, 5).Return([]byte("\x89PNG"), nil).Once()
			},
			expectedCode:  http.StatusOK,
			expectedBody:  "\x89PNG",
			expectRotated: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			tr := setupTestRouter(t, nil)
			testCase.prepareMocks(tr)

			recorder := serve(tr, testCase.method, testCase.target, testCase.payload,
				map[string]string{"Authorization": tr.bearer(t)})
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			if testCase.expectRotated {
				assert.True(t, strings.HasPrefix(recorder.Header().Get("Authorization"), "Bearer "))
			} else {
				assert.Empty(t, recorder.Header().Get("Authorization"))
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	tests := []struct {
		name          string
		headers       map[string]string
		expectedAllow string
		expectExpose  bool
	}{
		{
			name:          "browser_request",
			headers:       map[string]string{"Origin": "https://shop.example"},
			expectedAllow: "*",
			expectExpose:  true,
		},
		{
			name:    "no_origin_no_cors_headers",
			headers: nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			tr := setupTestRouter(t, nil)
			tr.catalog.On("ListProducts", mock.Anything).Return([]domain.Product{}, nil).Once()

			recorder := serve(tr, http.MethodGet, "/catalog/products", "", testCase.headers)
			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
			assert.Equal(t, testCase.expectedAllow, recorder.Header().Get("Access-Control-Allow-Origin"))
			if testCase.expectExpose {
				assert.Equal(t, "Authorization", recorder.Header().Get("Access-Control-Expose-Headers"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Expose-Headers"))
			}
			// method and header lists only go out on preflight
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Methods"))
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	tr := setupTestRouter(t, nil)

	preflight := serve(tr, http.MethodOptions, "/shed/products/", "", map[string]string{
		"Origin":                         "https://shop.example",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Authorization, Content-Type",
	})
	assert.Less(t, preflight.Code, http.StatusBadRequest)
	assert.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, preflight.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.NotEmpty(t, preflight.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, preflight.Header().Get("Authorization"))
}

func TestRouter_LoginRateLimit(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	tr := setupTestRouter(t, httpapi.NewRateLimiter(0.001, 2, log))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		recorder := serve(tr, http.MethodPost, "/auth/", `{"user":"farmer","pass":"carrot"}`, nil)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	// the catalog is not throttled
	tr.catalog.On("ListDeliveries", mock.Anything).Return([]domain.Delivery{}, nil).Times(3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(tr, http.MethodGet, "/catalog/deliveries", "", nil).Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	tr := setupTestRouter(t, nil)
	serve(tr, http.MethodGet, "/health", "", nil)

	recorder := serve(tr, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "farmer_http_requests_total")
}

func basic(user, pass string) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth(user, pass)
	return req.Header.Get("Authorization")
}

func jsonDecode(body *bytes.Buffer, dst any) error {
	return json.NewDecoder(body).Decode(dst)
}
