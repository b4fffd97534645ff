package middleware_test

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func idempotentRouter(rdb *redis.Client, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", middleware.Idempotency(rdb), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"ok": true, "data": gin.H{"id": 1}})
	})
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	return postBody(r, key, "")
}

func postBody(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func anonymousKey(key, body string) string {
	sum := sha256.Sum256([]byte(body))
	return "idemp:/register:0:" + key + ":" + hex.EncodeToString(sum[:])
}

func TestIdempotency(t *testing.T) {
	cacheKey := anonymousKey("abc", "")
	lockKey := cacheKey + ":lock"

	t.Run("nil client passes through", func(t *testing.T) {
		calls := 0
		w := postWithKey(idempotentRouter(nil, &calls), "abc")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("no key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		w := postWithKey(idempotentRouter(rdb, &calls), "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request stores response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.CustomMatch(func(expected, actual []interface{}) error {
			return nil
		}).ExpectSet(cacheKey, "", 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		calls := 0
		w := postWithKey(idempotentRouter(rdb, &calls), "abc")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay skips handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"ok":true,"data":{"id":1}}}`)

		calls := 0
		w := postWithKey(idempotentRouter(rdb, &calls), "abc")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 0, calls)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"ok":true,"data":{"id":1}}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		calls := 0
		w := postWithKey(idempotentRouter(rdb, &calls), "abc")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same key with another body is not replayed", func(t *testing.T) {
		otherKey := anonymousKey("abc", `{"company_name":"Other"}`)
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(otherKey).RedisNil()
		mock.ExpectSetNX(otherKey+":lock", "locked", 30*time.Second).SetVal(true)
		mock.CustomMatch(func(expected, actual []interface{}) error {
			return nil
		}).ExpectSet(otherKey, "", 24*time.Hour).SetVal("OK")
		mock.ExpectDel(otherKey + ":lock").SetVal(1)

		calls := 0
		r := gin.New()
		r.POST("/register", middleware.Idempotency(rdb), func(c *gin.Context) {
			calls++
			var body map[string]string
			assert.NoError(t, c.ShouldBindJSON(&body))
			assert.Equal(t, "Other", body["company_name"])
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})
		w := postBody(r, "abc", `{"company_name":"Other"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
