package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func agentTestContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("email", "nina@mail.com")
	c.Params = gin.Params{{Key: "id", Value: primitive.NewObjectID().Hex()}}
	return c, w
}

func TestUpdateParcelStatusRejectsUnknownStatus(t *testing.T) {
	c, w := agentTestContext(t, "PUT", "/parcels/x/status", `{"status":"Lost"}`)

	UpdateParcelStatus(nil, nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestUpdateParcelStatusRequiresStatusField(t *testing.T) {
	c, w := agentTestContext(t, "PUT", "/parcels/x/status", `{}`)

	UpdateParcelStatus(nil, nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing status, got %d", w.Code)
	}
}

func TestUpdateParcelLocationRequiresCoordinates(t *testing.T) {
	c, w := agentTestContext(t, "PUT", "/parcels/x/location", `{"lat":23.8}`)

	UpdateParcelLocation(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing lng, got %d", w.Code)
	}
}

func TestUpdateParcelLocationAcceptsZeroCoordinates(t *testing.T) {
	// lat/lng bind through pointers so the equator and the prime meridian
	// are valid; binding must not reject the zero value. The handler will
	// then fail on the bogus parcel id, not on validation.
	c, w := agentTestContext(t, "PUT", "/parcels/x/location", `{"lat":0,"lng":0}`)
	c.Params = gin.Params{{Key: "id", Value: "not-an-object-id"}}

	UpdateParcelLocation(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", w.Code)
	}
	if body := w.Body.String(); !bytes.Contains([]byte(body), []byte("invalid id")) {
		t.Fatalf("expected invalid id error, got %s", body)
	}
}
